package auth

import dom "hubplus/internal/domain"

type Attribute string

const (
	View   Attribute = "view"
	Edit   Attribute = "edit"
	Create Attribute = "create"
)

type Kind string

const (
	KindTodo              Kind = "todo"
	KindGoal              Kind = "goal"
	KindCampaign          Kind = "campaign"
	KindVoucher           Kind = "voucher"
	KindVoucherRedemption Kind = "voucher_redemption"
	KindEventSession      Kind = "event_session"
	KindRegistration      Kind = "registration"
	KindRestrictedAddress Kind = "restricted_address"
	KindEmailTemplate     Kind = "email_template"
	KindJob               Kind = "job"
	KindAudit             Kind = "audit"
)

// Subject is what a decision is made about. OwnerID is 0 when ownership does not apply
// or is enforced by the query itself.
type Subject struct {
	Kind    Kind
	OwnerID int64
}

// Voter makes per-resource authorization decisions.
type Voter struct{}

func (Voter) Vote(p Principal, attr Attribute, s Subject) bool {
	if p.UserID == 0 {
		return false
	}
	admin := p.Role == dom.RoleAdmin
	switch s.Kind {
	case KindTodo, KindGoal:
		return s.OwnerID == 0 || s.OwnerID == p.UserID || (admin && attr == View)
	case KindEventSession:
		return attr == View || admin
	case KindRegistration, KindVoucherRedemption:
		return attr != Edit || admin
	case KindCampaign, KindVoucher, KindRestrictedAddress, KindEmailTemplate, KindJob, KindAudit:
		return admin
	}
	return false
}
