package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"

	"github.com/google/uuid"
)

const (
	MaxVoucherBatch = 1000
	voucherCodeLen  = 12
)

type VoucherService struct {
	repo      repo.VoucherRepo
	campaigns repo.CampaignRepo
	audit     AuditSink
	now       func() time.Time
	newCode   func() string
}

func NewVoucherService(r repo.VoucherRepo, campaigns repo.CampaignRepo, audit AuditSink) *VoucherService {
	return &VoucherService{
		repo:      r,
		campaigns: campaigns,
		audit:     orNop(audit),
		now:       func() time.Time { return time.Now().UTC() },
		newCode:   NewVoucherCode,
	}
}

// NewVoucherCode returns 12 upper-case hex characters taken from a random UUID.
func NewVoucherCode() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:voucherCodeLen]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *VoucherService) Generate(ctx context.Context, actor, campaignID int64, count int, valueCents int64, expiresAt *time.Time) ([]dom.Voucher, error) {
	if count < 1 || count > MaxVoucherBatch {
		return nil, invalid("count", "must be between 1 and %d", MaxVoucherBatch)
	}
	if valueCents <= 0 {
		return nil, invalid("value_cents", "must be positive")
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return nil, invalid("expires_at", "must be in the future")
	}
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, mapNoRows(err)
	}

	// A code collision aborts the whole insert; one retry with fresh codes is enough in practice.
	var out []dom.Voucher
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		codes := make([]string, count)
		for i := range codes {
			codes[i] = s.newCode()
		}
		out, err = s.repo.CreateBatch(ctx, campaignID, codes, valueCents, expiresAt)
		if err == nil || !utils.IsPGUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.audit.Record(ctx, event("campaign", campaignID, dom.ActionUpdate, actor))
	return out, nil
}

func (s *VoucherService) ListByCampaign(ctx context.Context, campaignID int64) ([]dom.Voucher, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, mapNoRows(err)
	}
	return s.repo.ListByCampaign(ctx, campaignID)
}

func (s *VoucherService) GetByCode(ctx context.Context, code string) (dom.Voucher, error) {
	v, err := s.repo.GetByCode(ctx, normalizeCode(code))
	return v, mapNoRows(err)
}

// Redeem explains a failed conditional update by re-reading the voucher.
func (s *VoucherService) Redeem(ctx context.Context, userID int64, code string) (dom.Voucher, error) {
	code = normalizeCode(code)
	now := s.now()
	v, err := s.repo.Redeem(ctx, code, userID, now)
	if err == nil {
		s.audit.Record(ctx, event("voucher", v.ID, dom.ActionUpdate, userID))
		return v, nil
	}
	if !errors.Is(mapNoRows(err), ErrNotFound) {
		return dom.Voucher{}, err
	}
	current, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return dom.Voucher{}, mapNoRows(err)
	}
	if current.Status != dom.VoucherAvailable {
		return dom.Voucher{}, ErrVoucherUnavailable
	}
	if current.Expired(now) {
		return dom.Voucher{}, ErrVoucherExpired
	}
	return dom.Voucher{}, ErrVoucherUnavailable
}

func (s *VoucherService) Void(ctx context.Context, actor int64, code string) (dom.Voucher, error) {
	code = normalizeCode(code)
	v, err := s.repo.Void(ctx, code)
	if err != nil {
		if !errors.Is(mapNoRows(err), ErrNotFound) {
			return dom.Voucher{}, err
		}
		if _, err := s.repo.GetByCode(ctx, code); err != nil {
			return dom.Voucher{}, mapNoRows(err)
		}
		return dom.Voucher{}, ErrVoucherUnavailable
	}
	s.audit.Record(ctx, event("voucher", v.ID, dom.ActionUpdate, actor))
	return v, nil
}
