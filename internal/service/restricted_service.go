package service

import (
	"context"
	"errors"
	"strings"

	"hubplus/internal/addressmatch"
	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"
)

type RestrictedAddressService struct {
	repo  repo.RestrictedAddressRepo
	audit AuditSink
}

func NewRestrictedAddressService(r repo.RestrictedAddressRepo, audit AuditSink) *RestrictedAddressService {
	return &RestrictedAddressService{repo: r, audit: orNop(audit)}
}

func (s *RestrictedAddressService) Create(ctx context.Context, actor int64, line1, postal, reason string) (dom.RestrictedAddress, error) {
	line1 = strings.TrimSpace(line1)
	postal = strings.TrimSpace(postal)
	if addressmatch.NormalizeLine(line1) == "" {
		return dom.RestrictedAddress{}, invalid("address_line1", "must contain letters or digits")
	}
	if addressmatch.NormalizePostal(postal) == "" {
		return dom.RestrictedAddress{}, invalid("postal_code", "must contain letters or digits")
	}
	a, err := s.repo.Create(ctx, dom.RestrictedAddress{
		AddressLine1: line1,
		PostalCode:   postal,
		MatchKey:     addressmatch.Key(line1, postal),
		Reason:       strings.TrimSpace(reason),
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.RestrictedAddress{}, ErrConflict
		}
		return dom.RestrictedAddress{}, err
	}
	s.audit.Record(ctx, event("restricted_address", a.ID, dom.ActionCreate, actor))
	return a, nil
}

func (s *RestrictedAddressService) List(ctx context.Context, limit, offset int) ([]dom.RestrictedAddress, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *RestrictedAddressService) GetByID(ctx context.Context, id int64) (dom.RestrictedAddress, error) {
	a, err := s.repo.GetByID(ctx, id)
	return a, mapNoRows(err)
}

func (s *RestrictedAddressService) Delete(ctx context.Context, actor, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.audit.Record(ctx, event("restricted_address", id, dom.ActionDelete, actor))
	return nil
}

// Check reports whether the address is on the do-not-mail list and returns the entry.
func (s *RestrictedAddressService) Check(ctx context.Context, line1, postal string) (*dom.RestrictedAddress, error) {
	if addressmatch.NormalizeLine(line1) == "" {
		return nil, invalid("address_line1", "must contain letters or digits")
	}
	a, err := s.repo.FindByKey(ctx, addressmatch.Key(line1, postal))
	if err != nil {
		if errors.Is(mapNoRows(err), ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
