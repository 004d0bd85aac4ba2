package repo

import (
	"context"

	dom "hubplus/internal/domain"
)

type RestrictedAddressRepo interface {
	Create(ctx context.Context, a dom.RestrictedAddress) (dom.RestrictedAddress, error)
	GetByID(ctx context.Context, id int64) (dom.RestrictedAddress, error)
	List(ctx context.Context, limit, offset int) ([]dom.RestrictedAddress, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	FindByKey(ctx context.Context, key string) (dom.RestrictedAddress, error)
	// MatchingKeys returns the subset of keys that are restricted.
	MatchingKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

type PGRestrictedAddressRepo struct {
	db *DB
}

func NewPGRestrictedAddressRepo(db *DB) *PGRestrictedAddressRepo {
	return &PGRestrictedAddressRepo{db: db}
}

const restrictedColumns = `id, address_line1, postal_code, match_key, reason, created_at, deleted_at`

func scanRestricted(row scanner) (dom.RestrictedAddress, error) {
	var a dom.RestrictedAddress
	err := row.Scan(&a.ID, &a.AddressLine1, &a.PostalCode, &a.MatchKey, &a.Reason, &a.CreatedAt, &a.DeletedAt)
	return a, err
}

func (r *PGRestrictedAddressRepo) Create(ctx context.Context, a dom.RestrictedAddress) (dom.RestrictedAddress, error) {
	return scanRestricted(r.db.QueryRow(ctx, `
		INSERT INTO restricted_addresses (address_line1, postal_code, match_key, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING `+restrictedColumns, a.AddressLine1, a.PostalCode, a.MatchKey, a.Reason))
}

func (r *PGRestrictedAddressRepo) GetByID(ctx context.Context, id int64) (dom.RestrictedAddress, error) {
	return scanRestricted(r.db.QueryRow(ctx,
		`SELECT `+restrictedColumns+` FROM restricted_addresses WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *PGRestrictedAddressRepo) List(ctx context.Context, limit, offset int) ([]dom.RestrictedAddress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+restrictedColumns+` FROM restricted_addresses
		WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRestricted)
}

func (r *PGRestrictedAddressRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE restricted_addresses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRestrictedAddressRepo) FindByKey(ctx context.Context, key string) (dom.RestrictedAddress, error) {
	return scanRestricted(r.db.QueryRow(ctx,
		`SELECT `+restrictedColumns+` FROM restricted_addresses WHERE match_key = $1 AND deleted_at IS NULL`, key))
}

func (r *PGRestrictedAddressRepo) MatchingKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT match_key FROM restricted_addresses WHERE match_key = ANY($1) AND deleted_at IS NULL`, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out[k] = true
	}
	return out, rows.Err()
}
