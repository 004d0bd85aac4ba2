package repo

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// collect scans every row with fn; rows are always closed.
func collect[T any](rows pgx.Rows, fn func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	list := []T{}
	for rows.Next() {
		v, err := fn(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// DB is the shared pool handle every PG repository is built from.
type DB = pgxpool.Pool

// Repos groups the stores the API routes are built from.
type Repos struct {
	Users      UserRepo
	Todos      TodoRepo
	Goals      GoalRepo
	Campaigns  CampaignRepo
	Jobs       JobRepo
	Templates  TemplateRepo
	Vouchers   VoucherRepo
	Events     EventRepo
	Restricted RestrictedAddressRepo
}

func NewPGRepos(db *DB) Repos {
	return Repos{
		Users:      NewPGUserRepo(db),
		Todos:      NewPGTodoRepo(db),
		Goals:      NewPGGoalRepo(db),
		Campaigns:  NewPGCampaignRepo(db),
		Jobs:       NewPGJobRepo(db),
		Templates:  NewPGTemplateRepo(db),
		Vouchers:   NewPGVoucherRepo(db),
		Events:     NewPGEventRepo(db),
		Restricted: NewPGRestrictedAddressRepo(db),
	}
}
