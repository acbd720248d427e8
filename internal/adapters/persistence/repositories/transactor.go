package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormTransactor implements Transactor on a GORM handle
type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// NewRepos builds every repository on db
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:     NewUserRepository(db),
		Companies: NewCompanyRepository(db),
		OTPs:      NewOTPRepository(db),
		Loans:     NewLoanRepository(db),
	}
}

// Do runs fn with repositories bound to one transaction. A nil return commits;
// an error or panic rolls back. The connection is released on every path.
func (t *gormTransactor) Do(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepos(tx))
	})
}
