package repositories

import (
	"context"
	"time"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/core/domain"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetCompany(ctx context.Context, userID string, companyID *string) error
	ListByCompany(ctx context.Context, companyID string) ([]*models.User, error)
}

// CompanyRepository defines company repository interface
type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id string) error
	AddEmployee(ctx context.Context, companyID, userID string) error
	RemoveEmployee(ctx context.Context, companyID, userID string) (bool, error)
}

// OTPRepository defines the one-time code ledger
type OTPRepository interface {
	WithTx(tx *gorm.DB) OTPRepository
	Create(ctx context.Context, code *models.OneTimeCode) error
	FindLatest(ctx context.Context, userID, digest string) (*models.OneTimeCode, error)
	MarkUsed(ctx context.Context, id string, at time.Time) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// StatusCounts is the per-status tally of a company's loans
type StatusCounts struct {
	Total    int64
	Approved int64
	Rejected int64
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	WithTx(tx *gorm.DB) LoanRepository
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	ListByCompany(ctx context.Context, companyID string, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to domain.LoanStatus, hrApproved bool) (bool, error)
	AddStatusChange(ctx context.Context, change *models.LoanStatusChange) error
	History(ctx context.Context, loanID string) ([]*models.LoanStatusChange, error)
	CountByStatus(ctx context.Context, companyID string) (*StatusCounts, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.Loan, error)
}

// Repos groups repositories bound to the same handle
type Repos struct {
	Users     UserRepository
	Companies CompanyRepository
	OTPs      OTPRepository
	Loans     LoanRepository
}

// Transactor runs a unit of work in one database transaction
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
