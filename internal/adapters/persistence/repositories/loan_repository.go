package repositories

import (
	"context"
	"time"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *loanRepository) WithTx(tx *gorm.DB) LoanRepository {
	return &loanRepository{db: tx}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByCompany lists a company's loans newest first, optionally filtered by status
func (r *loanRepository) ListByCompany(ctx context.Context, companyID string, status *domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{}).Where("company_id = ?", companyID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// CompareAndSetStatus moves a loan from -> to only if it is still in from.
// It reports false when the loan's status changed in the meantime.
func (r *loanRepository) CompareAndSetStatus(ctx context.Context, id string, from, to domain.LoanStatus, hrApproved bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "hr_approved": hrApproved})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AddStatusChange appends a history row
func (r *loanRepository) AddStatusChange(ctx context.Context, change *models.LoanStatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// History lists a loan's status changes oldest first
func (r *loanRepository) History(ctx context.Context, loanID string) ([]*models.LoanStatusChange, error) {
	var changes []*models.LoanStatusChange
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&changes).Error
	return changes, err
}

// CountByStatus tallies a company's loans
func (r *loanRepository) CountByStatus(ctx context.Context, companyID string) (*StatusCounts, error) {
	var rows []struct {
		Status domain.LoanStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case domain.LoanStatusApproved:
			counts.Approved = row.Count
		case domain.LoanStatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

// ListPendingBefore lists PENDING loans created before cutoff, grouped by company
func (r *loanRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.LoanStatusPending, cutoff).
		Order("company_id, created_at ASC").
		Find(&loans).Error
	return loans, err
}
