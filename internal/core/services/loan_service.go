package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"eazicred/internal/adapters/events"
	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanService enforces the loan lifecycle
type LoanService struct {
	loanRepo      repositories.LoanRepository
	companyRepo   repositories.CompanyRepository
	userRepo      repositories.UserRepository
	transactor    repositories.Transactor
	notifications *NotificationService
	publisher     events.Publisher

	now func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
	notifications *NotificationService,
	publisher events.Publisher,
) *LoanService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LoanService{
		loanRepo:      loanRepo,
		companyRepo:   companyRepo,
		userRepo:      userRepo,
		transactor:    transactor,
		notifications: notifications,
		publisher:     publisher,
		now:           time.Now,
	}
}

// SubmitLoanInput is a public loan application
type SubmitLoanInput struct {
	CompanyID             string
	Amount                float64
	Purpose               string
	Tenure                int
	Interest              float64
	BVN                   string
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	AdditionalInformation string
}

// LoanAnalytics summarizes a company's loans
type LoanAnalytics struct {
	TotalLoans         int64   `json:"totalLoans"`
	TotalAccepted      int64   `json:"totalAccepted"`
	TotalRejected      int64   `json:"totalRejected"`
	PercentageAccepted float64 `json:"percentageAccepted"`
}

func (in *SubmitLoanInput) validate() error {
	required := []struct{ name, value string }{
		{"purpose", in.Purpose},
		{"bvn", in.BVN},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"additionalInformation", in.AdditionalInformation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.NewError(domain.ErrInvalidInput, f.name+" is required")
		}
	}
	switch {
	case in.Amount <= 0:
		return domain.NewError(domain.ErrInvalidInput, "amount must be greater than 0")
	case in.Tenure <= 0:
		return domain.NewError(domain.ErrInvalidInput, "tenure must be greater than 0")
	case in.Interest < 0:
		return domain.NewError(domain.ErrInvalidInput, "interest cannot be negative")
	}
	return nil
}

// SubmitApplication stores a new PENDING loan and tells the company's users
func (s *LoanService) SubmitApplication(ctx context.Context, input *SubmitLoanInput) (*models.Loan, error) {
	if _, err := uuid.Parse(input.CompanyID); err != nil {
		return nil, domain.ErrInvalidCompanyID
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	company, err := s.getCompany(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		CompanyID:             company.ID,
		Amount:                input.Amount,
		Purpose:               strings.TrimSpace(input.Purpose),
		Tenure:                input.Tenure,
		Interest:              input.Interest,
		BVN:                   strings.TrimSpace(input.BVN),
		FirstName:             strings.TrimSpace(input.FirstName),
		LastName:              strings.TrimSpace(input.LastName),
		Email:                 NormalizeEmail(input.Email),
		Phone:                 strings.TrimSpace(input.Phone),
		AdditionalInformation: strings.TrimSpace(input.AdditionalInformation),
		Status:                domain.LoanStatusPending,
		HRApproved:            false,
		TotalAmountPaid:       0,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	log.Printf("✅ Loan submitted: %s for company %s", loan.ID, company.ID)

	users, err := s.userRepo.ListByCompany(ctx, company.ID)
	if err != nil {
		log.Printf("⚠️ Could not list users of company %s for loan notice: %v", company.ID, err)
	} else {
		s.notifications.NotifyLoanSubmitted(ctx, company, loan, users)
	}

	s.publish(ctx, events.LoanSubmitted, events.LoanSubmittedEvent{
		LoanID:    loan.ID,
		CompanyID: loan.CompanyID,
		Amount:    loan.Amount,
		Tenure:    loan.Tenure,
		CreatedAt: loan.CreatedAt,
	})

	return loan, nil
}

// ListByCompany lists a company's loans newest first
func (s *LoanService) ListByCompany(ctx context.Context, p domain.Principal, companyID string, page, limit int, status string) ([]*models.Loan, *pagination.Meta, error) {
	if err := s.authorizeCompany(ctx, p, companyID); err != nil {
		return nil, nil, err
	}

	var filter *domain.LoanStatus
	if strings.TrimSpace(status) != "" {
		st, err := domain.ParseLoanStatus(status)
		if err != nil {
			return nil, nil, err
		}
		filter = &st
	}

	params := pagination.New(page, limit)
	loans, total, err := s.loanRepo.ListByCompany(ctx, companyID, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list loans: %w", err)
	}

	return loans, pagination.GetMeta(params, total), nil
}

// Analytics counts a company's loans by outcome
func (s *LoanService) Analytics(ctx context.Context, p domain.Principal, companyID string) (*LoanAnalytics, error) {
	if err := s.authorizeCompany(ctx, p, companyID); err != nil {
		return nil, err
	}

	counts, err := s.loanRepo.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("count loans: %w", err)
	}

	return &LoanAnalytics{
		TotalLoans:         counts.Total,
		TotalAccepted:      counts.Approved,
		TotalRejected:      counts.Rejected,
		PercentageAccepted: acceptanceRate(counts.Approved, counts.Total),
	}, nil
}

// acceptanceRate is accepted/total as a percentage rounded to 2 decimals
func acceptanceRate(accepted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(accepted)/float64(total)*100*100) / 100
}

// GetByID gets a loan the principal may see
func (s *LoanService) GetByID(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	return s.loadAuthorized(ctx, p, loanID)
}

// History lists a loan's accepted transitions oldest first
func (s *LoanService) History(ctx context.Context, p domain.Principal, loanID string) ([]*models.LoanStatusChange, error) {
	loan, err := s.loadAuthorized(ctx, p, loanID)
	if err != nil {
		return nil, err
	}
	changes, err := s.loanRepo.History(ctx, loan.ID)
	if err != nil {
		return nil, fmt.Errorf("loan history: %w", err)
	}
	return changes, nil
}

// TransitionStatus moves a loan to newStatus if the state machine allows it
func (s *LoanService) TransitionStatus(ctx context.Context, p domain.Principal, loanID, newStatus string) (*models.Loan, error) {
	if !p.HasRole(domain.RoleHR, domain.RoleLoanCompany) {
		return nil, domain.ErrRoleNotAllowed
	}

	to, err := domain.ParseLoanStatus(newStatus)
	if err != nil || !to.IsDrivable() {
		return nil, domain.ErrInvalidLoanStatus
	}

	loan, err := s.loadAuthorized(ctx, p, loanID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, p, loan, to)
}

// Approve moves a PENDING loan to APPROVED
func (s *LoanService) Approve(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	return s.TransitionStatus(ctx, p, loanID, string(domain.LoanStatusApproved))
}

// Reject moves a PENDING loan to REJECTED
func (s *LoanService) Reject(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	return s.TransitionStatus(ctx, p, loanID, string(domain.LoanStatusRejected))
}

// Fund moves an APPROVED loan to FUNDED
func (s *LoanService) Fund(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	return s.TransitionStatus(ctx, p, loanID, string(domain.LoanStatusFunded))
}

// Repay moves a FUNDED loan to REPAID
func (s *LoanService) Repay(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	return s.TransitionStatus(ctx, p, loanID, string(domain.LoanStatusRepaid))
}

// transition applies one edge of the state machine. The status write is
// conditional on the status we read, so concurrent transitions cannot both win.
func (s *LoanService) transition(ctx context.Context, p domain.Principal, loan *models.Loan, to domain.LoanStatus) (*models.Loan, error) {
	from := loan.Status
	if !domain.CanTransition(from, to) {
		return nil, domain.ErrLoanTransition
	}
	if to == domain.LoanStatusFunded && !loan.HRApproved {
		return nil, domain.ErrLoanNotHRApproved
	}
	hrApproved := loan.HRApproved || to == domain.LoanStatusApproved

	change := &models.LoanStatusChange{
		LoanID:      loan.ID,
		FromStatus:  from,
		ToStatus:    to,
		PerformedBy: p.UserID,
		CreatedAt:   s.now(),
	}

	err := s.transactor.Do(ctx, func(ctx context.Context, repos repositories.Repos) error {
		ok, err := repos.Loans.CompareAndSetStatus(ctx, loan.ID, from, to, hrApproved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLoanChangedMeanwhile
		}
		return repos.Loans.AddStatusChange(ctx, change)
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanChangedMeanwhile) {
			return nil, err
		}
		return nil, fmt.Errorf("transition loan: %w", err)
	}

	loan.Status = to
	loan.HRApproved = hrApproved
	log.Printf("✅ Loan %s: %s -> %s by %s", loan.ID, from, to, p.UserID)

	switch to {
	case domain.LoanStatusApproved:
		s.notifications.NotifyLoanApproved(ctx, loan)
	case domain.LoanStatusRejected:
		s.notifications.NotifyLoanRejected(ctx, loan)
	}

	s.publish(ctx, events.LoanStatusChanged, events.LoanStatusChangedEvent{
		LoanID:      loan.ID,
		CompanyID:   loan.CompanyID,
		From:        string(from),
		To:          string(to),
		PerformedBy: p.UserID,
		ChangedAt:   change.CreatedAt,
	})

	return loan, nil
}

// authorizeCompany checks the company exists and the principal may manage its loans.
// HR is limited to its own company; LOAN_COMPANY sees every company.
func (s *LoanService) authorizeCompany(ctx context.Context, p domain.Principal, companyID string) error {
	if !p.HasRole(domain.RoleHR, domain.RoleLoanCompany) {
		return domain.ErrRoleNotAllowed
	}
	if _, err := uuid.Parse(companyID); err != nil {
		return domain.ErrInvalidCompanyID
	}
	if _, err := s.getCompany(ctx, companyID); err != nil {
		return err
	}
	return s.checkCompanyScope(ctx, p, companyID)
}

func (s *LoanService) checkCompanyScope(ctx context.Context, p domain.Principal, companyID string) error {
	if p.Role != domain.RoleHR {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOtherCompany
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.CompanyID == nil || *user.CompanyID != companyID {
		return domain.ErrOtherCompany
	}
	return nil
}

func (s *LoanService) loadAuthorized(ctx context.Context, p domain.Principal, loanID string) (*models.Loan, error) {
	if !p.HasRole(domain.RoleHR, domain.RoleLoanCompany) {
		return nil, domain.ErrRoleNotAllowed
	}
	if _, err := uuid.Parse(loanID); err != nil {
		return nil, domain.ErrInvalidLoanID
	}
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	if err := s.checkCompanyScope(ctx, p, loan.CompanyID); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) getCompany(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

func (s *LoanService) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		log.Printf("⚠️ Publish %s failed: %v", subject, err)
	}
}
