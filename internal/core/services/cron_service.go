package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/config"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ============================================================
// Pending-loan digest cron
// ============================================================

// CronService runs scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	loanRepo      repositories.LoanRepository
	companyRepo   repositories.CompanyRepository
	userRepo      repositories.UserRepository
	notifications *NotificationService
	schedule      string
	pendingAfter  time.Duration

	now func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(
	loanRepo repositories.LoanRepository,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
	cfg config.CronConfig,
) *CronService {
	return &CronService{
		cron:          cron.New(),
		loanRepo:      loanRepo,
		companyRepo:   companyRepo,
		userRepo:      userRepo,
		notifications: notifications,
		schedule:      cfg.PendingDigestSchedule,
		pendingAfter:  cfg.PendingAfter,
		now:           time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		sent, err := s.RunPendingDigest(context.Background())
		if err != nil {
			log.Printf("❌ Pending loan digest failed: %v", err)
			return
		}
		log.Printf("✅ Pending loan digest sent to %d companies", sent)
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("🚀 CronService started [digest: %s]", s.schedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RunPendingDigest mails each company's users the loans still PENDING after
// pendingAfter. It returns how many companies were notified.
func (s *CronService) RunPendingDigest(ctx context.Context) (int, error) {
	loans, err := s.loanRepo.ListPendingBefore(ctx, s.now().Add(-s.pendingAfter))
	if err != nil {
		return 0, fmt.Errorf("list pending loans: %w", err)
	}

	byCompany := make(map[string][]*models.Loan)
	var order []string
	for _, l := range loans {
		if _, ok := byCompany[l.CompanyID]; !ok {
			order = append(order, l.CompanyID)
		}
		byCompany[l.CompanyID] = append(byCompany[l.CompanyID], l)
	}

	sent := 0
	for _, companyID := range order {
		company, err := s.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("⚠️ Digest skipped company %s: %v", companyID, err)
			}
			continue
		}

		users, err := s.userRepo.ListByCompany(ctx, companyID)
		if err != nil {
			log.Printf("⚠️ Digest skipped company %s: %v", companyID, err)
			continue
		}
		if len(users) == 0 {
			continue
		}

		s.notifications.NotifyPendingDigest(ctx, company, byCompany[companyID], users)
		sent++
	}

	return sent, nil
}
