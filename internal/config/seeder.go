package config

import (
	"log"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/core/domain"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedLender(); err != nil {
		log.Printf("⚠️ Lender seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedLender creates a LOAN_COMPANY account with no company of its own,
// which registration cannot produce.
func (s *Seeder) seedLender() error {
	if s.cfg.LenderEmail == "" {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", s.cfg.LenderEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Lender already exists
	}

	lender := &models.User{
		Email:    s.cfg.LenderEmail,
		FullName: s.cfg.LenderName,
		Role:     domain.RoleLoanCompany,
	}
	if err := s.db.Create(lender).Error; err != nil {
		return err
	}

	log.Printf("✅ Lender user created: %s", lender.Email)
	return nil
}
