package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/slug"

	"gorm.io/gorm"
)

// RegistrationService creates a user and its company in one transaction
type RegistrationService struct {
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	transactor  repositories.Transactor
	otpService  *OTPService
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	transactor repositories.Transactor,
	otpService *OTPService,
) *RegistrationService {
	return &RegistrationService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		transactor:  transactor,
		otpService:  otpService,
	}
}

// RegisterInput is the user draft plus company draft
type RegisterInput struct {
	Email       string
	FullName    string
	Role        string
	CompanyName string
	Industry    string
	Logo        string
}

// RegistrationResult is the joined user/company projection
type RegistrationResult struct {
	User    *models.UserResponse    `json:"user"`
	Company *models.CompanyResponse `json:"company"`
}

// Register creates the user and company atomically, then mails the first OTP.
// Either both records exist afterwards or neither does.
func (s *RegistrationService) Register(ctx context.Context, input *RegisterInput) (*RegistrationResult, error) {
	email := NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	name := slug.NormalizeName(input.CompanyName)
	companySlug := slug.Make(name)
	industry := strings.TrimSpace(input.Industry)
	logo := strings.TrimSpace(input.Logo)

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, domain.NewError(domain.ErrInvalidInput, "a valid email is required")
	case fullName == "":
		return nil, domain.NewError(domain.ErrInvalidInput, "full name is required")
	case companySlug == "":
		return nil, domain.NewError(domain.ErrInvalidInput, "company name must contain letters or digits")
	case industry == "":
		return nil, domain.NewError(domain.ErrInvalidInput, "industry is required")
	case logo == "":
		return nil, domain.NewError(domain.ErrInvalidInput, "logo is required")
	}

	// 1. Duplicate checks before any mutation
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	exists, err = s.companyRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check company name: %w", err)
	}
	if exists {
		return nil, domain.ErrCompanyNameTaken
	}

	// 2. User and company together
	user := &models.User{
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
	company := &models.Company{
		Name:     name,
		Industry: industry,
		Slug:     companySlug,
		Logo:     logo,
	}

	err = s.transactor.Do(ctx, func(ctx context.Context, repos repositories.Repos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}

		company.CreatorID = user.ID
		if err := repos.Companies.Create(ctx, company); err != nil {
			return err
		}

		if err := repos.Users.SetCompany(ctx, user.ID, &company.ID); err != nil {
			return err
		}
		user.CompanyID = &company.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("register company user: %w", err)
	}

	log.Printf("✅ Registered %s with company %s", user.Email, company.Name)

	// 3. First OTP, outside the transaction
	if err := s.otpService.Issue(ctx, user.ID); err != nil {
		log.Printf("⚠️ OTP issue after registration failed for %s: %v", user.ID, err)
	}

	return &RegistrationResult{
		User:    user.ToResponse(),
		Company: company.ToResponse(),
	}, nil
}
