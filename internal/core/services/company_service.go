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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyService handles company profile and employee set
type CompanyService struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
	transactor  repositories.Transactor
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		transactor:  transactor,
	}
}

// UpdateCompanyInput is a partial company update; nil fields are left alone
type UpdateCompanyInput struct {
	Name     *string
	Industry *string
	Logo     *string
}

// GetByID gets a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id string) (*models.CompanyResponse, error) {
	company, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return company.ToResponse(), nil
}

// GetBySlug gets a company by slug
func (s *CompanyService) GetBySlug(ctx context.Context, companySlug string) (*models.CompanyResponse, error) {
	company, err := s.companyRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(companySlug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company.ToResponse(), nil
}

// Update changes a company's profile. Only its HR creator may do this.
func (s *CompanyService) Update(ctx context.Context, p domain.Principal, id string, input *UpdateCompanyInput) (*models.CompanyResponse, error) {
	company, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := slug.NormalizeName(*input.Name)
		if slug.Make(name) == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "company name must contain letters or digits")
		}
		if name != company.Name {
			taken, err := s.companyRepo.ExistsByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("check company name: %w", err)
			}
			if taken {
				return nil, domain.ErrCompanyNameTaken
			}
			company.Name = name
			company.Slug = slug.Make(name)
		}
	}
	if input.Industry != nil {
		industry := strings.TrimSpace(*input.Industry)
		if industry == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "industry cannot be empty")
		}
		company.Industry = industry
	}
	if input.Logo != nil {
		logo := strings.TrimSpace(*input.Logo)
		if logo == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "logo cannot be empty")
		}
		company.Logo = logo
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrCompanyNameTaken
		}
		return nil, fmt.Errorf("update company: %w", err)
	}

	log.Printf("✅ Company updated: %s", company.ID)
	return company.ToResponse(), nil
}

// Delete soft deletes a company. LOAN_COMPANY only.
func (s *CompanyService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.HasRole(domain.RoleLoanCompany) {
		return domain.ErrRoleNotAllowed
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidCompanyID
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCompanyNotFound
		}
		return fmt.Errorf("delete company: %w", err)
	}

	log.Printf("✅ Company deleted: %s by %s", id, p.UserID)
	return nil
}

// AddEmployee puts userID in the company's employee set and points the user at the company
func (s *CompanyService) AddEmployee(ctx context.Context, p domain.Principal, companyID, userID string) (*models.CompanyResponse, error) {
	company, err := s.loadOwned(ctx, p, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != nil && *user.CompanyID != company.ID {
		return nil, domain.ErrUserInOtherCompany
	}

	err = s.transactor.Do(ctx, func(ctx context.Context, repos repositories.Repos) error {
		if err := repos.Companies.AddEmployee(ctx, company.ID, user.ID); err != nil {
			return err
		}
		return repos.Users.SetCompany(ctx, user.ID, &company.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("add employee: %w", err)
	}

	return s.GetByID(ctx, company.ID)
}

// RemoveEmployee takes userID out of the employee set and clears the user's company
func (s *CompanyService) RemoveEmployee(ctx context.Context, p domain.Principal, companyID, userID string) (*models.CompanyResponse, error) {
	company, err := s.loadOwned(ctx, p, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.transactor.Do(ctx, func(ctx context.Context, repos repositories.Repos) error {
		removed, err := repos.Companies.RemoveEmployee(ctx, company.ID, user.ID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.ErrEmployeeNotFound
		}
		if user.CompanyID != nil && *user.CompanyID == company.ID {
			return repos.Users.SetCompany(ctx, user.ID, nil)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("remove employee: %w", err)
	}

	return s.GetByID(ctx, company.ID)
}

func (s *CompanyService) load(ctx context.Context, id string) (*models.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidCompanyID
	}
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// loadOwned loads a company the HR principal created
func (s *CompanyService) loadOwned(ctx context.Context, p domain.Principal, id string) (*models.Company, error) {
	if !p.HasRole(domain.RoleHR) {
		return nil, domain.ErrRoleNotAllowed
	}
	company, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.CreatorID != p.UserID {
		return nil, domain.ErrNotCompanyCreator
	}
	return company, nil
}

func (s *CompanyService) loadUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidUserID
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
