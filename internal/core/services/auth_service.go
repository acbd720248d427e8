package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/config"
	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/jwt"

	"gorm.io/gorm"
)

// AuthService handles OTP login and session tokens
type AuthService struct {
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	otpService  *OTPService
	cfg         config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	otpService *OTPService,
	cfg config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		otpService:  otpService,
		cfg:         cfg,
	}
}

// LoginResult is returned once a code has been verified
type LoginResult struct {
	AccessToken string               `json:"access_token"`
	User        *models.UserResponse `json:"user"`
}

// MeResult is the caller's profile
type MeResult struct {
	User    *models.UserResponse    `json:"user"`
	Company *models.CompanyResponse `json:"company,omitempty"`
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login starts a login by mailing a code to the user. No token is issued yet.
func (s *AuthService) Login(ctx context.Context, email string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.otpService.Issue(ctx, user.ID); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// CompleteLogin verifies the user's code and mints a session token
func (s *AuthService) CompleteLogin(ctx context.Context, userID, code string) (*LoginResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if _, err := s.otpService.Verify(ctx, user.ID, code); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Email, string(user.Role), s.cfg.Secret, s.cfg.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	log.Printf("✅ User logged in: %s", user.Email)
	return &LoginResult{
		AccessToken: token,
		User:        user.ToResponse(),
	}, nil
}

// ResendOTP mails a new code, subject to the resend cooldown
func (s *AuthService) ResendOTP(ctx context.Context, userID string) error {
	return s.otpService.Resend(ctx, userID)
}

// Me returns the caller's profile and company
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*MeResult, error) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	result := &MeResult{User: user.ToResponse()}
	if user.CompanyID != nil {
		company, err := s.companyRepo.GetByID(ctx, *user.CompanyID)
		switch {
		case err == nil:
			result.Company = company.ToResponse()
		case errors.Is(err, gorm.ErrRecordNotFound):
			// company was deleted; the profile is still valid
		default:
			return nil, fmt.Errorf("get company: %w", err)
		}
	}
	return result, nil
}

// Authenticate turns a session token into a Principal
func (s *AuthService) Authenticate(token string) (domain.Principal, error) {
	claims, err := jwt.ValidateAccessToken(token, s.cfg.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.ErrTokenExpired
		}
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	return domain.Principal{
		UserID: claims.UserID(),
		Email:  claims.Email,
		Role:   role,
	}, nil
}
