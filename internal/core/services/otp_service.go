package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/config"
	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/codehash"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// OTP Service - one-time code ledger
// ============================================================

// CooldownStore claims a key for a period. Acquire reports false while the key is held.
type CooldownStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) bool
}

// OTPService issues and consumes one-time codes. Codes are stored as keyed
// digests; the plaintext only travels through the notification channel.
type OTPService struct {
	userRepo      repositories.UserRepository
	otpRepo       repositories.OTPRepository
	hasher        *codehash.Hasher
	notifications *NotificationService
	cooldowns     CooldownStore
	ttl           time.Duration
	cooldown      time.Duration

	now      func() time.Time
	generate func() (string, error)
}

// NewOTPService creates a new OTP service. cooldowns may be nil (no resend cooldown).
func NewOTPService(
	userRepo repositories.UserRepository,
	otpRepo repositories.OTPRepository,
	notifications *NotificationService,
	cooldowns CooldownStore,
	cfg config.OTPConfig,
) *OTPService {
	return &OTPService{
		userRepo:      userRepo,
		otpRepo:       otpRepo,
		hasher:        codehash.NewHasher(cfg.Pepper),
		notifications: notifications,
		cooldowns:     cooldowns,
		ttl:           cfg.TTL,
		cooldown:      cfg.ResendCooldown,
		now:           time.Now,
		generate:      codehash.Generate,
	}
}

// Issue creates a fresh code for userID and mails it to the user
func (s *OTPService) Issue(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	record := &models.OneTimeCode{
		UserID:     user.ID,
		CodeDigest: s.hasher.Digest(user.ID, code),
		CreatedAt:  s.now(),
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	s.notifications.SendOTP(ctx, user, code, s.ttl)

	log.Printf("✅ OTP issued for user %s", user.ID)
	return nil
}

// Verify consumes the most recent matching code of userID. Only one caller
// can ever succeed for a given code.
func (s *OTPService) Verify(ctx context.Context, userID, code string) (*models.OneTimeCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != codehash.Length {
		return nil, domain.ErrInvalidOTP
	}

	record, err := s.otpRepo.FindLatest(ctx, userID, s.hasher.Digest(userID, code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, fmt.Errorf("find otp: %w", err)
	}

	if record.Used {
		return nil, domain.ErrInvalidOTP
	}

	now := s.now()
	if record.IsExpired(now, s.ttl) {
		return nil, domain.ErrOTPExpired
	}

	consumed, err := s.otpRepo.MarkUsed(ctx, record.ID, now)
	if err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		return nil, domain.ErrInvalidOTP
	}

	record.Used = true
	record.UsedAt = &now
	return record, nil
}

// Resend issues a new code unless one was sent within the cooldown window
func (s *OTPService) Resend(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrInvalidUserID
	}

	exists, err := s.userExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if s.cooldowns != nil && s.cooldown > 0 && !s.cooldowns.Acquire(ctx, "otp:resend:"+userID, s.cooldown) {
		return domain.ErrOTPCooldown
	}

	return s.Issue(ctx, userID)
}

func (s *OTPService) userExists(ctx context.Context, userID string) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}
	return true, nil
}
