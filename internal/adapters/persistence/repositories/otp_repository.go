package repositories

import (
	"context"
	"time"

	"eazicred/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// otpRepository implements OTPRepository interface
type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new one-time code repository
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *otpRepository) WithTx(tx *gorm.DB) OTPRepository {
	return &otpRepository{db: tx}
}

// Create appends a code to the ledger
func (r *otpRepository) Create(ctx context.Context, code *models.OneTimeCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// FindLatest returns the most recently created code of userID matching digest
func (r *otpRepository) FindLatest(ctx context.Context, userID, digest string) (*models.OneTimeCode, error) {
	var code models.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code_digest = ?", userID, digest).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// MarkUsed flips used from false to true. It reports false when another
// caller already consumed the code.
func (r *otpRepository) MarkUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.OneTimeCode{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]interface{}{"used": true, "used_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountByUser counts codes issued to a user
func (r *otpRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OneTimeCode{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
