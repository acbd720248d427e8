package repositories

import (
	"context"

	"eazicred/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepository{db: tx}
}

// Create creates a new company
func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(company).Error
}

// GetByID gets a company by ID with its employee set
func (r *companyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Preload("Employees").Where("id = ?", id).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetBySlug gets a company by slug
func (r *companyRepository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Preload("Employees").Where("slug = ?", slug).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// ExistsByName checks if a company name is taken (soft-deleted companies included)
func (r *companyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Company{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// Update saves mutable company fields
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Model(company).
		Select("name", "industry", "slug", "logo").
		Updates(company).Error
}

// Delete soft deletes a company
func (r *companyRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Company{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddEmployee adds a user to the employee set; adding twice is a no-op
func (r *companyRepository) AddEmployee(ctx context.Context, companyID, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CompanyEmployee{CompanyID: companyID, UserID: userID}).Error
}

// RemoveEmployee removes a user from the employee set, reporting whether it was present
func (r *companyRepository) RemoveEmployee(ctx context.Context, companyID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.CompanyEmployee{})
	return res.RowsAffected > 0, res.Error
}
