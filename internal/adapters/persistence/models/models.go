package models

import (
	"time"

	"eazicred/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Credential Store: users & companies
// ============================================================

// User represents users table
type User struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	FullName  string         `gorm:"size:150;not null" json:"fullname"`
	Role      domain.Role    `gorm:"size:20;not null;default:'HR'" json:"role"`
	CompanyID *string        `gorm:"type:char(36);index" json:"company_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse is the non-sensitive user summary
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CompanyID *string     `json:"companyId"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}

// Company represents companies table
type Company struct {
	ID        string            `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string            `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Industry  string            `gorm:"size:100;not null" json:"industry"`
	Slug      string            `gorm:"uniqueIndex;size:150;not null" json:"slug"`
	Logo      string            `gorm:"size:500;not null" json:"logo"`
	CreatorID string            `gorm:"type:char(36);not null;index" json:"creator_id"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
	Employees []CompanyEmployee `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CompanyResponse DTO
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Slug        string    `json:"slug"`
	Logo        string    `json:"logo"`
	CreatorID   string    `json:"creatorId"`
	EmployeeIDs []string  `json:"employees"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Company) ToResponse() *CompanyResponse {
	resp := &CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Industry:    c.Industry,
		Slug:        c.Slug,
		Logo:        c.Logo,
		CreatorID:   c.CreatorID,
		EmployeeIDs: make([]string, 0, len(c.Employees)),
		CreatedAt:   c.CreatedAt,
	}
	for _, e := range c.Employees {
		resp.EmployeeIDs = append(resp.EmployeeIDs, e.UserID)
	}
	return resp
}

// CompanyEmployee is the company's employee set (order irrelevant)
type CompanyEmployee struct {
	CompanyID string    `gorm:"type:char(36);primaryKey" json:"company_id"`
	UserID    string    `gorm:"type:char(36);primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CompanyEmployee) TableName() string {
	return "company_employees"
}

// ============================================================
// OTP Ledger
// ============================================================

// OneTimeCode is an append-only ledger row. Only the digest of the code is
// stored; Used flips false -> true exactly once.
type OneTimeCode struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string     `gorm:"type:char(36);not null;index:idx_otp_user_digest" json:"user_id"`
	CodeDigest string     `gorm:"size:64;not null;index:idx_otp_user_digest" json:"-"`
	Used       bool       `gorm:"not null;default:false" json:"used"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
	UsedAt     *time.Time `json:"used_at"`
}

func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

func (o *OneTimeCode) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the code is older than ttl at now
func (o *OneTimeCode) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.CreatedAt) > ttl
}

// ============================================================
// Loans
// ============================================================

// Loan represents loans table
type Loan struct {
	ID                    string            `gorm:"type:char(36);primaryKey" json:"id"`
	CompanyID             string            `gorm:"type:char(36);not null;index" json:"companyId"`
	Amount                float64           `gorm:"type:decimal(15,2);not null" json:"amount"`
	Purpose               string            `gorm:"type:text;not null" json:"purpose"`
	Tenure                int               `gorm:"not null" json:"tenure"`
	Interest              float64           `gorm:"type:decimal(5,2);not null" json:"interest"`
	BVN                   string            `gorm:"column:bvn;size:20;not null" json:"bvn"`
	FirstName             string            `gorm:"size:100;not null" json:"firstName"`
	LastName              string            `gorm:"size:100;not null" json:"lastName"`
	Email                 string            `gorm:"size:100;not null" json:"email"`
	Phone                 string            `gorm:"size:30;not null" json:"phone"`
	AdditionalInformation string            `gorm:"type:text;not null" json:"additionalInformation"`
	Status                domain.LoanStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	HRApproved            bool              `gorm:"column:hr_approved;not null;default:false" json:"hrApproved"`
	TotalAmountPaid       float64           `gorm:"type:decimal(15,2);not null;default:0" json:"totalAmountPaid"`
	CreatedAt             time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LoanStatusChange records one accepted transition (history)
type LoanStatusChange struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	LoanID      string            `gorm:"type:char(36);not null;index" json:"loanId"`
	FromStatus  domain.LoanStatus `gorm:"size:20;not null" json:"fromStatus"`
	ToStatus    domain.LoanStatus `gorm:"size:20;not null" json:"toStatus"`
	PerformedBy string            `gorm:"type:char(36);not null" json:"performedBy"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"createdAt"`
}

func (LoanStatusChange) TableName() string {
	return "loan_status_changes"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Company{},
		&CompanyEmployee{},
		&OneTimeCode{},
		&Loan{},
		&LoanStatusChange{},
	)
}
