package domain

import "errors"

// Error kinds. Every failure surfaced by the core matches exactly one of these with errors.Is.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("duplicate entry")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error is a classified failure with a caller-safe message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError creates a classified error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Auth errors
var (
	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid credentials")
	ErrInvalidOTP         = NewError(ErrUnauthorized, "invalid OTP code")
	ErrOTPExpired         = NewError(ErrUnauthorized, "OTP code has expired")
	ErrTokenExpired       = NewError(ErrUnauthorized, "token expired")
	ErrTokenInvalid       = NewError(ErrUnauthorized, "token invalid")
	ErrOTPCooldown        = NewError(ErrTooManyRequests, "please wait before requesting another OTP")
)

// User and company errors
var (
	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrEmailTaken         = NewError(ErrConflict, "email already exists")
	ErrCompanyNotFound    = NewError(ErrNotFound, "company not found")
	ErrCompanyNameTaken   = NewError(ErrConflict, "company name already exists")
	ErrNotCompanyCreator  = NewError(ErrForbidden, "you can only update your own company")
	ErrRoleNotAllowed     = NewError(ErrForbidden, "you don't have permission to access this resource")
	ErrOtherCompany       = NewError(ErrForbidden, "you can only manage your own company's loans")
	ErrInvalidRole        = NewError(ErrInvalidInput, "invalid role")
	ErrInvalidCompanyID   = NewError(ErrInvalidInput, "invalid company ID")
	ErrInvalidUserID      = NewError(ErrInvalidInput, "invalid user ID")
	ErrEmployeeNotFound   = NewError(ErrNotFound, "employee not found in company")
	ErrUserInOtherCompany = NewError(ErrConflict, "user already belongs to another company")
	ErrDuplicate          = NewError(ErrConflict, "email or company already exists")
)

// Loan errors
var (
	ErrLoanNotFound         = NewError(ErrNotFound, "loan not found")
	ErrInvalidLoanID        = NewError(ErrInvalidInput, "invalid loan ID")
	ErrInvalidLoanStatus    = NewError(ErrInvalidInput, "invalid status value")
	ErrLoanTransition       = NewError(ErrInvalidState, "loan cannot move to the requested status")
	ErrLoanNotHRApproved    = NewError(ErrInvalidState, "loan must be HR approved before funding")
	ErrLoanChangedMeanwhile = NewError(ErrInvalidState, "loan status changed by another request")
)
