package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleEmployee    Role = "EMPLOYEE"
	RoleHR          Role = "HR"
	RoleLoanCompany Role = "LOAN_COMPANY"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleEmployee, RoleHR, RoleLoanCompany:
		return r, nil
	}
	return "", ErrInvalidRole
}

// Principal is the authenticated caller. Handlers build it from the session
// token and pass it explicitly into every service call that needs authorization.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// HasRole reports whether the principal holds one of roles
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// LoanStatus is the state of a loan in its lifecycle
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "PENDING"
	LoanStatusApproved LoanStatus = "APPROVED"
	LoanStatusRejected LoanStatus = "REJECTED"
	LoanStatusFunded   LoanStatus = "FUNDED"
	LoanStatusRepaid   LoanStatus = "REPAID"
)

// loanTransitions is the adjacency table of the loan state machine.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusPending:  {LoanStatusApproved, LoanStatusRejected},
	LoanStatusApproved: {LoanStatusFunded},
	LoanStatusFunded:   {LoanStatusRepaid},
}

// ParseLoanStatus validates any known status (used for list filters)
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch st := LoanStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case LoanStatusPending, LoanStatusApproved, LoanStatusRejected, LoanStatusFunded, LoanStatusRepaid:
		return st, nil
	}
	return "", ErrInvalidLoanStatus
}

// IsDrivable reports whether callers may request a move into s.
// PENDING is only ever assigned on submission.
func (s LoanStatus) IsDrivable() bool {
	switch s {
	case LoanStatusApproved, LoanStatusRejected, LoanStatusFunded, LoanStatusRepaid:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s LoanStatus) IsTerminal() bool {
	return len(loanTransitions[s]) == 0
}

// CanTransition reports whether from -> to is an edge of the state machine
func CanTransition(from, to LoanStatus) bool {
	for _, next := range loanTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
