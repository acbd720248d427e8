package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to LoanStatus
		want     bool
	}{
		{LoanStatusPending, LoanStatusApproved, true},
		{LoanStatusPending, LoanStatusRejected, true},
		{LoanStatusApproved, LoanStatusFunded, true},
		{LoanStatusFunded, LoanStatusRepaid, true},
		{LoanStatusPending, LoanStatusFunded, false},
		{LoanStatusPending, LoanStatusRepaid, false},
		{LoanStatusApproved, LoanStatusRejected, false},
		{LoanStatusApproved, LoanStatusRepaid, false},
		{LoanStatusRejected, LoanStatusApproved, false},
		{LoanStatusFunded, LoanStatusApproved, false},
		{LoanStatusRepaid, LoanStatusFunded, false},
		{LoanStatusApproved, LoanStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestLoanStatus_TerminalAndDrivable(t *testing.T) {
	assert.True(t, LoanStatusRejected.IsTerminal())
	assert.True(t, LoanStatusRepaid.IsTerminal())
	assert.False(t, LoanStatusPending.IsTerminal())

	assert.False(t, LoanStatusPending.IsDrivable())
	assert.True(t, LoanStatusFunded.IsDrivable())
	assert.False(t, LoanStatus("CLOSED").IsDrivable())
}

func TestParseLoanStatus(t *testing.T) {
	st, err := ParseLoanStatus(" approved ")
	assert.NoError(t, err)
	assert.Equal(t, LoanStatusApproved, st)

	_, err = ParseLoanStatus("CLOSED")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("hr")
	assert.NoError(t, err)
	assert.Equal(t, RoleHR, r)

	_, err = ParseRole("ADMIN")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestError_MatchesKind(t *testing.T) {
	assert.True(t, errors.Is(ErrCompanyNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrOTPExpired, ErrUnauthorized))
	assert.False(t, errors.Is(ErrOTPExpired, ErrNotFound))
	assert.Equal(t, "loan not found", ErrLoanNotFound.Error())
}

func TestPrincipal_HasRole(t *testing.T) {
	p := Principal{UserID: "u1", Role: RoleHR}
	assert.True(t, p.HasRole(RoleHR, RoleLoanCompany))
	assert.False(t, p.HasRole(RoleLoanCompany))
}
