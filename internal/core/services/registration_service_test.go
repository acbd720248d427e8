package services

import (
	"context"
	"testing"

	"eazicred/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() *RegisterInput {
	return &RegisterInput{
		Email:       "  HR@Acme.com ",
		FullName:    "Jane Doe",
		Role:        "hr",
		CompanyName: "Tech Corp Ltd.",
		Industry:    "fintech",
		Logo:        "https://cdn.example.com/acme.png",
	}
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.registration.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "hr@acme.com", res.User.Email)
	assert.Equal(t, domain.RoleHR, res.User.Role)
	require.NotNil(t, res.User.CompanyID)
	assert.Equal(t, res.Company.ID, *res.User.CompanyID)
	assert.Equal(t, "tech corp ltd.", res.Company.Name)
	assert.Equal(t, "techcorpltd", res.Company.Slug)
	assert.Equal(t, res.User.ID, res.Company.CreatorID)

	stored, err := f.repos.Companies.GetBySlug(ctx, "techcorpltd")
	require.NoError(t, err)
	assert.Equal(t, res.Company.ID, stored.ID)

	// first OTP goes out after commit
	assert.NotEmpty(t, f.notifier.lastCode(t, "hr@acme.com"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerHR(t, "hr@acme.com", "Acme")

	in := validRegistration()
	_, err := f.registration.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	exists, err := f.repos.Companies.ExistsByName(ctx, "tech corp ltd.")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegister_DuplicateCompanyName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerHR(t, "first@acme.com", "Tech Corp Ltd.")

	in := validRegistration()
	in.CompanyName = "  TECH CORP LTD. "
	_, err := f.registration.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrCompanyNameTaken)

	exists, err := f.repos.Users.ExistsByEmail(ctx, "hr@acme.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegister_RollsBackUserWhenCompanyFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerHR(t, "first@acme.com", "Tech Corp")

	// different name, same slug: passes the name check, fails inside the transaction
	in := validRegistration()
	in.CompanyName = "tech-corp"
	_, err := f.registration.Register(ctx, in)
	require.Error(t, err)

	exists, err := f.repos.Users.ExistsByEmail(ctx, "hr@acme.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Len(t, f.notifier.withSubject("Your Eazicred verification code"), 1)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad role", func(in *RegisterInput) { in.Role = "ADMIN" }},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }},
		{"no full name", func(in *RegisterInput) { in.FullName = " " }},
		{"symbol-only company", func(in *RegisterInput) { in.CompanyName = "!!!" }},
		{"no industry", func(in *RegisterInput) { in.Industry = "" }},
		{"no logo", func(in *RegisterInput) { in.Logo = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validRegistration()
			tt.mutate(in)

			_, err := f.registration.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.notifier.messages())
		})
	}
}

func TestRegister_EmployeeRoleAllowed(t *testing.T) {
	f := newFixture(t)
	in := validRegistration()
	in.Role = "EMPLOYEE"

	res, err := f.registration.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, res.User.Role)
}
