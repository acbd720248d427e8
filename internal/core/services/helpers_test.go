package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"eazicred/internal/adapters/events"
	"eazicred/internal/adapters/notify"
	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/adapters/persistence/testdb"
	"eazicred/internal/config"
	"eazicred/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// captureNotifier records every message it is asked to send
type captureNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (c *captureNotifier) Send(ctx context.Context, msg notify.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return c.err
}

func (c *captureNotifier) messages() []notify.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Message(nil), c.msgs...)
}

func (c *captureNotifier) withSubject(subject string) []notify.Message {
	var out []notify.Message
	for _, m := range c.messages() {
		if m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}

var codePattern = regexp.MustCompile(`verification code is: ([A-Z0-9]{6})`)

// lastCode returns the code from the most recent OTP email to email
func (c *captureNotifier) lastCode(t *testing.T, email string) string {
	t.Helper()
	msgs := c.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if len(msgs[i].Recipients) == 1 && msgs[i].Recipients[0] == email {
			if m := codePattern.FindStringSubmatch(msgs[i].Body); m != nil {
				return m[1]
			}
		}
	}
	t.Fatalf("no OTP mailed to %s", email)
	return ""
}

type fixture struct {
	db       *gorm.DB
	repos    repositories.Repos
	notifier *captureNotifier

	otp          *OTPService
	auth         *AuthService
	registration *RegistrationService
	companies    *CompanyService
	loans        *LoanService
}

var testOTPConfig = config.OTPConfig{TTL: 15 * time.Minute, ResendCooldown: time.Minute, Pepper: "test-pepper"}
var testJWTConfig = config.JWTConfig{Secret: "test-secret", ExpiresIn: 24 * time.Hour}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	repos := repositories.NewRepos(db)
	tx := repositories.NewTransactor(db)
	notifier := &captureNotifier{}
	notifications := NewNotificationService(notifier, time.Second)

	otp := NewOTPService(repos.Users, repos.OTPs, notifications, nil, testOTPConfig)
	return &fixture{
		db:           db,
		repos:        repos,
		notifier:     notifier,
		otp:          otp,
		auth:         NewAuthService(repos.Users, repos.Companies, otp, testJWTConfig),
		registration: NewRegistrationService(repos.Users, repos.Companies, tx, otp),
		companies:    NewCompanyService(repos.Companies, repos.Users, tx),
		loans:        NewLoanService(repos.Loans, repos.Companies, repos.Users, tx, notifications, events.NoopPublisher{}),
	}
}

// registerHR registers an HR user with a company and returns both
func (f *fixture) registerHR(t *testing.T, email, companyName string) *RegistrationResult {
	t.Helper()
	res, err := f.registration.Register(context.Background(), &RegisterInput{
		Email:       email,
		FullName:    "HR " + companyName,
		Role:        string(domain.RoleHR),
		CompanyName: companyName,
		Industry:    "tech",
		Logo:        "https://cdn.example.com/logo.png",
	})
	require.NoError(t, err)
	return res
}

// createUser inserts a user directly
func (f *fixture) createUser(t *testing.T, email string, role domain.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: "User " + email, Role: role}
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return u
}

func hrPrincipal(r *RegistrationResult) domain.Principal {
	return domain.Principal{UserID: r.User.ID, Email: r.User.Email, Role: domain.RoleHR}
}

func lenderPrincipal(u *models.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: domain.RoleLoanCompany}
}

func loanInput(companyID string) *SubmitLoanInput {
	return &SubmitLoanInput{
		CompanyID:             companyID,
		Amount:                5000,
		Purpose:               "school fees",
		Tenure:                12,
		Interest:              5,
		BVN:                   "22212345678",
		FirstName:             "Ada",
		LastName:              "Obi",
		Email:                 "ada@example.com",
		Phone:                 "+2348000000000",
		AdditionalInformation: "none",
	}
}

// insertLoan stores a loan in the given status without going through the state machine
func (f *fixture) insertLoan(t *testing.T, companyID string, status domain.LoanStatus, createdAt time.Time) *models.Loan {
	t.Helper()
	l := &models.Loan{
		CompanyID: companyID, Amount: 1000, Purpose: "rent", Tenure: 6, Interest: 3,
		BVN: "1", FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", Phone: "1",
		AdditionalInformation: "-", Status: status, HRApproved: status == domain.LoanStatusApproved,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.repos.Loans.Create(context.Background(), l))
	return l
}
