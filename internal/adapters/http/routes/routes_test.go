package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"eazicred/internal/adapters/events"
	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/adapters/http/routes"
	"eazicred/internal/adapters/notify"
	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/testdb"
	"eazicred/internal/config"
	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type inbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (i *inbox) Send(ctx context.Context, msg notify.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, msg)
	return nil
}

var codeRe = regexp.MustCompile(`verification code is: ([A-Z0-9]{6})`)

func (i *inbox) code(t *testing.T) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	for j := len(i.msgs) - 1; j >= 0; j-- {
		if m := codeRe.FindStringSubmatch(i.msgs[j].Body); m != nil {
			return m[1]
		}
	}
	t.Fatal("no OTP mailed")
	return ""
}

var testConfig = &config.Config{
	AppMode: "dev",
	JWT:     config.JWTConfig{Secret: "route-secret", ExpiresIn: time.Hour},
	OTP:     config.OTPConfig{TTL: 15 * time.Minute, ResendCooldown: time.Minute, Pepper: "p"},
	Mail:    config.MailConfig{Timeout: time.Second},
}

func newApp(t *testing.T) (*fiber.App, *gorm.DB, *inbox) {
	t.Helper()
	db := testdb.New(t)
	mail := &inbox{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	routes.Setup(app, db, testConfig, routes.Infra{
		Publisher: events.NoopPublisher{},
		Notifier:  mail,
	})
	return app, db, mail
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

type registered struct {
	User struct {
		ID        string `json:"id"`
		CompanyID string `json:"companyId"`
	} `json:"user"`
	Company struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	} `json:"company"`
}

func register(t *testing.T, app *fiber.App, email, company string) registered {
	t.Helper()
	resp, env := call(t, app, http.MethodPost, "/api/v1/auth/register-company-user", fiber.Map{
		"user":    fiber.Map{"email": email, "fullname": "Jane", "role": "HR"},
		"company": fiber.Map{"name": company, "industry": "Fintech", "logo": "https://cdn.example.com/l.svg"},
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	var r registered
	decode(t, env.Data, &r)
	return r
}

func login(t *testing.T, app *fiber.App, mail *inbox, userID string) string {
	t.Helper()
	resp, env := call(t, app, http.MethodPost, "/api/v1/auth/validate-otp", fiber.Map{
		"userId": userID, "otp": mail.code(t),
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, env.Data, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func TestAuthFlow(t *testing.T) {
	app, _, mail := newApp(t)
	reg := register(t, app, "hr@acme.com", "Acme")
	assert.Equal(t, reg.Company.ID, reg.User.CompanyID)
	assert.Equal(t, "acme", reg.Company.Slug)

	// duplicate registration
	resp, env := call(t, app, http.MethodPost, "/api/v1/auth/register-company-user", fiber.Map{
		"user":    fiber.Map{"email": "HR@acme.com", "fullname": "Jane", "role": "HR"},
		"company": fiber.Map{"name": "Other", "industry": "x", "logo": "y"},
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)

	// login mails a new code
	resp, env = call(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "hr@acme.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var started struct {
		UserID string `json:"userId"`
	}
	decode(t, env.Data, &started)
	assert.Equal(t, reg.User.ID, started.UserID)

	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "ghost@acme.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code := mail.code(t)
	resp, env = call(t, app, http.MethodPost, "/api/v1/auth/validate-otp", fiber.Map{"userId": reg.User.ID, "otp": code}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "access_token=")

	var session struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, env.Data, &session)

	// a code works once
	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/validate-otp", fiber.Map{"userId": reg.User.ID, "otp": code}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/v1/auth/me", nil, session.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		User    struct{ Email string } `json:"user"`
		Company struct{ ID string }    `json:"company"`
	}
	decode(t, env.Data, &me)
	assert.Equal(t, "hr@acme.com", me.User.Email)
	assert.Equal(t, reg.Company.ID, me.Company.ID)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/v1/auth/resend-otp", fiber.Map{"userId": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoanFlow(t *testing.T) {
	app, db, mail := newApp(t)
	reg := register(t, app, "hr@acme.com", "Acme")
	token := login(t, app, mail, reg.User.ID)

	resp, env := call(t, app, http.MethodPost, "/api/v1/loans/apply", fiber.Map{
		"companyId": reg.Company.ID, "amount": 5000, "purpose": "Home renovation", "tenure": 12,
		"interest": 5, "bvn": "22212345678", "firstName": "Ada", "lastName": "Obi",
		"email": "ada@example.com", "phone": "+2348000000000", "additionalInformation": "none",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var loan struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env.Data, &loan)
	assert.Equal(t, "PENDING", loan.Status)

	resp, _ = call(t, app, http.MethodPost, "/api/v1/loans/apply", fiber.Map{"companyId": reg.Company.ID, "amount": 0}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = call(t, app, http.MethodGet, "/api/v1/loans/company/"+reg.Company.ID+"?page=1&limit=5", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var page struct {
		Data []struct{ ID string } `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"meta"`
	}
	decode(t, env.Data, &page)
	assert.Equal(t, int64(1), page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Pages)
	require.Len(t, page.Data, 1)

	resp, env = call(t, app, http.MethodPatch, "/api/v1/loans/"+loan.ID+"/status", fiber.Map{"status": "FUNDED"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, env.Error)

	resp, env = call(t, app, http.MethodPatch, "/api/v1/loans/"+loan.ID+"/status", fiber.Map{"status": "APPROVED"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	resp, env = call(t, app, http.MethodGet, "/api/v1/loans/company/"+reg.Company.ID+"/analytics", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalLoans         int64   `json:"totalLoans"`
		TotalAccepted      int64   `json:"totalAccepted"`
		PercentageAccepted float64 `json:"percentageAccepted"`
	}
	decode(t, env.Data, &stats)
	assert.Equal(t, int64(1), stats.TotalLoans)
	assert.Equal(t, 100.0, stats.PercentageAccepted)

	resp, env = call(t, app, http.MethodGet, "/api/v1/loans/"+loan.ID+"/history", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []struct {
		FromStatus string `json:"fromStatus"`
		ToStatus   string `json:"toStatus"`
	}
	decode(t, env.Data, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "APPROVED", history[0].ToStatus)

	// unauthenticated and wrong-role callers
	resp, _ = call(t, app, http.MethodGet, "/api/v1/loans/company/"+reg.Company.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	employee := &models.User{Email: "worker@acme.com", FullName: "Worker", Role: domain.RoleEmployee}
	require.NoError(t, db.Create(employee).Error)
	employeeToken, err := jwt.GenerateAccessToken(employee.ID, employee.Email, string(employee.Role), testConfig.JWT.Secret, time.Hour)
	require.NoError(t, err)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/loans/company/"+reg.Company.ID, nil, employeeToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompanyRoutes(t *testing.T) {
	app, db, mail := newApp(t)
	reg := register(t, app, "hr@acme.com", "Acme")
	token := login(t, app, mail, reg.User.ID)

	resp, env := call(t, app, http.MethodGet, "/api/v1/companies/slug/acme", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "private")

	resp, env = call(t, app, http.MethodPatch, "/api/v1/companies/"+reg.Company.ID, fiber.Map{"name": "Acme Group"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var company struct {
		Slug string `json:"slug"`
	}
	decode(t, env.Data, &company)
	assert.Equal(t, "acmegroup", company.Slug)

	resp, _ = call(t, app, http.MethodDelete, "/api/v1/companies/"+reg.Company.ID, nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	lender := &models.User{Email: "lender@bank.com", FullName: "Lender", Role: domain.RoleLoanCompany}
	require.NoError(t, db.Create(lender).Error)
	lenderToken, err := jwt.GenerateAccessToken(lender.ID, lender.Email, string(lender.Role), testConfig.JWT.Secret, time.Hour)
	require.NoError(t, err)

	resp, _ = call(t, app, http.MethodDelete, "/api/v1/companies/"+reg.Company.ID, nil, lenderToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/companies/"+reg.Company.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
