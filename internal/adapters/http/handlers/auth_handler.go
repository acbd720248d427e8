package handlers

import (
	"time"

	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/config"
	"eazicred/internal/core/services"
	"eazicred/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService         *services.AuthService
	registrationService *services.RegistrationService
	cfg                 *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, registrationService *services.RegistrationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		registrationService: registrationService,
		cfg:                 cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email string `json:"email" example:"hr@acme.com"`
}

// ValidateOTPRequest represents OTP validation request body
type ValidateOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp" example:"K7P2QX"`
}

// ResendOTPRequest represents OTP resend request body
type ResendOTPRequest struct {
	UserID string `json:"userId"`
}

// RegisterUserPayload is the user half of a registration
type RegisterUserPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Role     string `json:"role" example:"HR"`
}

// RegisterCompanyPayload is the company half of a registration
type RegisterCompanyPayload struct {
	Name     string `json:"name"`
	Industry string `json:"industry" example:"Fintech"`
	Logo     string `json:"logo"`
}

// RegisterCompanyUserRequest represents registration request body
type RegisterCompanyUserRequest struct {
	User    RegisterUserPayload    `json:"user"`
	Company RegisterCompanyPayload `json:"company"`
}

// Login handles the first login step
// @Summary Start login
// @Description Mails a one-time code to the account's email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	user, err := h.authService.Login(c.UserContext(), req.Email)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "OTP sent to your email", fiber.Map{
		"userId": user.ID,
	})
}

// ValidateOTP completes login
// @Summary Validate OTP
// @Description Consumes a one-time code and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ValidateOTPRequest true "User and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/validate-otp [post]
func (h *AuthHandler) ValidateOTP(c *fiber.Ctx) error {
	var req ValidateOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID == "" || req.OTP == "" {
		return response.BadRequest(c, "userId and otp are required")
	}

	result, err := h.authService.CompleteLogin(c.UserContext(), req.UserID, req.OTP)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Login successful", result)
}

// ResendOTP mails a fresh code
// @Summary Resend OTP
// @Description Issues a new one-time code, subject to a per-user cooldown
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResendOTPRequest true "User"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ResendOTP(c.UserContext(), req.UserID); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "OTP resent successfully", nil)
}

// RegisterCompanyUser registers a user together with its company
// @Summary Register company and user
// @Description Creates the user and the company atomically and mails the first OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterCompanyUserRequest true "User and company"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register-company-user [post]
func (h *AuthHandler) RegisterCompanyUser(c *fiber.Ctx) error {
	var req RegisterCompanyUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.registrationService.Register(c.UserContext(), &services.RegisterInput{
		Email:       req.User.Email,
		FullName:    req.User.FullName,
		Role:        req.User.Role,
		CompanyName: req.Company.Name,
		Industry:    req.Company.Industry,
		Logo:        req.Company.Logo,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Company and user registered successfully", result)
}

// Me returns the caller's profile
// @Summary Current user
// @Description Returns the authenticated user and company
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.authService.Me(c.UserContext(), p)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User retrieved successfully", result)
}

// Logout clears the session cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return response.Success(c, "Logged out successfully", nil)
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.ExpiresIn.Seconds()),
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
