package middleware

import (
	"errors"
	"strings"

	"eazicred/internal/core/domain"
	"eazicred/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Authenticator turns a session token into the calling principal
type Authenticator interface {
	Authenticate(token string) (domain.Principal, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Authorization header first, then cookie
		var accessToken string
		if authHeader := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 2. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 3. Validate token
		principal, err := auth.Authenticate(accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 4. Set principal in context
		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware
func CurrentPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if p.HasRole(allowedRoles...) {
			return c.Next()
		}

		return response.Forbidden(c, domain.ErrRoleNotAllowed.Message)
	}
}

// LoanManagers allows HR and LOAN_COMPANY roles
func LoanManagers() fiber.Handler {
	return RoleMiddleware(domain.RoleHR, domain.RoleLoanCompany)
}

// LenderOnly allows only the LOAN_COMPANY role
func LenderOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleLoanCompany)
}
