package handlers

import (
	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/core/services"
	"eazicred/internal/pkg/pagination"
	"eazicred/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ApplyLoanRequest represents a public loan application
type ApplyLoanRequest struct {
	CompanyID             string  `json:"companyId"`
	Amount                float64 `json:"amount" example:"5000"`
	Purpose               string  `json:"purpose" example:"Home renovation"`
	Tenure                int     `json:"tenure" example:"12"`
	Interest              float64 `json:"interest" example:"5"`
	BVN                   string  `json:"bvn"`
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	AdditionalInformation string  `json:"additionalInformation"`
}

// UpdateLoanStatusRequest represents a status change
type UpdateLoanStatusRequest struct {
	Status string `json:"status" example:"APPROVED"`
}

// Apply submits a loan application
// @Summary Apply for a loan
// @Description Public endpoint. The new loan starts PENDING and the company's users are notified.
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body ApplyLoanRequest true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/apply [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.SubmitApplication(c.UserContext(), &services.SubmitLoanInput{
		CompanyID:             req.CompanyID,
		Amount:                req.Amount,
		Purpose:               req.Purpose,
		Tenure:                req.Tenure,
		Interest:              req.Interest,
		BVN:                   req.BVN,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		AdditionalInformation: req.AdditionalInformation,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Loan application submitted successfully", loan)
}

// ListCompanyLoans lists a company's loans
// @Summary List company loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param companyId path string true "Company ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Status filter" Enums(PENDING, APPROVED, REJECTED, FUNDED, REPAID)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/company/{companyId} [get]
func (h *LoanHandler) ListCompanyLoans(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	params := pagination.GetParams(c)

	loans, meta, err := h.loanService.ListByCompany(c.UserContext(), p, c.Params("companyId"), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully", &pagination.Response{
		Data: loans,
		Meta: meta,
	})
}

// CompanyAnalytics summarizes a company's loans
// @Summary Company loan analytics
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param companyId path string true "Company ID"
// @Success 200 {object} response.Response{data=services.LoanAnalytics}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/company/{companyId}/analytics [get]
func (h *LoanHandler) CompanyAnalytics(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	analytics, err := h.loanService.Analytics(c.UserContext(), p, c.Params("companyId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Analytics retrieved successfully", analytics)
}

// GetLoan gets a loan by ID
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param loanId path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{loanId} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	loan, err := h.loanService.GetByID(c.UserContext(), p, c.Params("loanId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan retrieved successfully", loan)
}

// GetLoanHistory lists a loan's status changes
// @Summary Loan status history
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param loanId path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{loanId}/history [get]
func (h *LoanHandler) GetLoanHistory(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	history, err := h.loanService.History(c.UserContext(), p, c.Params("loanId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan history retrieved successfully", history)
}

// UpdateLoanStatus moves a loan along its lifecycle
// @Summary Update loan status
// @Description PENDING -> APPROVED|REJECTED, APPROVED -> FUNDED, FUNDED -> REPAID
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param loanId path string true "Loan ID"
// @Param body body UpdateLoanStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{loanId}/status [patch]
func (h *LoanHandler) UpdateLoanStatus(c *fiber.Ctx) error {
	var req UpdateLoanStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, _ := middleware.CurrentPrincipal(c)
	loan, err := h.loanService.TransitionStatus(c.UserContext(), p, c.Params("loanId"), req.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan status updated successfully", loan)
}
