package handlers

import (
	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/core/services"
	"eazicred/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	companyService *services.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// UpdateCompanyRequest represents a partial company update
type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Logo     *string `json:"logo,omitempty"`
}

// GetCompany gets a company by ID
// @Summary Get company
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.companyService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Company retrieved successfully", company)
}

// GetCompanyBySlug gets a company by slug
// @Summary Get company by slug
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Company slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/slug/{slug} [get]
func (h *CompanyHandler) GetCompanyBySlug(c *fiber.Ctx) error {
	company, err := h.companyService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Company retrieved successfully", company)
}

// UpdateCompany updates a company's profile
// @Summary Update company
// @Description Only the HR user who created the company may update it
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param body body UpdateCompanyRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /companies/{id} [patch]
func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	var req UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, _ := middleware.CurrentPrincipal(c)
	company, err := h.companyService.Update(c.UserContext(), p, c.Params("id"), &services.UpdateCompanyInput{
		Name:     req.Name,
		Industry: req.Industry,
		Logo:     req.Logo,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Company updated successfully", company)
}

// DeleteCompany soft deletes a company
// @Summary Delete company
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	if err := h.companyService.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Company deleted successfully", nil)
}

// AddEmployee adds a user to the company
// @Summary Add employee
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param userId path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /companies/{id}/employees/{userId} [post]
func (h *CompanyHandler) AddEmployee(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	company, err := h.companyService.AddEmployee(c.UserContext(), p, c.Params("id"), c.Params("userId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Employee added successfully", company)
}

// RemoveEmployee removes a user from the company
// @Summary Remove employee
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param userId path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/{id}/employees/{userId} [delete]
func (h *CompanyHandler) RemoveEmployee(c *fiber.Ctx) error {
	p, _ := middleware.CurrentPrincipal(c)
	company, err := h.companyService.RemoveEmployee(c.UserContext(), p, c.Params("id"), c.Params("userId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Employee removed successfully", company)
}
