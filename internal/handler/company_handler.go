package handler

import (
	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/service"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Directory lists companies a new user can join. Public.
// GET /api/v1/companies/directory
func (h *CompanyHandler) Directory(c *fiber.Ctx) error {
	companies, err := h.companyService.Directory(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(companies)
}

// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	company, err := h.companyService.GetCompany(c.UserContext(), a, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

// PUT /api/v1/companies/current
func (h *CompanyHandler) UpdateCurrent(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	company, err := h.companyService.UpdateCurrent(c.UserContext(), a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Company updated successfully",
		"data":    company,
	})
}
