package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookery/internal/domain"
	applog "bookery/internal/log"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Index(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return respondErr(c, "categories.list.fail", "Failed to retrieve categories", err)
	}
	return respondOK(c, cats, "Categories retrieved successfully")
}

func (h *CategoryHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(int64(id))
	if err != nil {
		return respondErr(c, "categories.show.fail", "Failed to retrieve category", err)
	}
	return respondOK(c, cat, "Category retrieved successfully")
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (h *CategoryHandler) Store(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		errs.Add("name", "is required")
	} else if !validate.MaxLen(*req.Name, 50) {
		errs.Add("name", "must be at most 50 characters")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	cat := &domain.Category{Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Image != nil {
		cat.Image = *req.Image
	}
	if err := h.Catalog.CreateCategory(cat); err != nil {
		return respondErr(c, "categories.create.fail", "Failed to create category", err)
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID})
	return respondCreated(c, cat, "Category created successfully")
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Category not found")
	}
	cat, err := h.Catalog.GetCategory(int64(id))
	if err != nil {
		return respondErr(c, "categories.update.fail", "Failed to update category", err)
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errs.Add("name", "is required")
		} else if !validate.MaxLen(*req.Name, 50) {
			errs.Add("name", "must be at most 50 characters")
		}
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	if req.Name != nil {
		cat.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Image != nil {
		cat.Image = *req.Image
	}
	if err := h.Catalog.UpdateCategory(cat); err != nil {
		return respondErr(c, "categories.update.fail", "Failed to update category", err)
	}
	applog.Audit(c, "categories.update", map[string]any{"category_id": cat.ID})
	return respondOK(c, cat, "Category updated successfully")
}

func (h *CategoryHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Category not found")
	}
	if err := h.Catalog.DeleteCategory(int64(id)); err != nil {
		return respondErr(c, "categories.delete.fail", "Failed to delete category", err)
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id})
	return respondOK(c, nil, "Category deleted successfully")
}

// Books serves the category together with the books filed under it.
func (h *CategoryHandler) Books(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Category not found")
	}
	cat, books, err := h.Catalog.CategoryBooks(int64(id))
	if err != nil {
		return respondErr(c, "categories.books.fail", "Failed to retrieve category books", err)
	}
	return respondOK(c, fiber.Map{"category": cat, "books": books}, "Category books retrieved successfully")
}
