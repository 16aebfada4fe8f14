package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookery/internal/domain"
	applog "bookery/internal/log"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type BookDetailHandler struct {
	Catalog *services.CatalogService
}

func (h *BookDetailHandler) Index(c *fiber.Ctx) error {
	details, err := h.Catalog.ListDetails()
	if err != nil {
		return respondErr(c, "book_details.list.fail", "Failed to retrieve book details", err)
	}
	return respondOK(c, details, "Book details retrieved successfully")
}

func (h *BookDetailHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book detail not found")
	}
	d, err := h.Catalog.GetDetail(int64(id))
	if err != nil {
		return respondErr(c, "book_details.show.fail", "Failed to retrieve book detail", err)
	}
	return respondOK(c, d, "Book detail retrieved successfully")
}

// ForBook returns the detail record attached to a book, keyed by book id.
func (h *BookDetailHandler) ForBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book detail not found")
	}
	d, err := h.Catalog.DetailForBook(int64(id))
	if err != nil {
		return respondErr(c, "book_details.book.fail", "Failed to retrieve book detail", err)
	}
	return respondOK(c, d, "Book detail retrieved successfully")
}

type bookDetailRequest struct {
	BookID      *int64   `json:"book_id"`
	ISBN10      *string  `json:"isbn10"`
	ISBN13      *string  `json:"isbn13"`
	Publisher   *string  `json:"publisher"`
	PublishYear *int     `json:"publish_year"`
	Edition     *string  `json:"edition"`
	PageCount   *int     `json:"page_count"`
	Language    *string  `json:"language"`
	Format      *string  `json:"format"`
	Dimensions  *string  `json:"dimensions"`
	Weight      *float64 `json:"weight"`
	Description *string  `json:"description"`
}

func validateBookDetail(req bookDetailRequest, partial bool) validate.Errors {
	errs := validate.Errors{}
	if req.BookID == nil && !partial {
		errs.Add("book_id", "is required")
	}
	if req.ISBN10 != nil && !validate.MaxLen(*req.ISBN10, 10) {
		errs.Add("isbn10", "must be at most 10 characters")
	}
	if req.ISBN13 != nil && !validate.MaxLen(*req.ISBN13, 17) {
		errs.Add("isbn13", "must be at most 17 characters")
	}
	if req.Format != nil && *req.Format != "" && !validate.BookFormat(*req.Format) {
		errs.Add("format", "must be one of Hardcover, Paperback, Ebook, Audiobook")
	}
	return errs
}

func applyBookDetail(d *domain.BookDetail, req bookDetailRequest) {
	if req.BookID != nil {
		d.BookID = *req.BookID
	}
	if req.ISBN10 != nil {
		d.ISBN10 = *req.ISBN10
	}
	if req.ISBN13 != nil {
		d.ISBN13 = *req.ISBN13
	}
	if req.Publisher != nil {
		d.Publisher = *req.Publisher
	}
	if req.PublishYear != nil {
		d.PublishYear = req.PublishYear
	}
	if req.Edition != nil {
		d.Edition = *req.Edition
	}
	if req.PageCount != nil {
		d.PageCount = req.PageCount
	}
	if req.Language != nil {
		d.Language = *req.Language
	}
	if req.Format != nil {
		d.Format = *req.Format
	}
	if req.Dimensions != nil {
		d.Dimensions = *req.Dimensions
	}
	if req.Weight != nil {
		d.Weight = req.Weight
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
}

func (h *BookDetailHandler) Store(c *fiber.Ctx) error {
	var req bookDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if errs := validateBookDetail(req, false); errs.Any() {
		return respondInvalid(c, errs)
	}

	var d domain.BookDetail
	applyBookDetail(&d, req)
	if err := h.Catalog.CreateDetail(&d); err != nil {
		return respondErr(c, "book_details.create.fail", "Failed to create book detail", err)
	}
	applog.Audit(c, "book_details.create", map[string]any{"book_id": d.BookID})
	return respondCreated(c, d, "Book detail created successfully")
}

func (h *BookDetailHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book detail not found")
	}
	var req bookDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if errs := validateBookDetail(req, true); errs.Any() {
		return respondInvalid(c, errs)
	}

	d, err := h.Catalog.UpdateDetail(int64(id), func(d *domain.BookDetail) {
		applyBookDetail(d, req)
	})
	if err != nil {
		return respondErr(c, "book_details.update.fail", "Failed to update book detail", err)
	}
	applog.Audit(c, "book_details.update", map[string]any{"detail_id": d.ID})
	return respondOK(c, d, "Book detail updated successfully")
}

func (h *BookDetailHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book detail not found")
	}
	if err := h.Catalog.DeleteDetail(int64(id)); err != nil {
		return respondErr(c, "book_details.delete.fail", "Failed to delete book detail", err)
	}
	applog.Audit(c, "book_details.delete", map[string]any{"detail_id": id})
	return respondOK(c, nil, "Book detail deleted successfully")
}
