package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookery/internal/domain"
	applog "bookery/internal/log"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type BookHandler struct {
	Catalog *services.CatalogService
}

func (h *BookHandler) Index(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("search")))
	categoryID := int64(c.QueryInt("category_id"))
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	books, err := h.Catalog.ListBooks(q, categoryID, page, pageSize)
	if err != nil {
		return respondErr(c, "books.list.fail", "Failed to retrieve books", err)
	}
	return respondOK(c, books, "Books retrieved successfully")
}

func (h *BookHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book not found")
	}
	b, err := h.Catalog.GetBook(int64(id))
	if err != nil {
		return respondErr(c, "books.show.fail", "Failed to retrieve book", err)
	}
	return respondOK(c, b, "Book retrieved successfully")
}

type bookRequest struct {
	CategoryID    *int64   `json:"category_id"`
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	Image         *string  `json:"image"`
}

func (h *BookHandler) validateBook(req bookRequest, partial bool) (validate.Errors, error) {
	errs := validate.Errors{}
	if req.Title == nil {
		if !partial {
			errs.Add("title", "is required")
		}
	} else if strings.TrimSpace(*req.Title) == "" || !validate.MaxLen(*req.Title, 255) {
		errs.Add("title", "must be 1-255 characters")
	}
	if req.Author == nil {
		if !partial {
			errs.Add("author", "is required")
		}
	} else if strings.TrimSpace(*req.Author) == "" || !validate.MaxLen(*req.Author, 255) {
		errs.Add("author", "must be 1-255 characters")
	}
	if req.Price == nil {
		if !partial {
			errs.Add("price", "is required")
		}
	} else if *req.Price < 0 {
		errs.Add("price", "must not be negative")
	}
	if req.CategoryID != nil {
		if _, err := h.Catalog.GetCategory(*req.CategoryID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			errs.Add("category_id", "category does not exist")
		}
	}
	return errs, nil
}

func (h *BookHandler) Store(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	errs, err := h.validateBook(req, false)
	if err != nil {
		return respondErr(c, "books.create.fail", "Failed to create book", err)
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	b := &domain.Book{
		CategoryID: req.CategoryID,
		Title:      strings.TrimSpace(*req.Title),
		Author:     strings.TrimSpace(*req.Author),
		Price:      *req.Price,
	}
	if req.StockQuantity != nil {
		b.StockQuantity = *req.StockQuantity
	}
	if req.Image != nil {
		b.Image = *req.Image
	}
	if err := h.Catalog.CreateBook(b); err != nil {
		return respondErr(c, "books.create.fail", "Failed to create book", err)
	}
	applog.Audit(c, "books.create", map[string]any{"book_id": b.ID})
	return respondCreated(c, b, "Book created successfully")
}

func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book not found")
	}
	cur, err := h.Catalog.GetBook(int64(id))
	if err != nil {
		return respondErr(c, "books.update.fail", "Failed to update book", err)
	}

	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	errs, err := h.validateBook(req, true)
	if err != nil {
		return respondErr(c, "books.update.fail", "Failed to update book", err)
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	b := cur.Book
	if req.CategoryID != nil {
		b.CategoryID = req.CategoryID
	}
	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		b.Author = strings.TrimSpace(*req.Author)
	}
	if req.Price != nil {
		b.Price = *req.Price
	}
	if req.StockQuantity != nil {
		b.StockQuantity = *req.StockQuantity
	}
	if req.Image != nil {
		b.Image = *req.Image
	}
	if err := h.Catalog.UpdateBook(&b); err != nil {
		return respondErr(c, "books.update.fail", "Failed to update book", err)
	}
	applog.Audit(c, "books.update", map[string]any{"book_id": b.ID})
	return respondOK(c, b, "Book updated successfully")
}

func (h *BookHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book not found")
	}
	if err := h.Catalog.DeleteBook(int64(id)); err != nil {
		return respondErr(c, "books.delete.fail", "Failed to delete book", err)
	}
	applog.Audit(c, "books.delete", map[string]any{"book_id": id})
	return respondOK(c, nil, "Book deleted successfully")
}
