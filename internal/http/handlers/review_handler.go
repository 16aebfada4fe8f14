package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/repos"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type ReviewHandler struct {
	Review *services.ReviewService
	Users  *repos.UserRepo
	Books  *repos.BookRepo
}

func (h *ReviewHandler) Index(c *fiber.Ctx) error {
	reviews, err := h.Review.List()
	if err != nil {
		return respondErr(c, "reviews.list.fail", "Failed to retrieve reviews", err)
	}
	return respondOK(c, reviews, "Reviews retrieved successfully")
}

func (h *ReviewHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Review not found")
	}
	rv, err := h.Review.Get(int64(id))
	if err != nil {
		return respondErr(c, "reviews.show.fail", "Failed to retrieve review", err)
	}
	return respondOK(c, rv, "Review retrieved successfully")
}

type reviewCreateRequest struct {
	UserID  *int64 `json:"user_id"`
	BookID  *int64 `json:"book_id"`
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Store(c *fiber.Ctx) error {
	var req reviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.UserID == nil {
		errs.Add("user_id", "is required")
	} else if ok, err := h.Users.Exists(*req.UserID); err != nil {
		return respondErr(c, "reviews.add.fail", "Failed to add review", err)
	} else if !ok {
		errs.Add("user_id", "user does not exist")
	}
	if req.BookID == nil {
		errs.Add("book_id", "is required")
	} else if ok, err := h.Books.Exists(*req.BookID); err != nil {
		return respondErr(c, "reviews.add.fail", "Failed to add review", err)
	} else if !ok {
		errs.Add("book_id", "book does not exist")
	}
	if req.Rating == nil || !validate.Rating(*req.Rating) {
		errs.Add("rating", "must be between 1 and 5")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	rv, err := h.Review.Add(*req.UserID, *req.BookID, *req.Rating, req.Comment)
	if err != nil {
		return respondErr(c, "reviews.add.fail", "Failed to add review", err)
	}
	applog.Audit(c, "reviews.add", map[string]any{"user_id": rv.UserID, "book_id": rv.BookID})
	return respondCreated(c, rv, "Review added successfully")
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Review not found")
	}
	var req reviewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if req.Rating != nil && !validate.Rating(*req.Rating) {
		errs := validate.Errors{}
		errs.Add("rating", "must be between 1 and 5")
		return respondInvalid(c, errs)
	}

	rv, err := h.Review.Update(int64(id), req.Rating, req.Comment)
	if err != nil {
		return respondErr(c, "reviews.update.fail", "Failed to update review", err)
	}
	return respondOK(c, rv, "Review updated successfully")
}

func (h *ReviewHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Review not found")
	}
	if err := h.Review.Remove(int64(id)); err != nil {
		return respondErr(c, "reviews.delete.fail", "Failed to delete review", err)
	}
	return respondOK(c, nil, "Review deleted successfully")
}

// ForBook lists the reviews of one book; public alongside the catalog.
func (h *ReviewHandler) ForBook(c *fiber.Ctx) error {
	bookID, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Book not found")
	}
	reviews, err := h.Review.ForBook(int64(bookID))
	if err != nil {
		return respondErr(c, "reviews.book.fail", "Failed to retrieve book reviews", err)
	}
	return respondOK(c, reviews, "Book reviews retrieved successfully")
}
