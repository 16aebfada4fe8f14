package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/repos"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type WishlistHandler struct {
	Wish  *services.WishlistService
	Users *repos.UserRepo
	Books *repos.BookRepo
}

func (h *WishlistHandler) Index(c *fiber.Ctx) error {
	items, err := h.Wish.List()
	if err != nil {
		return respondErr(c, "wishlists.list.fail", "Failed to retrieve wishlists", err)
	}
	return respondOK(c, items, "Wishlists retrieved successfully")
}

func (h *WishlistHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Wishlist item not found")
	}
	wi, err := h.Wish.Get(int64(id))
	if err != nil {
		return respondErr(c, "wishlists.show.fail", "Failed to retrieve wishlist item", err)
	}
	return respondOK(c, wi, "Wishlist item retrieved successfully")
}

type wishlistCreateRequest struct {
	UserID *int64 `json:"user_id"`
	BookID *int64 `json:"book_id"`
}

func (h *WishlistHandler) Store(c *fiber.Ctx) error {
	var req wishlistCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.UserID == nil {
		errs.Add("user_id", "is required")
	} else if ok, err := h.Users.Exists(*req.UserID); err != nil {
		return respondErr(c, "wishlists.save.fail", "Failed to add book to wishlist", err)
	} else if !ok {
		errs.Add("user_id", "user does not exist")
	}
	if req.BookID == nil {
		errs.Add("book_id", "is required")
	} else if ok, err := h.Books.Exists(*req.BookID); err != nil {
		return respondErr(c, "wishlists.save.fail", "Failed to add book to wishlist", err)
	} else if !ok {
		errs.Add("book_id", "book does not exist")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	wi, err := h.Wish.Save(*req.UserID, *req.BookID)
	if err != nil {
		return respondErr(c, "wishlists.save.fail", "Failed to add book to wishlist", err)
	}
	applog.Audit(c, "wishlists.save", map[string]any{"user_id": wi.UserID, "book_id": wi.BookID})
	return respondCreated(c, wi, "Book added to wishlist successfully")
}

func (h *WishlistHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Wishlist item not found")
	}
	if err := h.Wish.Remove(int64(id)); err != nil {
		return respondErr(c, "wishlists.remove.fail", "Failed to remove wishlist item", err)
	}
	return respondOK(c, nil, "Item removed from wishlist successfully")
}

// UserWishlist lists one user's wishlist.
func (h *WishlistHandler) UserWishlist(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "User not found")
	}
	if _, err := h.Users.ByID(int64(userID)); err != nil {
		return respondErr(c, "wishlists.user.fail", "Failed to retrieve user wishlist", err)
	}
	items, err := h.Wish.ForUser(int64(userID))
	if err != nil {
		return respondErr(c, "wishlists.user.fail", "Failed to retrieve user wishlist", err)
	}
	return respondOK(c, items, "User wishlist retrieved successfully")
}

// Check reports whether a book sits in a user's wishlist.
func (h *WishlistHandler) Check(c *fiber.Ctx) error {
	userID := int64(c.QueryInt("user_id"))
	bookID := int64(c.QueryInt("book_id"))

	errs := validate.Errors{}
	if userID <= 0 {
		errs.Add("user_id", "is required")
	}
	if bookID <= 0 {
		errs.Add("book_id", "is required")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	in, err := h.Wish.Contains(userID, bookID)
	if err != nil {
		return respondErr(c, "wishlists.check.fail", "Failed to check wishlist", err)
	}
	return respondOK(c, fiber.Map{"in_wishlist": in}, "Wishlist checked successfully")
}
