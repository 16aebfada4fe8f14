package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/repos"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type CartHandler struct {
	Cart  *services.CartService
	Users *repos.UserRepo
	Books *repos.BookRepo
}

func (h *CartHandler) Index(c *fiber.Ctx) error {
	items, err := h.Cart.List()
	if err != nil {
		return respondErr(c, "carts.list.fail", "Failed to retrieve cart items", err)
	}
	return respondOK(c, items, "Cart items retrieved successfully")
}

func (h *CartHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Cart item not found")
	}
	ci, err := h.Cart.Get(int64(id))
	if err != nil {
		return respondErr(c, "carts.show.fail", "Failed to retrieve cart item", err)
	}
	return respondOK(c, ci, "Cart item retrieved successfully")
}

type cartCreateRequest struct {
	UserID   *int64 `json:"user_id"`
	BookID   *int64 `json:"book_id"`
	Quantity *int   `json:"quantity"`
}

func (h *CartHandler) Store(c *fiber.Ctx) error {
	var req cartCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.UserID == nil {
		errs.Add("user_id", "is required")
	} else if ok, err := h.Users.Exists(*req.UserID); err != nil {
		return respondErr(c, "carts.add.fail", "Failed to add item to cart", err)
	} else if !ok {
		errs.Add("user_id", "user does not exist")
	}
	if req.BookID == nil {
		errs.Add("book_id", "is required")
	} else if ok, err := h.Books.Exists(*req.BookID); err != nil {
		return respondErr(c, "carts.add.fail", "Failed to add item to cart", err)
	} else if !ok {
		errs.Add("book_id", "book does not exist")
	}
	if req.Quantity == nil || *req.Quantity < 1 {
		errs.Add("quantity", "must be at least 1")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	ci, err := h.Cart.Add(*req.UserID, *req.BookID, *req.Quantity)
	if err != nil {
		return respondErr(c, "carts.add.fail", "Failed to add item to cart", err)
	}
	applog.Audit(c, "carts.add", map[string]any{"user_id": ci.UserID, "book_id": ci.BookID})
	return respondCreated(c, ci, "Item added to cart successfully")
}

type cartUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Cart item not found")
	}
	var req cartUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if req.Quantity == nil || *req.Quantity < 1 {
		errs := validate.Errors{}
		errs.Add("quantity", "must be at least 1")
		return respondInvalid(c, errs)
	}

	ci, err := h.Cart.UpdateQuantity(int64(id), *req.Quantity)
	if err != nil {
		return respondErr(c, "carts.update.fail", "Failed to update cart item", err)
	}
	return respondOK(c, ci, "Cart item updated successfully")
}

func (h *CartHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Cart item not found")
	}
	if err := h.Cart.Remove(int64(id)); err != nil {
		return respondErr(c, "carts.remove.fail", "Failed to remove cart item", err)
	}
	return respondOK(c, nil, "Cart item removed successfully")
}

// UserCart lists the cart lines belonging to one user.
func (h *CartHandler) UserCart(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "User not found")
	}
	if _, err := h.Users.ByID(int64(userID)); err != nil {
		return respondErr(c, "carts.user.fail", "Failed to retrieve user cart", err)
	}
	items, err := h.Cart.UserCart(int64(userID))
	if err != nil {
		return respondErr(c, "carts.user.fail", "Failed to retrieve user cart", err)
	}
	return respondOK(c, items, "User cart retrieved successfully")
}

// ClearUserCart empties a user's cart.
func (h *CartHandler) ClearUserCart(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "User not found")
	}
	if err := h.Cart.ClearUserCart(int64(userID)); err != nil {
		return respondErr(c, "carts.clear.fail", "Failed to clear cart", err)
	}
	applog.Audit(c, "carts.clear", map[string]any{"user_id": userID})
	return respondOK(c, nil, "Cart cleared successfully")
}
