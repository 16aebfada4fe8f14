package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/repos"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type PurchaseHandler struct {
	Purchase *services.PurchaseService
}

func (h *PurchaseHandler) Index(c *fiber.Ctx) error {
	purchases, err := h.Purchase.List()
	if err != nil {
		return respondErr(c, "purchases.list.fail", "Failed to retrieve purchases", err)
	}
	return respondOK(c, purchases, "Purchases retrieved successfully")
}

func (h *PurchaseHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Purchase not found")
	}
	p, err := h.Purchase.Get(int64(id))
	if err != nil {
		return respondErr(c, "purchases.show.fail", "Failed to retrieve purchase", err)
	}
	return respondOK(c, p, "Purchase retrieved successfully")
}

type purchaseCreateRequest struct {
	BookID        *int64   `json:"book_id"`
	Quantity      *int     `json:"quantity"`
	UnitPrice     *float64 `json:"unit_price"`
	PaymentMethod string   `json:"payment_method"`
}

func (h *PurchaseHandler) Store(c *fiber.Ctx) error {
	var req purchaseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.BookID == nil {
		errs.Add("book_id", "is required")
	}
	if req.Quantity == nil || *req.Quantity < 1 {
		errs.Add("quantity", "must be at least 1")
	}
	if req.UnitPrice == nil {
		errs.Add("unit_price", "is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		errs.Add("payment_method", "is required")
	} else if !validate.MaxLen(req.PaymentMethod, 50) {
		errs.Add("payment_method", "must be at most 50 characters")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	p, err := h.Purchase.Create(services.PurchaseInput{
		BookID:        *req.BookID,
		Quantity:      *req.Quantity,
		UnitPrice:     *req.UnitPrice,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return respondErr(c, "purchases.create.fail", "Failed to record purchase", err)
	}
	applog.Audit(c, "purchases.create", map[string]any{"purchase_id": p.ID, "book_id": p.BookID, "quantity": p.Quantity})
	return respondCreated(c, p, "Purchase recorded successfully")
}

func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Purchase not found")
	}

	var patch repos.PurchasePatch
	if err := c.BodyParser(&patch); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if patch.Quantity != nil && *patch.Quantity < 1 {
		errs.Add("quantity", "must be at least 1")
	}
	if patch.PaymentMethod != nil {
		if strings.TrimSpace(*patch.PaymentMethod) == "" {
			errs.Add("payment_method", "is required")
		} else if !validate.MaxLen(*patch.PaymentMethod, 50) {
			errs.Add("payment_method", "must be at most 50 characters")
		}
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	p, err := h.Purchase.Update(int64(id), patch)
	if err != nil {
		return respondErr(c, "purchases.update.fail", "Failed to update purchase", err)
	}
	applog.Audit(c, "purchases.update", map[string]any{"purchase_id": p.ID})
	return respondOK(c, p, "Purchase updated successfully")
}

func (h *PurchaseHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Purchase not found")
	}
	if err := h.Purchase.Delete(int64(id)); err != nil {
		return respondErr(c, "purchases.delete.fail", "Failed to delete purchase", err)
	}
	applog.Audit(c, "purchases.delete", map[string]any{"purchase_id": id})
	return respondOK(c, nil, "Purchase deleted successfully")
}
