package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/repos"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Users *repos.UserRepo
}

func (h *OrderHandler) Index(c *fiber.Ctx) error {
	orders, err := h.Order.List()
	if err != nil {
		return respondErr(c, "orders.list.fail", "Failed to retrieve orders", err)
	}
	return respondOK(c, orders, "Orders retrieved successfully")
}

func (h *OrderHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Order not found")
	}
	o, err := h.Order.Get(int64(id))
	if err != nil {
		return respondErr(c, "orders.show.fail", "Failed to retrieve order", err)
	}
	return respondOK(c, o, "Order retrieved successfully")
}

type orderLineRequest struct {
	BookID   *int64   `json:"book_id"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

type orderCreateRequest struct {
	UserID          *int64             `json:"user_id"`
	TotalAmount     *float64           `json:"total_amount"`
	Status          string             `json:"status"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	OrderDetails    []orderLineRequest `json:"order_details"`
}

func (h *OrderHandler) Store(c *fiber.Ctx) error {
	var req orderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if req.UserID == nil {
		errs.Add("user_id", "is required")
	} else if ok, err := h.Users.Exists(*req.UserID); err != nil {
		return respondErr(c, "orders.create.fail", "Failed to create order", err)
	} else if !ok {
		errs.Add("user_id", "user does not exist")
	}
	if req.TotalAmount == nil {
		errs.Add("total_amount", "is required")
	}
	if req.Status != "" && !validate.OrderStatus(req.Status) {
		errs.Add("status", "must be one of pending, processing, shipped, delivered, cancelled")
	}
	if !validate.MaxLen(req.PaymentMethod, 50) {
		errs.Add("payment_method", "must be at most 50 characters")
	}
	if len(req.OrderDetails) == 0 {
		errs.Add("order_details", "at least one line item is required")
	}
	lines := make([]services.OrderLine, 0, len(req.OrderDetails))
	for _, l := range req.OrderDetails {
		switch {
		case l.BookID == nil:
			errs.Add("order_details", "book_id is required on every line item")
		case l.Quantity == nil || *l.Quantity < 1:
			errs.Add("order_details", "quantity must be at least 1 on every line item")
		case l.Price == nil:
			errs.Add("order_details", "price is required on every line item")
		default:
			lines = append(lines, services.OrderLine{BookID: *l.BookID, Quantity: *l.Quantity, Price: *l.Price})
		}
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	o, err := h.Order.Create(services.OrderInput{
		UserID:          *req.UserID,
		TotalAmount:     *req.TotalAmount,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Lines:           lines,
	})
	if err != nil {
		return respondErr(c, "orders.create.fail", "Failed to create order", err)
	}
	applog.Audit(c, "orders.create", map[string]any{"order_id": o.ID, "lines": len(o.Details)})
	return respondCreated(c, o, "Order created successfully")
}

func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Order not found")
	}

	var patch repos.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	if patch.Status != nil && !validate.OrderStatus(*patch.Status) {
		errs.Add("status", "must be one of pending, processing, shipped, delivered, cancelled")
	}
	if patch.PaymentMethod != nil && !validate.MaxLen(*patch.PaymentMethod, 50) {
		errs.Add("payment_method", "must be at most 50 characters")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	o, err := h.Order.Update(int64(id), patch)
	if err != nil {
		return respondErr(c, "orders.update.fail", "Failed to update order", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": o.ID})
	return respondOK(c, o, "Order updated successfully")
}

func (h *OrderHandler) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondFail(c, fiber.StatusNotFound, "Order not found")
	}
	if err := h.Order.Delete(int64(id)); err != nil {
		return respondErr(c, "orders.delete.fail", "Failed to delete order", err)
	}
	applog.Audit(c, "orders.delete", map[string]any{"order_id": id})
	return respondOK(c, nil, "Order deleted successfully")
}
