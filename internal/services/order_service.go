package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

// OrderLine is one requested line item.
type OrderLine struct {
	BookID   int64
	Quantity int
	Price    float64
}

type OrderInput struct {
	UserID          int64
	TotalAmount     float64
	Status          string
	ShippingAddress string
	PaymentMethod   string
	Lines           []OrderLine
}

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Create records the order and decrements stock for every line item as one
// atomic unit. Stock may go negative: there is no sufficiency check here,
// faithfully preserving the recorded ledger behavior.
func (s *OrderService) Create(in OrderInput) (*domain.Order, error) {
	status := in.Status
	if status == "" {
		status = domain.OrderPending
	}
	o := &domain.Order{
		UserID:          in.UserID,
		TotalAmount:     in.TotalAmount,
		Status:          status,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}
	details := make([]domain.OrderDetail, len(in.Lines))
	for i, l := range in.Lines {
		details[i] = domain.OrderDetail{BookID: l.BookID, Quantity: l.Quantity, Price: l.Price}
	}
	if err := s.Orders.CreateWithDetails(o, details); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) List() ([]domain.Order, error) { return s.Orders.List() }

func (s *OrderService) Get(id int64) (*domain.Order, error) { return s.Orders.Get(id) }

// Update touches only status, shipping address, and payment method. Line
// items have no post-creation mutation path, so stock never moves here.
func (s *OrderService) Update(id int64, patch repos.OrderPatch) (*domain.Order, error) {
	return s.Orders.Update(id, patch)
}

// Delete restores stock for every line item and removes the order.
func (s *OrderService) Delete(id int64) error {
	return s.Orders.DeleteRestoringStock(id)
}
