package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

type PurchaseInput struct {
	BookID        int64
	Quantity      int
	UnitPrice     float64
	PaymentMethod string
}

type PurchaseService struct {
	Purchases *repos.PurchaseRepo
}

func NewPurchaseService(purchases *repos.PurchaseRepo) *PurchaseService {
	return &PurchaseService{Purchases: purchases}
}

// Create records a restock and raises the book's stock atomically.
func (s *PurchaseService) Create(in PurchaseInput) (*domain.Purchase, error) {
	p := &domain.Purchase{
		BookID:        in.BookID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		PaymentMethod: in.PaymentMethod,
	}
	if err := s.Purchases.CreateRestock(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PurchaseService) List() ([]domain.Purchase, error) { return s.Purchases.List() }

func (s *PurchaseService) Get(id int64) (*domain.Purchase, error) { return s.Purchases.Get(id) }

// Update reconciles stock when the book or quantity changes and persists
// the remaining field changes.
func (s *PurchaseService) Update(id int64, patch repos.PurchasePatch) (*domain.Purchase, error) {
	return s.Purchases.UpdateReconciling(id, patch)
}

// Delete takes the restocked quantity back out of stock and removes the row.
func (s *PurchaseService) Delete(id int64) error {
	return s.Purchases.DeleteRevertingStock(id)
}
