package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts}
}

// Add upserts a cart line; adding a book already in the cart accumulates
// its quantity.
func (s *CartService) Add(userID, bookID int64, qty int) (*domain.CartItem, error) {
	ci := &domain.CartItem{UserID: userID, BookID: bookID, Quantity: qty}
	if err := s.Carts.Add(ci); err != nil {
		return nil, err
	}
	return ci, nil
}

func (s *CartService) List() ([]domain.CartItem, error) { return s.Carts.List() }

func (s *CartService) Get(id int64) (*domain.CartItem, error) { return s.Carts.Get(id) }

func (s *CartService) UpdateQuantity(id int64, qty int) (*domain.CartItem, error) {
	return s.Carts.UpdateQuantity(id, qty)
}

func (s *CartService) Remove(id int64) error { return s.Carts.Delete(id) }

func (s *CartService) UserCart(userID int64) ([]domain.CartItem, error) {
	return s.Carts.ListByUser(userID)
}

func (s *CartService) ClearUserCart(userID int64) error { return s.Carts.ClearUser(userID) }
