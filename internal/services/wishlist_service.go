package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

type WishlistService struct {
	Repo *repos.WishlistRepo
}

func NewWishlistService(r *repos.WishlistRepo) *WishlistService { return &WishlistService{Repo: r} }

// Save rejects a duplicate user+book entry.
func (s *WishlistService) Save(userID, bookID int64) (*domain.WishlistItem, error) {
	wi := &domain.WishlistItem{UserID: userID, BookID: bookID}
	if err := s.Repo.Add(wi); err != nil {
		return nil, err
	}
	return wi, nil
}

func (s *WishlistService) List() ([]domain.WishlistItem, error) { return s.Repo.List() }

func (s *WishlistService) Get(id int64) (*domain.WishlistItem, error) { return s.Repo.Get(id) }

func (s *WishlistService) Remove(id int64) error { return s.Repo.Delete(id) }

func (s *WishlistService) ForUser(userID int64) ([]domain.WishlistItem, error) {
	return s.Repo.ListByUser(userID)
}

func (s *WishlistService) Contains(userID, bookID int64) (bool, error) {
	return s.Repo.Contains(userID, bookID)
}
