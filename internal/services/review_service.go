package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
}

func NewReviewService(reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

// Add rejects a second review from the same user for the same book.
func (s *ReviewService) Add(userID, bookID int64, rating int, comment string) (*domain.Review, error) {
	rv := &domain.Review{UserID: userID, BookID: bookID, Rating: rating, Comment: comment}
	if err := s.Reviews.Create(rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) List() ([]domain.Review, error) { return s.Reviews.List() }

func (s *ReviewService) Get(id int64) (*domain.Review, error) { return s.Reviews.Get(id) }

func (s *ReviewService) Update(id int64, rating *int, comment *string) (*domain.Review, error) {
	return s.Reviews.Update(id, rating, comment)
}

func (s *ReviewService) Remove(id int64) error { return s.Reviews.Delete(id) }

func (s *ReviewService) ForBook(bookID int64) ([]domain.Review, error) {
	return s.Reviews.ListByBook(bookID)
}
