package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) List() ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
		SELECT id, user_id, book_id, rating, comment, created_at
		FROM reviews ORDER BY datetime(created_at) DESC, id DESC
	`)
	return out, err
}

func (r *ReviewRepo) Get(id int64) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.Get(&rv, `SELECT id, user_id, book_id, rating, comment, created_at FROM reviews WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Review not found")
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create enforces one review per user+book.
func (r *ReviewRepo) Create(rv *domain.Review) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM reviews WHERE user_id = ? AND book_id = ?`, rv.UserID, rv.BookID); err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflictf("You have already reviewed this book")
	}
	res, err := r.db.Exec(`
		INSERT INTO reviews(user_id, book_id, rating, comment) VALUES(?,?,?,?)
	`, rv.UserID, rv.BookID, rv.Rating, rv.Comment)
	if err != nil {
		return errors.Wrap(err, "insert review")
	}
	rv.ID, _ = res.LastInsertId()
	return nil
}

func (r *ReviewRepo) Update(id int64, rating *int, comment *string) (*domain.Review, error) {
	rv, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		rv.Rating = *rating
	}
	if comment != nil {
		rv.Comment = *comment
	}
	if _, err := r.db.Exec(`UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`, rv.Rating, rv.Comment, id); err != nil {
		return nil, errors.Wrap(err, "update review")
	}
	return rv, nil
}

func (r *ReviewRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete review")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Review not found")
	}
	return nil
}

func (r *ReviewRepo) ListByBook(bookID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
		SELECT id, user_id, book_id, rating, comment, created_at
		FROM reviews WHERE book_id = ? ORDER BY datetime(created_at) DESC, id DESC
	`, bookID)
	return out, err
}
