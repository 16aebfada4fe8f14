package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) List() ([]domain.WishlistItem, error) {
	out := []domain.WishlistItem{}
	if err := r.db.Select(&out, `SELECT id, user_id, book_id, created_at FROM wishlists ORDER BY id`); err != nil {
		return nil, err
	}
	if err := r.attachBooks(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WishlistRepo) Get(id int64) (*domain.WishlistItem, error) {
	var wi domain.WishlistItem
	err := r.db.Get(&wi, `SELECT id, user_id, book_id, created_at FROM wishlists WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Wishlist item not found")
	}
	if err != nil {
		return nil, err
	}
	one := []domain.WishlistItem{wi}
	if err := r.attachBooks(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Add enforces one wishlist entry per user+book.
func (r *WishlistRepo) Add(wi *domain.WishlistItem) error {
	exists, err := r.Contains(wi.UserID, wi.BookID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflictf("Book is already in wishlist")
	}
	res, err := r.db.Exec(`INSERT INTO wishlists(user_id, book_id) VALUES(?,?)`, wi.UserID, wi.BookID)
	if err != nil {
		return errors.Wrap(err, "insert wishlist entry")
	}
	wi.ID, _ = res.LastInsertId()
	return nil
}

func (r *WishlistRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM wishlists WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete wishlist entry")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Wishlist item not found")
	}
	return nil
}

func (r *WishlistRepo) ListByUser(userID int64) ([]domain.WishlistItem, error) {
	out := []domain.WishlistItem{}
	if err := r.db.Select(&out, `SELECT id, user_id, book_id, created_at FROM wishlists WHERE user_id = ? ORDER BY id`, userID); err != nil {
		return nil, err
	}
	if err := r.attachBooks(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WishlistRepo) Contains(userID, bookID int64) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM wishlists WHERE user_id = ? AND book_id = ?`, userID, bookID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *WishlistRepo) attachBooks(items []domain.WishlistItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.BookID)
	}
	books, err := booksByID(r.db, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if b, ok := books[items[i].BookID]; ok {
			bc := b
			items[i].Book = &bc
		}
	}
	return nil
}
