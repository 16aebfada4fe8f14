package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) List() ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	if err := r.db.Select(&out, `SELECT id, user_id, book_id, quantity FROM carts ORDER BY id`); err != nil {
		return nil, err
	}
	if err := r.attachBooks(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepo) Get(id int64) (*domain.CartItem, error) {
	var ci domain.CartItem
	err := r.db.Get(&ci, `SELECT id, user_id, book_id, quantity FROM carts WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Cart item not found")
	}
	if err != nil {
		return nil, err
	}
	one := []domain.CartItem{ci}
	if err := r.attachBooks(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Add upserts a cart line: an existing user+book line accumulates quantity.
func (r *CartRepo) Add(ci *domain.CartItem) error {
	_, err := r.db.Exec(`
		INSERT INTO carts(user_id, book_id, quantity) VALUES(?,?,?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET quantity = quantity + excluded.quantity
	`, ci.UserID, ci.BookID, ci.Quantity)
	if err != nil {
		return errors.Wrap(err, "upsert cart line")
	}
	return r.db.Get(ci, `SELECT id, user_id, book_id, quantity FROM carts WHERE user_id = ? AND book_id = ?`,
		ci.UserID, ci.BookID)
}

func (r *CartRepo) UpdateQuantity(id int64, quantity int) (*domain.CartItem, error) {
	res, err := r.db.Exec(`UPDATE carts SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return nil, errors.Wrap(err, "update cart line")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.NotFoundf("Cart item not found")
	}
	return r.Get(id)
}

func (r *CartRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM carts WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete cart line")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Cart item not found")
	}
	return nil
}

func (r *CartRepo) ListByUser(userID int64) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	if err := r.db.Select(&out, `SELECT id, user_id, book_id, quantity FROM carts WHERE user_id = ? ORDER BY id`, userID); err != nil {
		return nil, err
	}
	if err := r.attachBooks(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepo) ClearUser(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id = ?`, userID)
	return err
}

func (r *CartRepo) attachBooks(items []domain.CartItem) error {
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
