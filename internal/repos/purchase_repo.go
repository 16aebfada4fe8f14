package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type PurchaseRepo struct{ db *sqlx.DB }

func NewPurchaseRepo(db *sqlx.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

type PurchasePatch struct {
	BookID        *int64   `json:"book_id"`
	Quantity      *int     `json:"quantity"`
	UnitPrice     *float64 `json:"unit_price"`
	PaymentMethod *string  `json:"payment_method"`
}

func (r *PurchaseRepo) List() ([]domain.Purchase, error) {
	out := []domain.Purchase{}
	err := r.db.Select(&out, `
		SELECT id, book_id, quantity, unit_price, payment_method, created_at
		FROM purchases ORDER BY datetime(created_at) DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	if err := r.attachBooks(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PurchaseRepo) Get(id int64) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.Get(&p, `
		SELECT id, book_id, quantity, unit_price, payment_method, created_at
		FROM purchases WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Purchase not found")
	}
	if err != nil {
		return nil, err
	}
	one := []domain.Purchase{p}
	if err := r.attachBooks(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *PurchaseRepo) attachBooks(ps []domain.Purchase) error {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.BookID)
	}
	books, err := booksByID(r.db, ids)
	if err != nil {
		return err
	}
	for i := range ps {
		if b, ok := books[ps[i].BookID]; ok {
			bc := b
			ps[i].Book = &bc
		}
	}
	return nil
}

// CreateRestock inserts the purchase row and raises the book's stock by the
// purchased quantity in one transaction. The stock increment runs first so
// a missing book surfaces as not-found rather than a raw constraint failure.
func (r *PurchaseRepo) CreateRestock(p *domain.Purchase) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if err := adjustStock(tx, p.BookID, +p.Quantity); err != nil {
		return err
	}
	res, err := tx.Exec(`
		INSERT INTO purchases(book_id, quantity, unit_price, payment_method)
		VALUES(?,?,?,?)
	`, p.BookID, p.Quantity, p.UnitPrice, p.PaymentMethod)
	if err != nil {
		return errors.Wrap(err, "insert purchase")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}

	p.ID, _ = res.LastInsertId()
	var created string
	if err := r.db.Get(&created, `SELECT created_at FROM purchases WHERE id = ?`, p.ID); err == nil {
		p.CreatedAt = created
	}
	return nil
}

// UpdateReconciling persists field changes and, when the book or the
// quantity changed, reconciles stock as an explicit reverse-then-apply:
// the original book loses the original quantity, then the target book
// (the new book when it changed, the same one otherwise) gains the new
// quantity. Everything happens in one transaction; stock untouched when
// neither book nor quantity changes.
func (r *PurchaseRepo) UpdateReconciling(id int64, patch PurchasePatch) (*domain.Purchase, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	var cur domain.Purchase
	err = tx.Get(&cur, `
		SELECT id, book_id, quantity, unit_price, payment_method, created_at
		FROM purchases WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Purchase not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load purchase")
	}

	next := cur
	if patch.BookID != nil {
		next.BookID = *patch.BookID
	}
	if patch.Quantity != nil {
		next.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		next.UnitPrice = *patch.UnitPrice
	}
	if patch.PaymentMethod != nil {
		next.PaymentMethod = *patch.PaymentMethod
	}

	if next.BookID != cur.BookID || next.Quantity != cur.Quantity {
		// Reverse the original effect, then apply the new one. For a
		// same-book quantity change the two steps net out to the delta.
		if err := adjustStock(tx, cur.BookID, -cur.Quantity); err != nil {
			return nil, err
		}
		if err := adjustStock(tx, next.BookID, +next.Quantity); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(`
		UPDATE purchases SET book_id = ?, quantity = ?, unit_price = ?, payment_method = ?
		WHERE id = ?
	`, next.BookID, next.Quantity, next.UnitPrice, next.PaymentMethod, id)
	if err != nil {
		return nil, errors.Wrap(err, "update purchase")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return &next, nil
}

// DeleteRevertingStock removes the purchase and takes its quantity back out
// of the book's stock in one transaction.
func (r *PurchaseRepo) DeleteRevertingStock(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	var cur domain.Purchase
	err = tx.Get(&cur, `SELECT id, book_id, quantity FROM purchases WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.NotFoundf("Purchase not found")
	}
	if err != nil {
		return errors.Wrap(err, "load purchase")
	}

	if err := adjustStock(tx, cur.BookID, -cur.Quantity); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM purchases WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete purchase")
	}

	return errors.Wrap(tx.Commit(), "commit")
}
