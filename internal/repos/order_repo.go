package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderPatch carries the only fields an order update may touch. Line items
// and stock are immutable after creation.
type OrderPatch struct {
	Status          *string `json:"status"`
	ShippingAddress *string `json:"shipping_address"`
	PaymentMethod   *string `json:"payment_method"`
}

func (r *OrderRepo) List() ([]domain.Order, error) {
	orders := []domain.Order{}
	err := r.db.Select(&orders, `
		SELECT id, user_id, total_amount, status, shipping_address, payment_method, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		details, err := r.details(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Details = details
	}
	return orders, nil
}

func (r *OrderRepo) Get(id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT id, user_id, total_amount, status, shipping_address, payment_method, created_at
		FROM orders WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Order not found")
	}
	if err != nil {
		return nil, err
	}
	details, err := r.details(id)
	if err != nil {
		return nil, err
	}
	o.Details = details
	return &o, nil
}

func (r *OrderRepo) details(orderID int64) ([]domain.OrderDetail, error) {
	details := []domain.OrderDetail{}
	err := r.db.Select(&details, `
		SELECT id, order_id, book_id, quantity, price
		FROM order_details WHERE order_id = ? ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.BookID)
	}
	books, err := booksByID(r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range details {
		if b, ok := books[details[i].BookID]; ok {
			bc := b
			details[i].Book = &bc
		}
	}
	return details, nil
}

// CreateWithDetails inserts the order header, its line items, and one stock
// decrement per item, all in one transaction. The stock decrement runs
// before each line insert so a missing book surfaces as not-found rather
// than a raw constraint failure. Any failure rolls the whole order back.
func (r *OrderRepo) CreateWithDetails(o *domain.Order, items []domain.OrderDetail) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO orders(user_id, total_amount, status, shipping_address, payment_method)
		VALUES(?,?,?,?,?)
	`, o.UserID, o.TotalAmount, o.Status, o.ShippingAddress, o.PaymentMethod)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range items {
		items[i].OrderID = orderID
		if err := adjustStock(tx, items[i].BookID, -items[i].Quantity); err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO order_details(order_id, book_id, quantity, price)
			VALUES(?,?,?,?)
		`, orderID, items[i].BookID, items[i].Quantity, items[i].Price)
		if err != nil {
			return errors.Wrap(err, "insert order detail")
		}
		items[i].ID, _ = res.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}

	o.ID = orderID
	o.Details = items
	var created string
	if err := r.db.Get(&created, `SELECT created_at FROM orders WHERE id = ?`, orderID); err == nil {
		o.CreatedAt = created
	}
	return nil
}

// Update mutates status/shipping_address/payment_method only. The read and
// the write share one transaction so concurrent patches cannot clobber each
// other's fields.
func (r *OrderRepo) Update(id int64, patch OrderPatch) (*domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.Get(&o, `
		SELECT id, user_id, total_amount, status, shipping_address, payment_method, created_at
		FROM orders WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Order not found")
	}
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.ShippingAddress != nil {
		o.ShippingAddress = *patch.ShippingAddress
	}
	if patch.PaymentMethod != nil {
		o.PaymentMethod = *patch.PaymentMethod
	}
	_, err = tx.Exec(`
		UPDATE orders SET status = ?, shipping_address = ?, payment_method = ? WHERE id = ?
	`, o.Status, o.ShippingAddress, o.PaymentMethod, id)
	if err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	details, err := r.details(id)
	if err != nil {
		return nil, err
	}
	o.Details = details
	return &o, nil
}

// DeleteRestoringStock reverses every line item's decrement, then removes
// the line items and the order header, all in one transaction.
func (r *OrderRepo) DeleteRestoringStock(id int64) error {
	var exists int
	if err := r.db.Get(&exists, `SELECT COUNT(*) FROM orders WHERE id = ?`, id); err != nil {
		return err
	}
	if exists == 0 {
		return domain.NotFoundf("Order not found")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	type line struct {
		BookID   int64 `db:"book_id"`
		Quantity int   `db:"quantity"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT book_id, quantity FROM order_details WHERE order_id = ?`, id); err != nil {
		return errors.Wrap(err, "load order details")
	}

	for _, l := range lines {
		if err := adjustStock(tx, l.BookID, +l.Quantity); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM order_details WHERE order_id = ?`, id); err != nil {
		return errors.Wrap(err, "delete order details")
	}
	if _, err := tx.Exec(`DELETE FROM orders WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete order")
	}

	return errors.Wrap(tx.Commit(), "commit")
}
