package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

// BookRow is a book joined with its category name, the shape list and show
// endpoints serve.
type BookRow struct {
	domain.Book
	Category *string `db:"category_name" json:"category,omitempty"`
}

func (r *BookRepo) List(q string, categoryID int64, limit, offset int) ([]BookRow, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(b.title) LIKE ? OR LOWER(b.author) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if categoryID > 0 {
		where += ` AND b.category_id = ?`
		args = append(args, categoryID)
	}

	query := `
	  SELECT
	    b.id, b.category_id, b.title, b.author, b.price, b.stock_quantity, b.image,
	    b.created_at, c.name AS category_name
	  FROM books b
	  LEFT JOIN categories c ON c.id = b.category_id
	  WHERE ` + where + `
	  ORDER BY b.created_at DESC, b.id DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []BookRow{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *BookRepo) Get(id int64) (*BookRow, error) {
	var b BookRow
	err := r.db.Get(&b, `
	  SELECT
	    b.id, b.category_id, b.title, b.author, b.price, b.stock_quantity, b.image,
	    b.created_at, c.name AS category_name
	  FROM books b
	  LEFT JOIN categories c ON c.id = b.category_id
	  WHERE b.id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Book not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Exists(id int64) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM books WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BookRepo) Create(b *domain.Book) error {
	res, err := r.db.Exec(`
		INSERT INTO books(category_id, title, author, price, stock_quantity, image)
		VALUES(?,?,?,?,?,?)
	`, b.CategoryID, b.Title, b.Author, b.Price, b.StockQuantity, b.Image)
	if err != nil {
		return errors.Wrap(err, "insert book")
	}
	b.ID, _ = res.LastInsertId()
	return nil
}

func (r *BookRepo) Update(b *domain.Book) error {
	res, err := r.db.Exec(`
		UPDATE books SET category_id = ?, title = ?, author = ?, price = ?, stock_quantity = ?, image = ?
		WHERE id = ?
	`, b.CategoryID, b.Title, b.Author, b.Price, b.StockQuantity, b.Image, b.ID)
	if err != nil {
		return errors.Wrap(err, "update book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Book not found")
	}
	return nil
}

// Delete refuses to remove a book that ledger or catalog records still
// reference, so history stays auditable.
func (r *BookRepo) Delete(id int64) error {
	var refs int
	err := r.db.Get(&refs, `
		SELECT (SELECT COUNT(*) FROM order_details WHERE book_id = ?)
		     + (SELECT COUNT(*) FROM purchases WHERE book_id = ?)
		     + (SELECT COUNT(*) FROM carts WHERE book_id = ?)
	`, id, id, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.Conflictf("Cannot delete book with associated records")
	}
	res, err := r.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Book not found")
	}
	return nil
}

// booksByID loads the named books keyed by id; shared by the repos that
// embed a book into their responses.
func booksByID(db *sqlx.DB, ids []int64) (map[int64]domain.Book, error) {
	out := map[int64]domain.Book{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, category_id, title, author, price, stock_quantity, image, created_at
		FROM books WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, err
	}
	var books []domain.Book
	if err := db.Select(&books, query, args...); err != nil {
		return nil, err
	}
	for _, b := range books {
		out[b.ID] = b
	}
	return out, nil
}
