package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type BookDetailRepo struct{ db *sqlx.DB }

func NewBookDetailRepo(db *sqlx.DB) *BookDetailRepo { return &BookDetailRepo{db: db} }

const bookDetailCols = `id, book_id, isbn10, isbn13, publisher, publish_year,
	edition, page_count, language, COALESCE(format,'') AS format, dimensions, weight, description`

func (r *BookDetailRepo) List() ([]domain.BookDetail, error) {
	out := []domain.BookDetail{}
	err := r.db.Select(&out, `SELECT `+bookDetailCols+` FROM book_details ORDER BY id`)
	return out, err
}

func (r *BookDetailRepo) Get(id int64) (*domain.BookDetail, error) {
	var d domain.BookDetail
	err := r.db.Get(&d, `SELECT `+bookDetailCols+` FROM book_details WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Book detail not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *BookDetailRepo) GetByBook(bookID int64) (*domain.BookDetail, error) {
	var d domain.BookDetail
	err := r.db.Get(&d, `SELECT `+bookDetailCols+` FROM book_details WHERE book_id = ?`, bookID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Book detail not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create enforces the one-detail-per-book rule up front so callers get a
// conflict rather than a bare constraint error.
func (r *BookDetailRepo) Create(d *domain.BookDetail) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM book_details WHERE book_id = ?`, d.BookID); err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflictf("Book already has a detail record")
	}
	res, err := r.db.Exec(`
		INSERT INTO book_details(book_id, isbn10, isbn13, publisher, publish_year,
			edition, page_count, language, format, dimensions, weight, description)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	`, d.BookID, d.ISBN10, d.ISBN13, d.Publisher, d.PublishYear,
		d.Edition, d.PageCount, d.Language, nullIfEmpty(d.Format), d.Dimensions, d.Weight, d.Description)
	if err != nil {
		return errors.Wrap(err, "insert book detail")
	}
	d.ID, _ = res.LastInsertId()
	return nil
}

func (r *BookDetailRepo) Update(d *domain.BookDetail) error {
	// Re-pointing the detail at a book that already has one is a conflict.
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM book_details WHERE book_id = ? AND id != ?`, d.BookID, d.ID); err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflictf("Book already has a detail record")
	}
	res, err := r.db.Exec(`
		UPDATE book_details SET book_id = ?, isbn10 = ?, isbn13 = ?, publisher = ?,
			publish_year = ?, edition = ?, page_count = ?, language = ?, format = ?,
			dimensions = ?, weight = ?, description = ?
		WHERE id = ?
	`, d.BookID, d.ISBN10, d.ISBN13, d.Publisher, d.PublishYear, d.Edition,
		d.PageCount, d.Language, nullIfEmpty(d.Format), d.Dimensions, d.Weight, d.Description, d.ID)
	if err != nil {
		return errors.Wrap(err, "update book detail")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NotFoundf("Book detail not found")
	}
	return nil
}

func (r *BookDetailRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM book_details WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete book detail")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Book detail not found")
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
