package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT id, name, description, image, created_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Get(id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, description, image, created_at FROM categories WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("Category not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	res, err := r.db.Exec(`
		INSERT INTO categories(name, description, image) VALUES(?,?,?)
	`, c.Name, c.Description, c.Image)
	if err != nil {
		return errors.Wrap(err, "insert category")
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func (r *CategoryRepo) Update(c *domain.Category) error {
	res, err := r.db.Exec(`
		UPDATE categories SET name = ?, description = ?, image = ? WHERE id = ?
	`, c.Name, c.Description, c.Image, c.ID)
	if err != nil {
		return errors.Wrap(err, "update category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Category not found")
	}
	return nil
}

// Delete refuses to remove a category while any book references it.
func (r *CategoryRepo) Delete(id int64) error {
	var books int
	if err := r.db.Get(&books, `SELECT COUNT(*) FROM books WHERE category_id = ?`, id); err != nil {
		return err
	}
	if books > 0 {
		return domain.Conflictf("Cannot delete category with associated books")
	}
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Category not found")
	}
	return nil
}

// Books lists the books filed under a category.
func (r *CategoryRepo) Books(id int64) ([]domain.Book, error) {
	out := []domain.Book{}
	err := r.db.Select(&out, `
	  SELECT id, category_id, title, author, price, stock_quantity, image, created_at
	  FROM books WHERE category_id = ? ORDER BY title
	`, id)
	return out, err
}
