package services

import (
	"bookery/internal/domain"
	"bookery/internal/repos"
)

type CatalogService struct {
	Cats    *repos.CategoryRepo
	Books   *repos.BookRepo
	Details *repos.BookDetailRepo
}

func NewCatalogService(cats *repos.CategoryRepo, books *repos.BookRepo, details *repos.BookDetailRepo) *CatalogService {
	return &CatalogService{Cats: cats, Books: books, Details: details}
}

func (s *CatalogService) ListBooks(q string, categoryID int64, page, pageSize int) ([]repos.BookRow, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Books.List(q, categoryID, pageSize, offset)
}

func (s *CatalogService) GetBook(id int64) (*repos.BookRow, error) { return s.Books.Get(id) }

func (s *CatalogService) CreateBook(b *domain.Book) error { return s.Books.Create(b) }

func (s *CatalogService) UpdateBook(b *domain.Book) error { return s.Books.Update(b) }

func (s *CatalogService) DeleteBook(id int64) error { return s.Books.Delete(id) }

func (s *CatalogService) ListCategories() ([]domain.Category, error) { return s.Cats.List() }

func (s *CatalogService) GetCategory(id int64) (*domain.Category, error) { return s.Cats.Get(id) }

func (s *CatalogService) CreateCategory(c *domain.Category) error { return s.Cats.Create(c) }

func (s *CatalogService) UpdateCategory(c *domain.Category) error { return s.Cats.Update(c) }

// DeleteCategory fails with a conflict while books still reference it.
func (s *CatalogService) DeleteCategory(id int64) error { return s.Cats.Delete(id) }

// CategoryBooks returns the category and the books filed under it.
func (s *CatalogService) CategoryBooks(id int64) (*domain.Category, []domain.Book, error) {
	c, err := s.Cats.Get(id)
	if err != nil {
		return nil, nil, err
	}
	books, err := s.Cats.Books(id)
	if err != nil {
		return nil, nil, err
	}
	return c, books, nil
}

func (s *CatalogService) ListDetails() ([]domain.BookDetail, error) { return s.Details.List() }

func (s *CatalogService) GetDetail(id int64) (*domain.BookDetail, error) { return s.Details.Get(id) }

// DetailForBook looks up a detail record by the owning book rather than its own id.
func (s *CatalogService) DetailForBook(bookID int64) (*domain.BookDetail, error) {
	return s.Details.GetByBook(bookID)
}

// CreateDetail rejects a second detail for a book that already has one.
func (s *CatalogService) CreateDetail(d *domain.BookDetail) error {
	ok, err := s.Books.Exists(d.BookID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundf("Book not found")
	}
	return s.Details.Create(d)
}

func (s *CatalogService) UpdateDetail(id int64, apply func(*domain.BookDetail)) (*domain.BookDetail, error) {
	d, err := s.Details.Get(id)
	if err != nil {
		return nil, err
	}
	apply(d)
	if err := s.Details.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CatalogService) DeleteDetail(id int64) error { return s.Details.Delete(id) }
