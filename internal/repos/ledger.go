package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"bookery/internal/domain"
)

// adjustStock applies a signed stock delta to one book inside tx. The delta
// is a single UPDATE so two concurrent adjustments never lose a
// read-modify-write race; zero rows affected means the book is gone, which
// aborts the enclosing transaction.
//
// There is deliberately no floor check: order creation may drive stock
// negative, matching the recorded ledger semantics.
func adjustStock(tx *sqlx.Tx, bookID int64, delta int) error {
	res, err := tx.Exec(`UPDATE books SET stock_quantity = stock_quantity + ? WHERE id = ?`, delta, bookID)
	if err != nil {
		return errors.Wrap(err, "adjust stock")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("Book not found")
	}
	return nil
}
