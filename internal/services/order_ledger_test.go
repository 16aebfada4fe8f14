package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"bookery/internal/domain"
	"bookery/internal/repos"
	"bookery/internal/services"
)

// openSeeded gives each test a fresh in-memory store with the demo catalog:
// book 1 starts at 14 in stock, book 2 at 9, book 3 at 6, book 4 at 4, and
// user 1 is the seeded reader account.
func openSeeded(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stockOf(t *testing.T, db *sqlx.DB, bookID int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT stock_quantity FROM books WHERE id = ?`, bookID))
	return n
}

func newOrderService(db *sqlx.DB) *services.OrderService {
	return services.NewOrderService(repos.NewOrderRepo(db))
}

func TestOrderCreateDecrementsEveryLine(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	o, err := svc.Create(services.OrderInput{
		UserID:          1,
		TotalAmount:     43.98,
		ShippingAddress: "1 Library Lane",
		PaymentMethod:   "card",
		Lines: []services.OrderLine{
			{BookID: 1, Quantity: 2, Price: 12.99},
			{BookID: 3, Quantity: 1, Price: 18.00},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Len(t, o.Details, 2)

	assert.Equal(t, 12, stockOf(t, db, 1))
	assert.Equal(t, 5, stockOf(t, db, 3))
}

func TestOrderCreateUnknownBookRollsBackWholeOrder(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	_, err := svc.Create(services.OrderInput{
		UserID:      1,
		TotalAmount: 99,
		Lines: []services.OrderLine{
			{BookID: 1, Quantity: 2, Price: 12.99},
			{BookID: 999, Quantity: 1, Price: 5},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The valid first line must not have left a partial decrement behind.
	assert.Equal(t, 14, stockOf(t, db, 1))

	var orders, lines int
	require.NoError(t, db.Get(&orders, `SELECT COUNT(*) FROM orders`))
	require.NoError(t, db.Get(&lines, `SELECT COUNT(*) FROM order_details`))
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestOrderDeleteRestoresStockAndRemovesLines(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	o, err := svc.Create(services.OrderInput{
		UserID:      1,
		TotalAmount: 43.50,
		Lines:       []services.OrderLine{{BookID: 2, Quantity: 3, Price: 14.50}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, 2))

	require.NoError(t, svc.Delete(o.ID))
	assert.Equal(t, 9, stockOf(t, db, 2))

	_, err = svc.Get(o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var lines int
	require.NoError(t, db.Get(&lines, `SELECT COUNT(*) FROM order_details WHERE order_id = ?`, o.ID))
	assert.Zero(t, lines)
}

func TestOrderDeleteUnknownIsNotFound(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	err := svc.Delete(4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderUpdateNeverTouchesStock(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	o, err := svc.Create(services.OrderInput{
		UserID:      1,
		TotalAmount: 21.75,
		Lines:       []services.OrderLine{{BookID: 4, Quantity: 1, Price: 21.75}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, db, 4))

	shipped := domain.OrderShipped
	addr := "2 Archive Ave"
	got, err := svc.Update(o.ID, repos.OrderPatch{Status: &shipped, ShippingAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, got.Status)
	assert.Equal(t, addr, got.ShippingAddress)

	// Line items are immutable after creation, so stock stays where the
	// create left it.
	assert.Equal(t, 3, stockOf(t, db, 4))
	assert.Len(t, got.Details, 1)
	assert.Equal(t, 1, got.Details[0].Quantity)
}

func TestOrderUpdatePartialPatchesAccumulate(t *testing.T) {
	db := openSeeded(t)
	svc := newOrderService(db)

	o, err := svc.Create(services.OrderInput{
		UserID:          1,
		TotalAmount:     12.99,
		ShippingAddress: "1 Library Lane",
		PaymentMethod:   "card",
		Lines:           []services.OrderLine{{BookID: 1, Quantity: 1, Price: 12.99}},
	})
	require.NoError(t, err)

	shipped := domain.OrderShipped
	_, err = svc.Update(o.ID, repos.OrderPatch{Status: &shipped})
	require.NoError(t, err)

	addr := "2 Archive Ave"
	got, err := svc.Update(o.ID, repos.OrderPatch{ShippingAddress: &addr})
	require.NoError(t, err)

	// The second patch left the other fields alone, so the status change
	// from the first patch is still there.
	assert.Equal(t, domain.OrderShipped, got.Status)
	assert.Equal(t, addr, got.ShippingAddress)
	assert.Equal(t, "card", got.PaymentMethod)

	_, err = svc.Update(9999, repos.OrderPatch{Status: &shipped})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Stock must always equal the seeded baseline plus every purchase minus
// every order line, whatever sequence produced the current state.
func TestStockMatchesLedgerAfterMixedSequence(t *testing.T) {
	db := openSeeded(t)
	orderSvc := newOrderService(db)
	purchSvc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	o1, err := orderSvc.Create(services.OrderInput{
		UserID:      1,
		TotalAmount: 55.48,
		Lines: []services.OrderLine{
			{BookID: 1, Quantity: 2, Price: 12.99},
			{BookID: 2, Quantity: 2, Price: 14.50},
		},
	})
	require.NoError(t, err)

	p1, err := purchSvc.Create(services.PurchaseInput{BookID: 1, Quantity: 10, UnitPrice: 6.50, PaymentMethod: "invoice"})
	require.NoError(t, err)

	_, err = orderSvc.Create(services.OrderInput{
		UserID:      1,
		TotalAmount: 12.99,
		Lines:       []services.OrderLine{{BookID: 1, Quantity: 1, Price: 12.99}},
	})
	require.NoError(t, err)

	newQty := 7
	_, err = purchSvc.Update(p1.ID, repos.PurchasePatch{Quantity: &newQty})
	require.NoError(t, err)

	require.NoError(t, orderSvc.Delete(o1.ID))

	baseline := map[int64]int{1: 14, 2: 9, 3: 6, 4: 4}
	for bookID, base := range baseline {
		var purchased, ordered int
		require.NoError(t, db.Get(&purchased,
			`SELECT COALESCE(SUM(quantity),0) FROM purchases WHERE book_id = ?`, bookID))
		require.NoError(t, db.Get(&ordered,
			`SELECT COALESCE(SUM(quantity),0) FROM order_details WHERE book_id = ?`, bookID))
		assert.Equalf(t, base+purchased-ordered, stockOf(t, db, bookID),
			"book %d stock out of step with its ledger", bookID)
	}
	// Spot-check the arithmetic: 14 +7 restocked -1 still ordered = 20.
	assert.Equal(t, 20, stockOf(t, db, 1))
}
