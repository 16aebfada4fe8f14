package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookery/internal/domain"
	"bookery/internal/repos"
	"bookery/internal/services"
)

func TestPurchaseCreateRaisesStock(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 2, Quantity: 5, UnitPrice: 7.25, PaymentMethod: "invoice"})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	assert.Equal(t, 14, stockOf(t, db, 2))
}

func TestPurchaseCreateUnknownBookRollsBack(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	_, err := svc.Create(services.PurchaseInput{BookID: 999, Quantity: 5, UnitPrice: 7.25})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM purchases`))
	assert.Zero(t, n)
}

func TestPurchaseDeleteRevertsStock(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 2, Quantity: 5, UnitPrice: 7.25})
	require.NoError(t, err)
	require.Equal(t, 14, stockOf(t, db, 2))

	require.NoError(t, svc.Delete(p.ID))
	assert.Equal(t, 9, stockOf(t, db, 2))

	_, err = svc.Get(p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseUpdateQuantityNetsTheDelta(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 1, Quantity: 5, UnitPrice: 6.50})
	require.NoError(t, err)
	require.Equal(t, 19, stockOf(t, db, 1))

	qty := 8
	got, err := svc.Update(p.ID, repos.PurchasePatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)

	// Reverse 5, apply 8: the book nets +3 on top of the first restock.
	assert.Equal(t, 22, stockOf(t, db, 1))
}

func TestPurchaseUpdateMovesStockBetweenBooks(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 3, Quantity: 4, UnitPrice: 9.00})
	require.NoError(t, err)
	require.Equal(t, 10, stockOf(t, db, 3))

	target := int64(4)
	got, err := svc.Update(p.ID, repos.PurchasePatch{BookID: &target})
	require.NoError(t, err)
	assert.Equal(t, target, got.BookID)
	assert.Equal(t, 4, got.Quantity)

	// The original book gives its 4 units back; the new book gains them.
	assert.Equal(t, 6, stockOf(t, db, 3))
	assert.Equal(t, 8, stockOf(t, db, 4))
}

func TestPurchaseUpdatePriceOnlyLeavesStockAlone(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 4, Quantity: 2, UnitPrice: 11.00})
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, 4))

	price := 12.50
	method := "wire"
	got, err := svc.Update(p.ID, repos.PurchasePatch{UnitPrice: &price, PaymentMethod: &method})
	require.NoError(t, err)
	assert.Equal(t, 12.50, got.UnitPrice)
	assert.Equal(t, "wire", got.PaymentMethod)

	assert.Equal(t, 6, stockOf(t, db, 4))
}

func TestPurchaseUpdateUnknownTargetRollsBack(t *testing.T) {
	db := openSeeded(t)
	svc := services.NewPurchaseService(repos.NewPurchaseRepo(db))

	p, err := svc.Create(services.PurchaseInput{BookID: 3, Quantity: 4, UnitPrice: 9.00})
	require.NoError(t, err)
	require.Equal(t, 10, stockOf(t, db, 3))

	missing := int64(999)
	_, err = svc.Update(p.ID, repos.PurchasePatch{BookID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The reverse step must not stick when the apply step fails.
	assert.Equal(t, 10, stockOf(t, db, 3))

	got, err := svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.BookID)
	assert.Equal(t, 4, got.Quantity)
}
