package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/agrisale/manager/internal/application/ledger"
	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/agrisale/manager/internal/infrastructure/config"
)

var testScope = shared.Scope{OwnerID: 1, WorkspaceID: 1}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.StorageConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *Database, name, stock string) *ledger.Product {
	t.Helper()
	product, err := ledger.NewProduct(testScope, name, "", dec(stock), ledger.UnitJin, nil)
	require.NoError(t, err)
	repo := NewGormProductRepository(db.DB)
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestGormProductRepository_CRUD(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	product := seedProduct(t, db, "potato", "10")
	require.NotZero(t, product.ID)

	found, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "potato", found.Name)
	assert.True(t, found.Stock.Equal(dec("10")))
	assert.Equal(t, 1, found.Version)

	byName, err := repo.FindByName(ctx, testScope, "potato")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byName.ID)

	_, err = repo.FindByID(ctx, testScope, 9999)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	otherScope := shared.Scope{OwnerID: 2, WorkspaceID: 2}
	_, err = repo.FindByID(ctx, otherScope, product.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	require.NoError(t, repo.Delete(ctx, testScope, product.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, testScope, product.ID), shared.ErrDeleteFailed))
}

func TestGormProductRepository_DuplicateName(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	seedProduct(t, db, "potato", "10")

	dup, err := ledger.NewProduct(testScope, "potato", "", dec("1"), ledger.UnitJin, nil)
	require.NoError(t, err)
	assert.True(t, errors.Is(repo.Create(ctx, dup), shared.ErrDuplicate))

	// Same name in a different workspace is fine
	other, err := ledger.NewProduct(shared.Scope{OwnerID: 1, WorkspaceID: 2}, "potato", "", dec("1"), ledger.UnitJin, nil)
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, other))
}

func TestGormProductRepository_SaveWithVersion(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	product := seedProduct(t, db, "potato", "10")

	fresh, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)
	require.NoError(t, fresh.ApplyDelta(dec("5")))
	require.NoError(t, repo.SaveWithVersion(ctx, fresh))

	reloaded, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Stock.Equal(dec("15")))
	assert.Equal(t, 2, reloaded.Version)
}

func TestGormProductRepository_SaveWithVersion_StaleVersion(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormProductRepository(db.DB)
	ctx := context.Background()

	product := seedProduct(t, db, "potato", "10")

	first, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)

	require.NoError(t, first.ApplyDelta(dec("5")))
	require.NoError(t, repo.SaveWithVersion(ctx, first))

	// The second reader still holds version 1; its save must lose
	require.NoError(t, second.ApplyDelta(dec("-3")))
	err = repo.SaveWithVersion(ctx, second)
	assert.True(t, errors.Is(err, shared.ErrVersionConflict))

	reloaded, err := repo.FindByID(ctx, testScope, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Stock.Equal(dec("15")))
	assert.Equal(t, 2, reloaded.Version)
}

func TestGormMovementRepository_KindPartition(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMovementRepository(db.DB)
	ctx := context.Background()

	purchase, err := ledger.NewMovement(testScope, ledger.MovementPurchase, "potato", dec("10"), nil, nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, purchase))

	sale, err := ledger.NewMovement(testScope, ledger.MovementSale, "potato", dec("3"), nil, nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sale))

	_, err = repo.FindByID(ctx, testScope, ledger.MovementSale, purchase.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	found, err := repo.FindByID(ctx, testScope, ledger.MovementPurchase, purchase.ID)
	require.NoError(t, err)
	assert.True(t, found.Quantity.Equal(dec("10")))

	filter := shared.DefaultFilter()
	sales, err := repo.List(ctx, testScope, ledger.MovementSale, filter)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Quantity.Equal(dec("3")))

	count, err := repo.Count(ctx, testScope, ledger.MovementPurchase, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormMovementRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMovementRepository(db.DB)
	ctx := context.Background()

	movement, err := ledger.NewMovement(testScope, ledger.MovementSale, "potato", dec("3"), nil, nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, movement))

	movement.Quantity = dec("7")
	movement.Note = "corrected"
	require.NoError(t, repo.Update(ctx, movement))

	reloaded, err := repo.FindByID(ctx, testScope, ledger.MovementSale, movement.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Quantity.Equal(dec("7")))
	assert.Equal(t, "corrected", reloaded.Note)

	require.NoError(t, repo.Delete(ctx, testScope, ledger.MovementSale, movement.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, testScope, ledger.MovementSale, movement.ID), shared.ErrDeleteFailed))
}

func TestGormPartyRepository_KindPartition(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormPartyRepository(db.DB)
	ctx := context.Background()

	customer, err := partner.NewParty(testScope, partner.PartyKindCustomer, "wang", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, customer))

	supplier, err := partner.NewParty(testScope, partner.PartyKindSupplier, "wang", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, supplier))

	found, err := repo.FindByName(ctx, testScope, partner.PartyKindCustomer, "wang")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, found.ID)

	_, err = repo.FindByID(ctx, testScope, partner.PartyKindEmployee, customer.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormCashFlowRepository_CRUD(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormCashFlowRepository(db.DB)
	ctx := context.Background()

	flow, err := ledger.NewCashFlow(testScope, ledger.CashFlowIncome, time.Now(), nil, dec("100"), dec("5"), nil, ledger.PaymentCash, "morning sales")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, flow))

	found, err := repo.FindByID(ctx, testScope, ledger.CashFlowIncome, flow.ID)
	require.NoError(t, err)
	assert.True(t, found.Amount.Equal(dec("100")))
	assert.True(t, found.Discount.Equal(dec("5")))

	_, err = repo.FindByID(ctx, testScope, ledger.CashFlowRemittance, flow.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormAuditLogRepository_AppendAndPurge(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormAuditLogRepository(db.DB)
	ctx := context.Background()

	oldSnap := ledger.Snapshot{"stock": "10"}
	newSnap := ledger.Snapshot{"stock": "15"}
	entry, err := ledger.NewAuditLogEntry(testScope, 3, "tester", ledger.OperationUpdate, ledger.EntityProduct, 1, "potato", oldSnap, newSnap, nil, "device-1", "")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, entry))

	found, err := repo.FindByID(ctx, testScope, entry.ID)
	require.NoError(t, err)
	decoded, err := found.DecodeNewData()
	require.NoError(t, err)
	assert.Equal(t, "15", decoded["stock"])
	changes, err := found.DecodeChanges()
	require.NoError(t, err)
	assert.Equal(t, "10", changes["stock"].Old)

	// Nothing is old enough yet
	removed, err := repo.PurgeOlderThan(ctx, testScope, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = repo.PurgeOlderThan(ctx, testScope, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByID(ctx, testScope, entry.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)
	scope := NewGormTransactionScope(db.DB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		product, err := ledger.NewProduct(testScope, "potato", "", dec("10"), ledger.UnitJin, nil)
		if err != nil {
			return err
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	repo := NewGormProductRepository(db.DB)
	_, err = repo.FindByName(ctx, testScope, "potato")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := newTestDatabase(t)
	scope := NewGormTransactionScope(db.DB)
	ctx := context.Background()

	err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		product, err := ledger.NewProduct(testScope, "potato", "", dec("10"), ledger.UnitJin, nil)
		if err != nil {
			return err
		}
		return repos.Products().Create(ctx, product)
	})
	require.NoError(t, err)

	repo := NewGormProductRepository(db.DB)
	found, err := repo.FindByName(ctx, testScope, "potato")
	require.NoError(t, err)
	assert.True(t, found.Stock.Equal(dec("10")))
}
