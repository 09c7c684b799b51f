package persistence

import (
	"context"

	appledger "github.com/agrisale/manager/internal/application/ledger"
	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{db: tx})
	})
}

// NewRepositories returns the repository set backed by the connection pool,
// outside any transaction. Read paths and best-effort audit writes use it.
func NewRepositories(db *gorm.DB) appledger.TransactionalRepositories {
	return &gormRepositories{db: db}
}

// gormRepositories provides access to all repositories over one gorm.DB,
// which is either a transaction handle or the pool.
type gormRepositories struct {
	db *gorm.DB
}

// Products returns the product repository.
func (r *gormRepositories) Products() ledger.ProductRepository {
	return NewGormProductRepository(r.db)
}

// Movements returns the movement repository.
func (r *gormRepositories) Movements() ledger.MovementRepository {
	return NewGormMovementRepository(r.db)
}

// CashFlows returns the cash flow repository.
func (r *gormRepositories) CashFlows() ledger.CashFlowRepository {
	return NewGormCashFlowRepository(r.db)
}

// Parties returns the party repository.
func (r *gormRepositories) Parties() partner.PartyRepository {
	return NewGormPartyRepository(r.db)
}

// AuditLogs returns the audit log repository.
func (r *gormRepositories) AuditLogs() ledger.AuditLogRepository {
	return NewGormAuditLogRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormRepositories)(nil)
