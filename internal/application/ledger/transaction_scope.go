package ledger

import (
	"context"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically. Stock-affecting mutations depend on this: the
// version-guarded product update, the movement row and the audit entry land
// together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within
// a transaction. All repositories returned share the same underlying database
// transaction. The same interface doubles as the non-transactional accessor
// for read paths, backed by the connection pool instead of a transaction.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() ledger.ProductRepository
	// Movements returns the movement repository scoped to the current transaction
	Movements() ledger.MovementRepository
	// CashFlows returns the cash flow repository scoped to the current transaction
	CashFlows() ledger.CashFlowRepository
	// Parties returns the party repository scoped to the current transaction
	Parties() partner.PartyRepository
	// AuditLogs returns the audit log repository scoped to the current transaction
	AuditLogs() ledger.AuditLogRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing with fake repositories.
type NoOpTransactionScope struct {
	products  ledger.ProductRepository
	movements ledger.MovementRepository
	cashFlows ledger.CashFlowRepository
	parties   partner.PartyRepository
	auditLogs ledger.AuditLogRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	products ledger.ProductRepository,
	movements ledger.MovementRepository,
	cashFlows ledger.CashFlowRepository,
	parties partner.PartyRepository,
	auditLogs ledger.AuditLogRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products:  products,
		movements: movements,
		cashFlows: cashFlows,
		parties:   parties,
		auditLogs: auditLogs,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() ledger.ProductRepository { return s.products }

// Movements returns the movement repository.
func (s *NoOpTransactionScope) Movements() ledger.MovementRepository { return s.movements }

// CashFlows returns the cash flow repository.
func (s *NoOpTransactionScope) CashFlows() ledger.CashFlowRepository { return s.cashFlows }

// Parties returns the party repository.
func (s *NoOpTransactionScope) Parties() partner.PartyRepository { return s.parties }

// AuditLogs returns the audit log repository.
func (s *NoOpTransactionScope) AuditLogs() ledger.AuditLogRepository { return s.auditLogs }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
