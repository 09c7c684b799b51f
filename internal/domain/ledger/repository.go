package ledger

import (
	"context"
	"time"

	"github.com/agrisale/manager/internal/domain/shared"
)

// ProductRepository provides access to the product ledger within a scope.
// Every row mutation goes through SaveWithVersion; nothing else is allowed
// to write the stock column.
type ProductRepository interface {
	// FindByID finds a product by ID within a scope
	FindByID(ctx context.Context, scope shared.Scope, id int64) (*Product, error)
	// FindByName finds a product by its exact name within a scope
	FindByName(ctx context.Context, scope shared.Scope, name string) (*Product, error)
	// List returns products matching the filter
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]Product, error)
	// Count counts products matching the filter
	Count(ctx context.Context, scope shared.Scope, filter shared.Filter) (int64, error)
	// Create persists a new product; ErrDuplicate on a scoped name collision
	Create(ctx context.Context, product *Product) error
	// SaveWithVersion persists a mutated product through a conditional update
	// on (id, scope, version-1). Zero rows affected means another writer won
	// the race: ErrVersionConflict, and the row is untouched.
	SaveWithVersion(ctx context.Context, product *Product) error
	// Delete removes a product; ErrDeleteFailed if no row matched
	Delete(ctx context.Context, scope shared.Scope, id int64) error
}

// MovementRepository provides access to movement records within a scope
type MovementRepository interface {
	// FindByID finds a movement by kind and ID within a scope
	FindByID(ctx context.Context, scope shared.Scope, kind MovementKind, id int64) (*Movement, error)
	// List returns movements of a kind matching the filter
	List(ctx context.Context, scope shared.Scope, kind MovementKind, filter shared.Filter) ([]Movement, error)
	// Count counts movements of a kind matching the filter
	Count(ctx context.Context, scope shared.Scope, kind MovementKind, filter shared.Filter) (int64, error)
	// Create persists a new movement
	Create(ctx context.Context, movement *Movement) error
	// Update persists changes to an existing movement
	Update(ctx context.Context, movement *Movement) error
	// Delete removes a movement; ErrDeleteFailed if no row matched
	Delete(ctx context.Context, scope shared.Scope, kind MovementKind, id int64) error
}

// CashFlowRepository provides access to income/remittance records
type CashFlowRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, kind CashFlowKind, id int64) (*CashFlow, error)
	List(ctx context.Context, scope shared.Scope, kind CashFlowKind, filter shared.Filter) ([]CashFlow, error)
	Count(ctx context.Context, scope shared.Scope, kind CashFlowKind, filter shared.Filter) (int64, error)
	Create(ctx context.Context, flow *CashFlow) error
	Update(ctx context.Context, flow *CashFlow) error
	Delete(ctx context.Context, scope shared.Scope, kind CashFlowKind, id int64) error
}

// AuditLogRepository is the append-only store for the audit trail
type AuditLogRepository interface {
	// Append persists a new entry
	Append(ctx context.Context, entry *AuditLogEntry) error
	// FindByID finds an entry within a scope
	FindByID(ctx context.Context, scope shared.Scope, id int64) (*AuditLogEntry, error)
	// List returns entries matching the filter, newest first
	List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]AuditLogEntry, error)
	// Count counts entries matching the filter
	Count(ctx context.Context, scope shared.Scope, filter shared.Filter) (int64, error)
	// PurgeOlderThan deletes entries recorded before the cutoff and returns
	// how many were removed
	PurgeOlderThan(ctx context.Context, scope shared.Scope, cutoff time.Time) (int64, error)
}
