package partner

import (
	"context"

	"github.com/agrisale/manager/internal/domain/shared"
)

// PartyRepository provides access to counterparty records within a scope
type PartyRepository interface {
	// FindByID finds a party by ID and kind within a scope
	FindByID(ctx context.Context, scope shared.Scope, kind PartyKind, id int64) (*Party, error)
	// FindByName finds a party by exact name and kind within a scope
	FindByName(ctx context.Context, scope shared.Scope, kind PartyKind, name string) (*Party, error)
	// List returns parties of a kind matching the filter
	List(ctx context.Context, scope shared.Scope, kind PartyKind, filter shared.Filter) ([]Party, error)
	// Count counts parties of a kind matching the filter
	Count(ctx context.Context, scope shared.Scope, kind PartyKind, filter shared.Filter) (int64, error)
	// Create persists a new party
	Create(ctx context.Context, party *Party) error
	// Update persists changes to an existing party
	Update(ctx context.Context, party *Party) error
	// Delete removes a party; ErrDeleteFailed if no row matched
	Delete(ctx context.Context, scope shared.Scope, kind PartyKind, id int64) error
}
