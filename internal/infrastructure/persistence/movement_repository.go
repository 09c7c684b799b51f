package persistence

import (
	"context"
	"errors"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

var movementOrderColumns = map[string]bool{
	"created_at":   true,
	"occurred_at":  true,
	"product_name": true,
	"quantity":     true,
}

// GormMovementRepository implements ledger.MovementRepository using GORM.
// All movement kinds share one table; the kind column partitions them.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByID finds a movement by kind and ID within a scope
func (r *GormMovementRepository) FindByID(ctx context.Context, scope shared.Scope, kind ledger.MovementKind, id int64) (*ledger.Movement, error) {
	var movement ledger.Movement
	if err := scoped(r.db.WithContext(ctx), scope).First(&movement, "kind = ? AND id = ?", kind, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

func (r *GormMovementRepository) filteredQuery(ctx context.Context, scope shared.Scope, kind ledger.MovementKind, filter shared.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&ledger.Movement{}), scope).Where("kind = ?", kind)
	if filter.Search != "" {
		query = query.Where("product_name LIKE ?", "%"+filter.Search+"%")
	}
	if name, ok := filter.Filters["product_name"]; ok {
		query = query.Where("product_name = ?", name)
	}
	if partyID, ok := filter.Filters["party_id"]; ok {
		query = query.Where("party_id = ?", partyID)
	}
	// Date filters fall back to the record timestamp when no business date
	// was entered.
	if start, ok := filter.Filters["start_date"]; ok {
		query = query.Where("COALESCE(occurred_at, created_at) >= ?", start)
	}
	if end, ok := filter.Filters["end_date"]; ok {
		query = query.Where("COALESCE(occurred_at, created_at) <= ?", end)
	}
	return query
}

// List returns movements of a kind matching the filter
func (r *GormMovementRepository) List(ctx context.Context, scope shared.Scope, kind ledger.MovementKind, filter shared.Filter) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	query := r.filteredQuery(ctx, scope, kind, filter).Order(orderClause(filter, movementOrderColumns))
	if err := paginate(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements of a kind matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, scope shared.Scope, kind ledger.MovementKind, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filteredQuery(ctx, scope, kind, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *ledger.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// Update persists changes to an existing movement
func (r *GormMovementRepository) Update(ctx context.Context, movement *ledger.Movement) error {
	result := r.db.WithContext(ctx).
		Model(movement).
		Where("id = ? AND owner_id = ? AND workspace_id = ? AND kind = ?",
			movement.ID, movement.OwnerID, movement.WorkspaceID, movement.Kind).
		Updates(map[string]interface{}{
			"product_name": movement.ProductName,
			"quantity":     movement.Quantity,
			"party_id":     movement.PartyID,
			"occurred_at":  movement.OccurredAt,
			"total_price":  movement.TotalPrice,
			"note":         movement.Note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a movement
func (r *GormMovementRepository) Delete(ctx context.Context, scope shared.Scope, kind ledger.MovementKind, id int64) error {
	result := scoped(r.db.WithContext(ctx), scope).Delete(&ledger.Movement{}, "kind = ? AND id = ?", kind, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDeleteFailed
	}
	return nil
}

var _ ledger.MovementRepository = (*GormMovementRepository)(nil)
