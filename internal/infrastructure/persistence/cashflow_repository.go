package persistence

import (
	"context"
	"errors"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

var cashFlowOrderColumns = map[string]bool{
	"created_at":  true,
	"occurred_at": true,
	"amount":      true,
}

// GormCashFlowRepository implements ledger.CashFlowRepository using GORM.
// Income and remittance records share one table, partitioned by kind.
type GormCashFlowRepository struct {
	db *gorm.DB
}

// NewGormCashFlowRepository creates a new GormCashFlowRepository
func NewGormCashFlowRepository(db *gorm.DB) *GormCashFlowRepository {
	return &GormCashFlowRepository{db: db}
}

// FindByID finds a cash flow by kind and ID within a scope
func (r *GormCashFlowRepository) FindByID(ctx context.Context, scope shared.Scope, kind ledger.CashFlowKind, id int64) (*ledger.CashFlow, error) {
	var flow ledger.CashFlow
	if err := scoped(r.db.WithContext(ctx), scope).First(&flow, "kind = ? AND id = ?", kind, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &flow, nil
}

func (r *GormCashFlowRepository) filteredQuery(ctx context.Context, scope shared.Scope, kind ledger.CashFlowKind, filter shared.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&ledger.CashFlow{}), scope).Where("kind = ?", kind)
	if filter.Search != "" {
		query = query.Where("note LIKE ?", "%"+filter.Search+"%")
	}
	if partyID, ok := filter.Filters["party_id"]; ok {
		query = query.Where("party_id = ?", partyID)
	}
	if start, ok := filter.Filters["start_date"]; ok {
		query = query.Where("occurred_at >= ?", start)
	}
	if end, ok := filter.Filters["end_date"]; ok {
		query = query.Where("occurred_at <= ?", end)
	}
	return query
}

// List returns cash flows of a kind matching the filter
func (r *GormCashFlowRepository) List(ctx context.Context, scope shared.Scope, kind ledger.CashFlowKind, filter shared.Filter) ([]ledger.CashFlow, error) {
	var flows []ledger.CashFlow
	query := r.filteredQuery(ctx, scope, kind, filter).Order(orderClause(filter, cashFlowOrderColumns))
	if err := paginate(query, filter).Find(&flows).Error; err != nil {
		return nil, err
	}
	return flows, nil
}

// Count counts cash flows of a kind matching the filter
func (r *GormCashFlowRepository) Count(ctx context.Context, scope shared.Scope, kind ledger.CashFlowKind, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filteredQuery(ctx, scope, kind, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new cash flow
func (r *GormCashFlowRepository) Create(ctx context.Context, flow *ledger.CashFlow) error {
	return r.db.WithContext(ctx).Create(flow).Error
}

// Update persists changes to an existing cash flow
func (r *GormCashFlowRepository) Update(ctx context.Context, flow *ledger.CashFlow) error {
	result := r.db.WithContext(ctx).
		Model(flow).
		Where("id = ? AND owner_id = ? AND workspace_id = ? AND kind = ?",
			flow.ID, flow.OwnerID, flow.WorkspaceID, flow.Kind).
		Updates(map[string]interface{}{
			"occurred_at":    flow.OccurredAt,
			"party_id":       flow.PartyID,
			"amount":         flow.Amount,
			"discount":       flow.Discount,
			"employee_id":    flow.EmployeeID,
			"payment_method": flow.PaymentMethod,
			"note":           flow.Note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a cash flow
func (r *GormCashFlowRepository) Delete(ctx context.Context, scope shared.Scope, kind ledger.CashFlowKind, id int64) error {
	result := scoped(r.db.WithContext(ctx), scope).Delete(&ledger.CashFlow{}, "kind = ? AND id = ?", kind, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDeleteFailed
	}
	return nil
}

var _ ledger.CashFlowRepository = (*GormCashFlowRepository)(nil)
