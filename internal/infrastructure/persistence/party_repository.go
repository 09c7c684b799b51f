package persistence

import (
	"context"
	"errors"

	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

var partyOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// GormPartyRepository implements partner.PartyRepository using GORM.
// Customers, suppliers and employees share one table, partitioned by kind.
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by ID and kind within a scope
func (r *GormPartyRepository) FindByID(ctx context.Context, scope shared.Scope, kind partner.PartyKind, id int64) (*partner.Party, error) {
	var party partner.Party
	if err := scoped(r.db.WithContext(ctx), scope).First(&party, "kind = ? AND id = ?", kind, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

// FindByName finds a party by exact name and kind within a scope
func (r *GormPartyRepository) FindByName(ctx context.Context, scope shared.Scope, kind partner.PartyKind, name string) (*partner.Party, error) {
	var party partner.Party
	if err := scoped(r.db.WithContext(ctx), scope).First(&party, "kind = ? AND name = ?", kind, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

func (r *GormPartyRepository) filteredQuery(ctx context.Context, scope shared.Scope, kind partner.PartyKind, filter shared.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&partner.Party{}), scope).Where("kind = ?", kind)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// List returns parties of a kind matching the filter
func (r *GormPartyRepository) List(ctx context.Context, scope shared.Scope, kind partner.PartyKind, filter shared.Filter) ([]partner.Party, error) {
	var parties []partner.Party
	query := r.filteredQuery(ctx, scope, kind, filter).Order(orderClause(filter, partyOrderColumns))
	if err := paginate(query, filter).Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// Count counts parties of a kind matching the filter
func (r *GormPartyRepository) Count(ctx context.Context, scope shared.Scope, kind partner.PartyKind, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filteredQuery(ctx, scope, kind, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new party
func (r *GormPartyRepository) Create(ctx context.Context, party *partner.Party) error {
	if err := r.db.WithContext(ctx).Create(party).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update persists changes to an existing party
func (r *GormPartyRepository) Update(ctx context.Context, party *partner.Party) error {
	result := r.db.WithContext(ctx).
		Model(party).
		Where("id = ? AND owner_id = ? AND workspace_id = ? AND kind = ?",
			party.ID, party.OwnerID, party.WorkspaceID, party.Kind).
		Updates(map[string]interface{}{
			"name":       party.Name,
			"note":       party.Note,
			"updated_at": party.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrDuplicate
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a party
func (r *GormPartyRepository) Delete(ctx context.Context, scope shared.Scope, kind partner.PartyKind, id int64) error {
	result := scoped(r.db.WithContext(ctx), scope).Delete(&partner.Party{}, "kind = ? AND id = ?", kind, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDeleteFailed
	}
	return nil
}

var _ partner.PartyRepository = (*GormPartyRepository)(nil)
