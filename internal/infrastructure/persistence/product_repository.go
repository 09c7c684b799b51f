package persistence

import (
	"context"
	"errors"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

var productOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"stock":      true,
}

// GormProductRepository implements ledger.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within a scope
func (r *GormProductRepository) FindByID(ctx context.Context, scope shared.Scope, id int64) (*ledger.Product, error) {
	var product ledger.Product
	if err := scoped(r.db.WithContext(ctx), scope).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByName finds a product by its exact name within a scope
func (r *GormProductRepository) FindByName(ctx context.Context, scope shared.Scope, name string) (*ledger.Product, error) {
	var product ledger.Product
	if err := scoped(r.db.WithContext(ctx), scope).First(&product, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) filteredQuery(ctx context.Context, scope shared.Scope, filter shared.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&ledger.Product{}), scope)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	return query
}

// List returns products matching the filter
func (r *GormProductRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]ledger.Product, error) {
	var products []ledger.Product
	query := r.filteredQuery(ctx, scope, filter).Order(orderClause(filter, productOrderColumns))
	if err := paginate(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, scope shared.Scope, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filteredQuery(ctx, scope, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new product
func (r *GormProductRepository) Create(ctx context.Context, product *ledger.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// SaveWithVersion persists a mutated product with optimistic locking. The
// product's Version field already holds the incremented value; the update
// only lands if the row still carries the version this mutation read. Zero
// rows affected means another writer committed first.
func (r *GormProductRepository) SaveWithVersion(ctx context.Context, product *ledger.Product) error {
	result := r.db.WithContext(ctx).
		Model(product).
		Where("id = ? AND owner_id = ? AND workspace_id = ? AND version = ?",
			product.ID, product.OwnerID, product.WorkspaceID, product.Version-1).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"stock":       product.Stock,
			"unit":        product.Unit,
			"supplier_id": product.SupplierID,
			"version":     product.Version,
			"updated_at":  product.UpdatedAt,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrDuplicate
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	return nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, scope shared.Scope, id int64) error {
	result := scoped(r.db.WithContext(ctx), scope).Delete(&ledger.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDeleteFailed
	}
	return nil
}

var _ ledger.ProductRepository = (*GormProductRepository)(nil)
