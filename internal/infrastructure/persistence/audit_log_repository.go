package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements ledger.AuditLogRepository using GORM.
// The table is append-only; the only delete path is retention purging.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append persists a new entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *ledger.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an entry within a scope
func (r *GormAuditLogRepository) FindByID(ctx context.Context, scope shared.Scope, id int64) (*ledger.AuditLogEntry, error) {
	var entry ledger.AuditLogEntry
	if err := scoped(r.db.WithContext(ctx), scope).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormAuditLogRepository) filteredQuery(ctx context.Context, scope shared.Scope, filter shared.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&ledger.AuditLogEntry{}), scope)
	if filter.Search != "" {
		query = query.Where("entity_name LIKE ?", "%"+filter.Search+"%")
	}
	if op, ok := filter.Filters["operation"]; ok {
		query = query.Where("operation = ?", op)
	}
	if entityType, ok := filter.Filters["entity_type"]; ok {
		query = query.Where("entity_type = ?", entityType)
	}
	if operatorID, ok := filter.Filters["operator_id"]; ok {
		query = query.Where("operator_id = ?", operatorID)
	}
	if start, ok := filter.Filters["start_date"]; ok {
		query = query.Where("created_at >= ?", start)
	}
	if end, ok := filter.Filters["end_date"]; ok {
		query = query.Where("created_at <= ?", end)
	}
	return query
}

// List returns entries matching the filter, newest first
func (r *GormAuditLogRepository) List(ctx context.Context, scope shared.Scope, filter shared.Filter) ([]ledger.AuditLogEntry, error) {
	var entries []ledger.AuditLogEntry
	query := r.filteredQuery(ctx, scope, filter).Order("created_at DESC, id DESC")
	if err := paginate(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormAuditLogRepository) Count(ctx context.Context, scope shared.Scope, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filteredQuery(ctx, scope, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PurgeOlderThan deletes entries recorded before the cutoff
func (r *GormAuditLogRepository) PurgeOlderThan(ctx context.Context, scope shared.Scope, cutoff time.Time) (int64, error) {
	result := scoped(r.db.WithContext(ctx), scope).
		Where("created_at < ?", cutoff).
		Delete(&ledger.AuditLogEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ ledger.AuditLogRepository = (*GormAuditLogRepository)(nil)
