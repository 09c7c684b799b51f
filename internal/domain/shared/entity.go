package shared

import "time"

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() int64
	GetCreatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// Identifiers are integer autoincrement keys assigned by the backing store;
// a zero ID marks an entity that has not been persisted yet.
type BaseEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() int64 {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// ScopedEntity adds the (owner, workspace) scope pair that partitions all
// ledger data. No entity is visible or mutable outside its scope.
type ScopedEntity struct {
	BaseEntity
	OwnerID     int64 `gorm:"not null;index"`
	WorkspaceID int64 `gorm:"not null;index"`
}

// InScope reports whether the entity belongs to the given scope pair.
func (e *ScopedEntity) InScope(ownerID, workspaceID int64) bool {
	return e.OwnerID == ownerID && e.WorkspaceID == workspaceID
}
