package ledger

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/agrisale/manager/internal/domain/shared"
)

// Operation is the audit operation kind
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
	// OperationCover marks a bulk workspace-data replacement (restore)
	OperationCover Operation = "COVER"
)

// IsValid returns true if the operation is valid
func (o Operation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete, OperationCover:
		return true
	}
	return false
}

// Audit entity type names, matching the wire representation used by the
// workspace server.
const (
	EntityProduct       = "product"
	EntityWorkspaceData = "workspace_data"
)

// Snapshot is the audited state of an entity at a point in time, keyed by
// wire field name. Values are plain JSON-friendly types; entities normalize
// decimals to strings and timestamps to RFC3339 in their Snapshot methods.
type Snapshot map[string]any

// FieldChange is one entry of a field-level diff
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Changes is a field-level diff keyed by field name
type Changes map[string]FieldChange

// DiffSnapshots computes the field-level diff between two snapshots: every
// key of new whose value differs from (or is absent in) old is reported as
// {old, new}; every key of old absent from new is reported with a nil new
// value. Keys equal on both sides, or nil on both sides, are omitted.
func DiffSnapshots(oldSnap, newSnap Snapshot) Changes {
	changes := make(Changes)
	for key, newValue := range newSnap {
		oldValue, ok := oldSnap[key]
		if ok && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		if oldValue == nil && newValue == nil {
			continue
		}
		changes[key] = FieldChange{Old: oldValue, New: newValue}
	}
	for key, oldValue := range oldSnap {
		if _, ok := newSnap[key]; ok {
			continue
		}
		if oldValue == nil {
			continue
		}
		changes[key] = FieldChange{Old: oldValue, New: nil}
	}
	return changes
}

// AuditLogEntry is an append-only record of one committed mutation. The
// snapshots and the diff are stored as opaque serialized blobs; the store
// never interprets them.
type AuditLogEntry struct {
	shared.ScopedEntity
	OperatorID   int64     `gorm:"not null;index"`
	OperatorName string    `gorm:"type:varchar(100);not null"`
	Operation    Operation `gorm:"type:varchar(10);not null;index"`
	EntityType   string    `gorm:"type:varchar(40);not null;index"`
	EntityID     int64     `gorm:"index"`
	EntityName   string    `gorm:"type:varchar(255)"`
	OldData      []byte    `gorm:"type:blob"`
	NewData      []byte    `gorm:"type:blob"`
	Changes      []byte    `gorm:"type:blob"`
	DeviceID     string    `gorm:"type:varchar(64)"`
	Note         string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

// NewAuditLogEntry builds an entry, serializing the snapshots and the diff.
// When both snapshots are present and no explicit changes are supplied, the
// diff is computed with DiffSnapshots.
func NewAuditLogEntry(scope shared.Scope, operatorID int64, operatorName string, op Operation, entityType string, entityID int64, entityName string, oldSnap, newSnap Snapshot, changes Changes, deviceID, note string) (*AuditLogEntry, error) {
	if !op.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid audit operation")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Audit entity type is required")
	}
	if changes == nil && oldSnap != nil && newSnap != nil {
		changes = DiffSnapshots(oldSnap, newSnap)
	}

	entry := &AuditLogEntry{
		ScopedEntity: shared.ScopedEntity{
			BaseEntity:  shared.BaseEntity{CreatedAt: time.Now()},
			OwnerID:     scope.OwnerID,
			WorkspaceID: scope.WorkspaceID,
		},
		OperatorID:   operatorID,
		OperatorName: operatorName,
		Operation:    op,
		EntityType:   entityType,
		EntityID:     entityID,
		EntityName:   entityName,
		DeviceID:     deviceID,
		Note:         note,
	}

	var err error
	if oldSnap != nil {
		if entry.OldData, err = json.Marshal(oldSnap); err != nil {
			return nil, fmt.Errorf("marshal old snapshot: %w", err)
		}
	}
	if newSnap != nil {
		if entry.NewData, err = json.Marshal(newSnap); err != nil {
			return nil, fmt.Errorf("marshal new snapshot: %w", err)
		}
	}
	if changes != nil {
		if entry.Changes, err = json.Marshal(changes); err != nil {
			return nil, fmt.Errorf("marshal changes: %w", err)
		}
	}
	return entry, nil
}

// DecodeOldData deserializes the old snapshot, or nil when absent
func (e *AuditLogEntry) DecodeOldData() (Snapshot, error) {
	return decodeSnapshot(e.OldData)
}

// DecodeNewData deserializes the new snapshot, or nil when absent
func (e *AuditLogEntry) DecodeNewData() (Snapshot, error) {
	return decodeSnapshot(e.NewData)
}

// DecodeChanges deserializes the field-level diff, or nil when absent
func (e *AuditLogEntry) DecodeChanges() (Changes, error) {
	if len(e.Changes) == 0 {
		return nil, nil
	}
	var c Changes
	if err := json.Unmarshal(e.Changes, &c); err != nil {
		return nil, fmt.Errorf("unmarshal changes: %w", err)
	}
	return c, nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}
