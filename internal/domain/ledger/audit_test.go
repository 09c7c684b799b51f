package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisale/manager/internal/domain/shared"
)

func TestDiffSnapshots(t *testing.T) {
	tests := []struct {
		name     string
		oldSnap  Snapshot
		newSnap  Snapshot
		expected Changes
	}{
		{
			name:    "changed value reported with both sides",
			oldSnap: Snapshot{"name": "potato", "stock": "10"},
			newSnap: Snapshot{"name": "potato", "stock": "15"},
			expected: Changes{
				"stock": {Old: "10", New: "15"},
			},
		},
		{
			name:    "key only in new",
			oldSnap: Snapshot{"name": "potato"},
			newSnap: Snapshot{"name": "potato", "note": "restocked"},
			expected: Changes{
				"note": {Old: nil, New: "restocked"},
			},
		},
		{
			name:    "key only in old reported with nil new",
			oldSnap: Snapshot{"name": "potato", "note": "seasonal"},
			newSnap: Snapshot{"name": "potato"},
			expected: Changes{
				"note": {Old: "seasonal", New: nil},
			},
		},
		{
			name:     "equal snapshots produce no changes",
			oldSnap:  Snapshot{"name": "potato", "stock": "10"},
			newSnap:  Snapshot{"name": "potato", "stock": "10"},
			expected: Changes{},
		},
		{
			name:     "nil on both sides omitted",
			oldSnap:  Snapshot{"supplierId": nil},
			newSnap:  Snapshot{"supplierId": nil},
			expected: Changes{},
		},
		{
			name:    "nil to value reported",
			oldSnap: Snapshot{"supplierId": nil},
			newSnap: Snapshot{"supplierId": int64(7)},
			expected: Changes{
				"supplierId": {Old: nil, New: int64(7)},
			},
		},
		{
			name:    "nil old snapshot treats every new key as added",
			oldSnap: nil,
			newSnap: Snapshot{"name": "potato"},
			expected: Changes{
				"name": {Old: nil, New: "potato"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DiffSnapshots(tt.oldSnap, tt.newSnap))
		})
	}
}

func TestNewAuditLogEntry_AutoDiff(t *testing.T) {
	oldSnap := Snapshot{"name": "potato", "stock": "10"}
	newSnap := Snapshot{"name": "potato", "stock": "15"}

	entry, err := NewAuditLogEntry(testScope, 3, "alice", OperationUpdate, EntityProduct, 42, "potato", oldSnap, newSnap, nil, "device-1", "")
	require.NoError(t, err)

	changes, err := entry.DecodeChanges()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "10", changes["stock"].Old)
	assert.Equal(t, "15", changes["stock"].New)
}

func TestNewAuditLogEntry_ExplicitChangesWin(t *testing.T) {
	oldSnap := Snapshot{"stock": "10"}
	newSnap := Snapshot{"stock": "15"}
	explicit := Changes{"stock": {Old: "1", New: "2"}}

	entry, err := NewAuditLogEntry(testScope, 3, "alice", OperationUpdate, EntityProduct, 42, "potato", oldSnap, newSnap, explicit, "device-1", "")
	require.NoError(t, err)

	changes, err := entry.DecodeChanges()
	require.NoError(t, err)
	assert.Equal(t, "1", changes["stock"].Old)
	assert.Equal(t, "2", changes["stock"].New)
}

func TestNewAuditLogEntry_Validation(t *testing.T) {
	_, err := NewAuditLogEntry(testScope, 3, "alice", Operation("drop"), EntityProduct, 1, "x", nil, nil, nil, "", "")
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))

	_, err = NewAuditLogEntry(testScope, 3, "alice", OperationCreate, "", 1, "x", nil, nil, nil, "", "")
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
}

func TestAuditLogEntry_DecodeRoundTrip(t *testing.T) {
	oldSnap := Snapshot{"name": "potato", "supplierId": nil}
	newSnap := Snapshot{"name": "yam"}

	entry, err := NewAuditLogEntry(testScope, 3, "alice", OperationUpdate, EntityProduct, 42, "yam", oldSnap, newSnap, nil, "device-1", "renamed")
	require.NoError(t, err)
	assert.Equal(t, testScope.OwnerID, entry.OwnerID)
	assert.Equal(t, testScope.WorkspaceID, entry.WorkspaceID)
	assert.Equal(t, "renamed", entry.Note)

	decodedOld, err := entry.DecodeOldData()
	require.NoError(t, err)
	assert.Equal(t, "potato", decodedOld["name"])
	assert.Nil(t, decodedOld["supplierId"])

	decodedNew, err := entry.DecodeNewData()
	require.NoError(t, err)
	assert.Equal(t, "yam", decodedNew["name"])
}

func TestAuditLogEntry_DecodeAbsentBlobs(t *testing.T) {
	entry, err := NewAuditLogEntry(testScope, 3, "alice", OperationDelete, EntityProduct, 42, "potato", nil, nil, nil, "", "")
	require.NoError(t, err)

	oldSnap, err := entry.DecodeOldData()
	require.NoError(t, err)
	assert.Nil(t, oldSnap)

	changes, err := entry.DecodeChanges()
	require.NoError(t, err)
	assert.Nil(t, changes)
}
