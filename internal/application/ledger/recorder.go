package ledger

import (
	"context"
	"fmt"

	"github.com/agrisale/manager/internal/domain/ledger"
	"go.uber.org/zap"
)

// AuditEvent describes a committed mutation for the audit trail.
type AuditEvent struct {
	Operation  ledger.Operation
	EntityType string
	EntityID   int64
	EntityName string
	Old        ledger.Snapshot
	New        ledger.Snapshot
	Changes    ledger.Changes
	Note       string
}

// Recorder writes audit trail entries. It stamps each entry with the
// operator identity from the session and the device ID this installation
// was assigned at first start.
//
// The recorder itself never swallows failures; the caller decides. Inside
// a transaction scope the returned error rolls the whole unit back, while
// best-effort call sites log and discard it.
type Recorder struct {
	deviceID string
	log      *zap.Logger
}

// NewRecorder creates a Recorder stamping entries with the given device ID.
func NewRecorder(deviceID string, log *zap.Logger) *Recorder {
	return &Recorder{deviceID: deviceID, log: log}
}

// Record appends one audit entry through the given repository and returns
// the stored entry ID.
func (r *Recorder) Record(ctx context.Context, sess Session, repo ledger.AuditLogRepository, ev AuditEvent) (int64, error) {
	entry, err := ledger.NewAuditLogEntry(
		sess.Scope,
		sess.OperatorID,
		sess.OperatorName,
		ev.Operation,
		ev.EntityType,
		ev.EntityID,
		ev.EntityName,
		ev.Old,
		ev.New,
		ev.Changes,
		r.deviceID,
		ev.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("build audit entry: %w", err)
	}
	if err := repo.Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("append audit entry: %w", err)
	}
	r.log.Debug("audit entry recorded",
		zap.String("operation", string(ev.Operation)),
		zap.String("entity_type", ev.EntityType),
		zap.Int64("entity_id", ev.EntityID),
		zap.Int64("audit_id", entry.ID),
	)
	return entry.ID, nil
}
