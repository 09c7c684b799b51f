package ledger

import (
	"context"
	"fmt"

	"github.com/agrisale/manager/internal/domain/shared"
)

// StorageKind selects which backend serves a workspace's data.
type StorageKind string

const (
	// StorageLocal serves the workspace from the embedded database.
	StorageLocal StorageKind = "local"
	// StorageServer serves the workspace from the remote sync server.
	StorageServer StorageKind = "server"
)

// IsValid reports whether the storage kind is a known value.
func (k StorageKind) IsValid() bool {
	return k == StorageLocal || k == StorageServer
}

// Session carries the resolved workspace context for a single operation:
// the data scope every query is fenced to, the backend the workspace lives
// on, and the operator identity stamped onto audit entries.
type Session struct {
	Scope        shared.Scope
	Storage      StorageKind
	OperatorID   int64
	OperatorName string
}

// Validate checks the session is complete enough to execute operations.
func (s Session) Validate() error {
	if err := s.Scope.Validate(); err != nil {
		return err
	}
	if !s.Storage.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown storage kind: %s", s.Storage))
	}
	return nil
}

// ScopeResolver resolves the active workspace session for an operation.
// The service resolves exactly once per call and hands the session down,
// so a workspace switch mid-operation cannot split reads and writes
// across two scopes.
type ScopeResolver interface {
	Resolve(ctx context.Context) (Session, error)
}

// StaticScopeResolver returns a fixed session. It backs single-workspace
// deployments where the scope comes from configuration at startup.
type StaticScopeResolver struct {
	session Session
}

// NewStaticScopeResolver creates a resolver pinned to the given session.
func NewStaticScopeResolver(session Session) *StaticScopeResolver {
	return &StaticScopeResolver{session: session}
}

// Resolve returns the pinned session.
func (r *StaticScopeResolver) Resolve(_ context.Context) (Session, error) {
	if err := r.session.Validate(); err != nil {
		return Session{}, err
	}
	return r.session, nil
}

var _ ScopeResolver = (*StaticScopeResolver)(nil)
