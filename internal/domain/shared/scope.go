package shared

// Scope is the (owner, workspace) pair that partitions all ledger data.
type Scope struct {
	OwnerID     int64
	WorkspaceID int64
}

// Validate checks that both halves of the scope are set
func (s Scope) Validate() error {
	if s.OwnerID <= 0 || s.WorkspaceID <= 0 {
		return NewDomainError("INVALID_INPUT", "Scope requires an owner and a workspace")
	}
	return nil
}
