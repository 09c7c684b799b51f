package partner

import (
	"strings"
	"time"

	"github.com/agrisale/manager/internal/domain/shared"
)

// PartyKind distinguishes the three counterparty roles a ledger record can
// reference. They share one schema: a scoped name plus a free-text note.
type PartyKind string

const (
	// PartyKindCustomer is a buyer referenced by sales and returns
	PartyKindCustomer PartyKind = "customer"
	// PartyKindSupplier is a vendor referenced by purchases and products
	PartyKindSupplier PartyKind = "supplier"
	// PartyKindEmployee is a staff member referenced as handler on cash flows
	PartyKindEmployee PartyKind = "employee"
)

// String returns the string representation of PartyKind
func (k PartyKind) String() string {
	return string(k)
}

// IsValid returns true if the party kind is valid
func (k PartyKind) IsValid() bool {
	switch k {
	case PartyKindCustomer, PartyKindSupplier, PartyKindEmployee:
		return true
	}
	return false
}

// Party is a counterparty record (customer, supplier or employee) owned by a
// workspace scope. Ledger records reference parties by ID; the reference is
// optional and never enforced by the store.
type Party struct {
	shared.ScopedEntity
	Kind      PartyKind `gorm:"type:varchar(20);not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Note      string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a party of the given kind within a scope
func NewParty(scope shared.Scope, kind PartyKind, name, note string) (*Party, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Party name is required")
	}
	now := time.Now()
	return &Party{
		ScopedEntity: shared.ScopedEntity{
			BaseEntity:  shared.BaseEntity{CreatedAt: now},
			OwnerID:     scope.OwnerID,
			WorkspaceID: scope.WorkspaceID,
		},
		Kind:      kind,
		Name:      name,
		Note:      note,
		UpdatedAt: now,
	}, nil
}

// Rename changes the party name
func (p *Party) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Party name is required")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// SetNote replaces the free-text note
func (p *Party) SetNote(note string) {
	p.Note = note
	p.UpdatedAt = time.Now()
}

// Snapshot returns the audit snapshot of the party.
// Field names match the wire representation used by the workspace server.
func (p *Party) Snapshot() map[string]any {
	return map[string]any{
		"id":   p.ID,
		"kind": string(p.Kind),
		"name": p.Name,
		"note": p.Note,
	}
}
