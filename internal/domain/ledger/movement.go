package ledger

import (
	"strings"
	"time"

	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementKind identifies the three record types whose lifecycle implies a
// product stock change.
type MovementKind string

const (
	// MovementPurchase is inbound stock; a negative quantity is a purchase-return
	MovementPurchase MovementKind = "purchase"
	// MovementSale is outbound stock; quantity must be positive
	MovementSale MovementKind = "sale"
	// MovementReturn is a customer return, inbound; quantity must be positive
	MovementReturn MovementKind = "return"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementPurchase, MovementSale, MovementReturn:
		return true
	}
	return false
}

// PartyKind returns the counterparty role this movement kind references:
// suppliers for purchases, customers for sales and returns.
func (k MovementKind) PartyKind() partner.PartyKind {
	if k == MovementPurchase {
		return partner.PartyKindSupplier
	}
	return partner.PartyKindCustomer
}

// ValidateQuantity enforces the per-kind quantity constraint: sales and
// returns require a positive quantity, purchases require a non-zero one
// (negative meaning a purchase-return).
func ValidateQuantity(kind MovementKind, quantity decimal.Decimal) error {
	switch kind {
	case MovementSale, MovementReturn:
		if !quantity.IsPositive() {
			return shared.NewDomainError("INVALID_INPUT", "Quantity must be greater than zero")
		}
	case MovementPurchase:
		if quantity.IsZero() {
			return shared.NewDomainError("INVALID_INPUT", "Quantity must not be zero")
		}
	default:
		return shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	return nil
}

// Movement is a purchase, sale or return record. It references its product
// by name within the same scope; the reference is not a foreign key, so a
// renamed or removed product turns it into an orphan that surfaces as
// NOT_FOUND on the next stock-affecting write.
type Movement struct {
	shared.ScopedEntity
	Kind        MovementKind     `gorm:"type:varchar(10);not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null;index"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PartyID     *int64           `gorm:"index"`
	OccurredAt  *time.Time       `gorm:"index"`
	TotalPrice  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Note        string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a validated movement record
func NewMovement(scope shared.Scope, kind MovementKind, productName string, quantity decimal.Decimal, partyID *int64, occurredAt *time.Time, totalPrice *decimal.Decimal, note string) (*Movement, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if err := ValidateQuantity(kind, quantity); err != nil {
		return nil, err
	}
	return &Movement{
		ScopedEntity: shared.ScopedEntity{
			BaseEntity:  shared.BaseEntity{CreatedAt: time.Now()},
			OwnerID:     scope.OwnerID,
			WorkspaceID: scope.WorkspaceID,
		},
		Kind:        kind,
		ProductName: productName,
		Quantity:    quantity,
		PartyID:     partyID,
		OccurredAt:  occurredAt,
		TotalPrice:  totalPrice,
		Note:        note,
	}, nil
}

// Snapshot returns the audit snapshot of the movement.
// Field names match the wire representation used by the workspace server.
func (m *Movement) Snapshot() Snapshot {
	var party any
	if m.PartyID != nil {
		party = *m.PartyID
	}
	var occurred any
	if m.OccurredAt != nil {
		occurred = m.OccurredAt.Format(time.RFC3339)
	}
	var total any
	if m.TotalPrice != nil {
		total = m.TotalPrice.String()
	}
	return Snapshot{
		"id":          m.ID,
		"kind":        string(m.Kind),
		"productName": m.ProductName,
		"quantity":    m.Quantity.String(),
		"partyId":     party,
		"date":        occurred,
		"totalPrice":  total,
		"note":        m.Note,
	}
}
