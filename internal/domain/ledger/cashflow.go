package ledger

import (
	"time"

	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CashFlowKind identifies the two money-movement record types. Cash flows
// carry no stock linkage; they exist alongside movements in the same scope
// and share the audit trail.
type CashFlowKind string

const (
	// CashFlowIncome is money received from a customer
	CashFlowIncome CashFlowKind = "income"
	// CashFlowRemittance is money paid out to a supplier
	CashFlowRemittance CashFlowKind = "remittance"
)

// String returns the string representation of CashFlowKind
func (k CashFlowKind) String() string {
	return string(k)
}

// IsValid returns true if the cash flow kind is valid
func (k CashFlowKind) IsValid() bool {
	return k == CashFlowIncome || k == CashFlowRemittance
}

// PartyKind returns the counterparty role for this cash flow kind
func (k CashFlowKind) PartyKind() partner.PartyKind {
	if k == CashFlowIncome {
		return partner.PartyKindCustomer
	}
	return partner.PartyKindSupplier
}

// PaymentMethod is how a cash flow was settled
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentWeChat   PaymentMethod = "wechat"
	PaymentBankCard PaymentMethod = "bank_card"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentWeChat, PaymentBankCard:
		return true
	}
	return false
}

// CashFlow is an income or remittance record
type CashFlow struct {
	shared.ScopedEntity
	Kind          CashFlowKind    `gorm:"type:varchar(12);not null;index"`
	OccurredAt    time.Time       `gorm:"not null;index"`
	PartyID       *int64          `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EmployeeID    *int64          `gorm:"index"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(12);not null"`
	Note          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashFlow) TableName() string {
	return "cash_flows"
}

// NewCashFlow creates a validated cash flow record
func NewCashFlow(scope shared.Scope, kind CashFlowKind, occurredAt time.Time, partyID *int64, amount, discount decimal.Decimal, employeeID *int64, method PaymentMethod, note string) (*CashFlow, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be greater than zero")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	if kind == CashFlowRemittance && !discount.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Remittances do not carry a discount")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid payment method")
	}
	return &CashFlow{
		ScopedEntity: shared.ScopedEntity{
			BaseEntity:  shared.BaseEntity{CreatedAt: time.Now()},
			OwnerID:     scope.OwnerID,
			WorkspaceID: scope.WorkspaceID,
		},
		Kind:          kind,
		OccurredAt:    occurredAt,
		PartyID:       partyID,
		Amount:        amount,
		Discount:      discount,
		EmployeeID:    employeeID,
		PaymentMethod: method,
		Note:          note,
	}, nil
}

// SetAmount updates the amount
func (c *CashFlow) SetAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be greater than zero")
	}
	c.Amount = amount
	return nil
}

// SetDiscount updates the discount
func (c *CashFlow) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	if c.Kind == CashFlowRemittance && !discount.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Remittances do not carry a discount")
	}
	c.Discount = discount
	return nil
}

// SetPaymentMethod updates the payment method
func (c *CashFlow) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid payment method")
	}
	c.PaymentMethod = method
	return nil
}

// Snapshot returns the audit snapshot of the cash flow
func (c *CashFlow) Snapshot() Snapshot {
	var party any
	if c.PartyID != nil {
		party = *c.PartyID
	}
	var employee any
	if c.EmployeeID != nil {
		employee = *c.EmployeeID
	}
	return Snapshot{
		"id":            c.ID,
		"kind":          string(c.Kind),
		"date":          c.OccurredAt.Format(time.RFC3339),
		"partyId":       party,
		"amount":        c.Amount.String(),
		"discount":      c.Discount.String(),
		"employeeId":    employee,
		"paymentMethod": string(c.PaymentMethod),
		"note":          c.Note,
	}
}
