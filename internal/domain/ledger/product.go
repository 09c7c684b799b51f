package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is the stock-keeping unit of a product
type Unit string

const (
	// UnitJin is the small weight unit (500g)
	UnitJin Unit = "jin"
	// UnitKilogram is the large weight unit
	UnitKilogram Unit = "kg"
	// UnitBag is a bag-like container unit
	UnitBag Unit = "bag"
)

// String returns the string representation of Unit
func (u Unit) String() string {
	return string(u)
}

// IsValid returns true if the unit is valid
func (u Unit) IsValid() bool {
	switch u {
	case UnitJin, UnitKilogram, UnitBag:
		return true
	}
	return false
}

// Product is the stock ledger entity. Its Stock quantity is the only shared
// mutable value in the system and is guarded by the version counter: every
// successful row mutation increments Version by exactly one, and writers must
// persist through a conditional update on the version they read.
type Product struct {
	shared.ScopedEntity
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Stock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit        Unit            `gorm:"type:varchar(10);not null"`
	SupplierID  *int64          `gorm:"index"`
	Version     int             `gorm:"not null;default:1"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with the given opening stock
func NewProduct(scope shared.Scope, name, description string, stock decimal.Decimal, unit Unit, supplierID *int64) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid product unit")
	}
	if stock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Opening stock cannot be negative")
	}
	now := time.Now()
	return &Product{
		ScopedEntity: shared.ScopedEntity{
			BaseEntity:  shared.BaseEntity{CreatedAt: now},
			OwnerID:     scope.OwnerID,
			WorkspaceID: scope.WorkspaceID,
		},
		Name:        name,
		Description: description,
		Stock:       stock,
		Unit:        unit,
		SupplierID:  supplierID,
		Version:     1,
		UpdatedAt:   now,
	}, nil
}

// IncrementVersion bumps the version counter. Exactly one increment happens
// per successful row mutation; ApplyDelta increments on its own, field
// setters leave it to the mutation path so a multi-field edit still counts
// as one mutation.
func (p *Product) IncrementVersion() {
	p.Version++
	p.UpdatedAt = time.Now()
}

// ApplyDelta applies a signed stock change. A delta that would drive the
// stock negative is rejected with InsufficientStockError and leaves the
// product untouched. On success the version is incremented; the caller must
// persist through ProductRepository.SaveWithVersion so the increment is
// conditioned on the version this mutation started from.
func (p *Product) ApplyDelta(delta decimal.Decimal) error {
	newStock := p.Stock.Add(delta)
	if newStock.IsNegative() {
		return NewInsufficientStockError(p.Stock, delta.Abs())
	}
	p.Stock = newStock
	p.IncrementVersion()
	return nil
}

// Rename changes the product name. The name is the reference key movement
// records use, so a rename can orphan existing references; orphans surface
// as NOT_FOUND on the next stock-affecting write.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// SetDescription updates the description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.UpdatedAt = time.Now()
}

// SetUnit updates the stock-keeping unit
func (p *Product) SetUnit(unit Unit) error {
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid product unit")
	}
	p.Unit = unit
	p.UpdatedAt = time.Now()
	return nil
}

// SetSupplier updates the optional supplier reference
func (p *Product) SetSupplier(supplierID *int64) {
	p.SupplierID = supplierID
	p.UpdatedAt = time.Now()
}

// Snapshot returns the audit snapshot of the product
func (p *Product) Snapshot() Snapshot {
	var supplier any
	if p.SupplierID != nil {
		supplier = *p.SupplierID
	}
	return Snapshot{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"stock":       p.Stock.String(),
		"unit":        string(p.Unit),
		"supplierId":  supplier,
		"version":     p.Version,
	}
}

// InsufficientStockError reports a rejected stock decrease. It carries the
// stock at the time of the check and the quantity the writer needed, so
// callers can show the shortfall without re-reading.
type InsufficientStockError struct {
	Current  decimal.Decimal
	Required decimal.Decimal
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(current, required decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{Current: current, Required: required}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: current %s, required %s", e.Current, e.Required)
}

// DomainCode returns the stable error code
func (e *InsufficientStockError) DomainCode() string {
	return "INSUFFICIENT_STOCK"
}

// Shortfall returns how much stock is missing
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Current)
}
