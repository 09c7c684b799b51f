package ledger

import (
	"time"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        ledger.Unit     `json:"unit"`
	SupplierID  *int64          `json:"supplierId,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a product entity to its response form
func ToProductResponse(p *ledger.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		Unit:        p.Unit,
		SupplierID:  p.SupplierID,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        ledger.Unit     `json:"unit"`
	SupplierID  *int64          `json:"supplierId,omitempty"`
}

// UpdateProductRequest represents a partial product update. Nil fields are
// left unchanged; ClearSupplier removes the supplier reference.
type UpdateProductRequest struct {
	Name          *string      `json:"name,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Unit          *ledger.Unit `json:"unit,omitempty"`
	SupplierID    *int64       `json:"supplierId,omitempty"`
	ClearSupplier bool         `json:"clearSupplier,omitempty"`
}

// AdjustStockRequest sets a product's stock by a signed quantity, guarded by
// the version the caller last observed.
type AdjustStockRequest struct {
	ProductID       int64           `json:"productId"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpectedVersion int             `json:"expectedVersion"`
	Note            string          `json:"note,omitempty"`
}

// ProductListFilter represents filter options for product listings
type ProductListFilter struct {
	Search     string `json:"search,omitempty"`
	SupplierID *int64 `json:"supplierId,omitempty"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	OrderBy    string `json:"orderBy,omitempty"`
	OrderDir   string `json:"orderDir,omitempty"`
}

func (f ProductListFilter) toShared() shared.Filter {
	out := shared.DefaultFilter()
	applyPaging(&out, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	out.Search = f.Search
	if f.SupplierID != nil {
		out.Filters["supplier_id"] = *f.SupplierID
	}
	return out
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID          int64               `json:"id"`
	Kind        ledger.MovementKind `json:"kind"`
	ProductName string              `json:"productName"`
	Quantity    decimal.Decimal     `json:"quantity"`
	PartyID     *int64              `json:"partyId,omitempty"`
	OccurredAt  *time.Time          `json:"occurredAt,omitempty"`
	TotalPrice  *decimal.Decimal    `json:"totalPrice,omitempty"`
	Note        string              `json:"note,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ToMovementResponse converts a movement entity to its response form
func ToMovementResponse(m *ledger.Movement) *MovementResponse {
	return &MovementResponse{
		ID:          m.ID,
		Kind:        m.Kind,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		PartyID:     m.PartyID,
		OccurredAt:  m.OccurredAt,
		TotalPrice:  m.TotalPrice,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// CreateMovementRequest represents a request to record a stock movement
type CreateMovementRequest struct {
	Kind        ledger.MovementKind `json:"kind"`
	ProductName string              `json:"productName"`
	Quantity    decimal.Decimal     `json:"quantity"`
	PartyID     *int64              `json:"partyId,omitempty"`
	OccurredAt  *time.Time          `json:"occurredAt,omitempty"`
	TotalPrice  *decimal.Decimal    `json:"totalPrice,omitempty"`
	Note        string              `json:"note,omitempty"`
}

// UpdateMovementRequest represents a partial movement update. Nil fields are
// left unchanged; ClearParty removes the party reference.
type UpdateMovementRequest struct {
	ProductName *string          `json:"productName,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	PartyID     *int64           `json:"partyId,omitempty"`
	ClearParty  bool             `json:"clearParty,omitempty"`
	OccurredAt  *time.Time       `json:"occurredAt,omitempty"`
	TotalPrice  *decimal.Decimal `json:"totalPrice,omitempty"`
	Note        *string          `json:"note,omitempty"`
}

// MovementListFilter represents filter options for movement listings
type MovementListFilter struct {
	Search      string     `json:"search,omitempty"`
	ProductName string     `json:"productName,omitempty"`
	PartyID     *int64     `json:"partyId,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Page        int        `json:"page"`
	PageSize    int        `json:"pageSize"`
	OrderBy     string     `json:"orderBy,omitempty"`
	OrderDir    string     `json:"orderDir,omitempty"`
}

func (f MovementListFilter) toShared() shared.Filter {
	out := shared.DefaultFilter()
	applyPaging(&out, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	out.Search = f.Search
	if f.ProductName != "" {
		out.Filters["product_name"] = f.ProductName
	}
	if f.PartyID != nil {
		out.Filters["party_id"] = *f.PartyID
	}
	if f.StartDate != nil {
		out.Filters["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		out.Filters["end_date"] = *f.EndDate
	}
	return out
}

// PartyResponse represents a customer, supplier or employee in API responses
type PartyResponse struct {
	ID        int64             `json:"id"`
	Kind      partner.PartyKind `json:"kind"`
	Name      string            `json:"name"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ToPartyResponse converts a party entity to its response form
func ToPartyResponse(p *partner.Party) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID,
		Kind:      p.Kind,
		Name:      p.Name,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CreatePartyRequest represents a request to create a party
type CreatePartyRequest struct {
	Kind partner.PartyKind `json:"kind"`
	Name string            `json:"name"`
	Note string            `json:"note,omitempty"`
}

// UpdatePartyRequest represents a partial party update
type UpdatePartyRequest struct {
	Name *string `json:"name,omitempty"`
	Note *string `json:"note,omitempty"`
}

// PartyListFilter represents filter options for party listings
type PartyListFilter struct {
	Kind     partner.PartyKind `json:"kind"`
	Search   string            `json:"search,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	OrderBy  string            `json:"orderBy,omitempty"`
	OrderDir string            `json:"orderDir,omitempty"`
}

func (f PartyListFilter) toShared() shared.Filter {
	out := shared.DefaultFilter()
	applyPaging(&out, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	out.Search = f.Search
	return out
}

// CashFlowResponse represents an income or remittance record in API responses
type CashFlowResponse struct {
	ID            int64                `json:"id"`
	Kind          ledger.CashFlowKind  `json:"kind"`
	OccurredAt    time.Time            `json:"occurredAt"`
	PartyID       *int64               `json:"partyId,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Discount      decimal.Decimal      `json:"discount"`
	EmployeeID    *int64               `json:"employeeId,omitempty"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod"`
	Note          string               `json:"note,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToCashFlowResponse converts a cash flow entity to its response form
func ToCashFlowResponse(c *ledger.CashFlow) *CashFlowResponse {
	return &CashFlowResponse{
		ID:            c.ID,
		Kind:          c.Kind,
		OccurredAt:    c.OccurredAt,
		PartyID:       c.PartyID,
		Amount:        c.Amount,
		Discount:      c.Discount,
		EmployeeID:    c.EmployeeID,
		PaymentMethod: c.PaymentMethod,
		Note:          c.Note,
		CreatedAt:     c.CreatedAt,
	}
}

// CreateCashFlowRequest represents a request to record an income or remittance
type CreateCashFlowRequest struct {
	Kind          ledger.CashFlowKind  `json:"kind"`
	OccurredAt    *time.Time           `json:"occurredAt,omitempty"`
	PartyID       *int64               `json:"partyId,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Discount      decimal.Decimal      `json:"discount"`
	EmployeeID    *int64               `json:"employeeId,omitempty"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod"`
	Note          string               `json:"note,omitempty"`
}

// UpdateCashFlowRequest represents a partial cash flow update
type UpdateCashFlowRequest struct {
	OccurredAt    *time.Time            `json:"occurredAt,omitempty"`
	PartyID       *int64                `json:"partyId,omitempty"`
	ClearParty    bool                  `json:"clearParty,omitempty"`
	Amount        *decimal.Decimal      `json:"amount,omitempty"`
	Discount      *decimal.Decimal      `json:"discount,omitempty"`
	EmployeeID    *int64                `json:"employeeId,omitempty"`
	PaymentMethod *ledger.PaymentMethod `json:"paymentMethod,omitempty"`
	Note          *string               `json:"note,omitempty"`
}

// CashFlowListFilter represents filter options for cash flow listings
type CashFlowListFilter struct {
	Kind      ledger.CashFlowKind `json:"kind"`
	Search    string              `json:"search,omitempty"`
	PartyID   *int64              `json:"partyId,omitempty"`
	StartDate *time.Time          `json:"startDate,omitempty"`
	EndDate   *time.Time          `json:"endDate,omitempty"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"pageSize"`
	OrderBy   string              `json:"orderBy,omitempty"`
	OrderDir  string              `json:"orderDir,omitempty"`
}

func (f CashFlowListFilter) toShared() shared.Filter {
	out := shared.DefaultFilter()
	applyPaging(&out, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	out.Search = f.Search
	if f.PartyID != nil {
		out.Filters["party_id"] = *f.PartyID
	}
	if f.StartDate != nil {
		out.Filters["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		out.Filters["end_date"] = *f.EndDate
	}
	return out
}

// AuditLogEntryResponse represents an audit trail entry in API responses
type AuditLogEntryResponse struct {
	ID           int64            `json:"id"`
	OperatorID   int64            `json:"operatorId"`
	OperatorName string           `json:"operatorName"`
	Operation    ledger.Operation `json:"operation"`
	EntityType   string           `json:"entityType"`
	EntityID     int64            `json:"entityId"`
	EntityName   string           `json:"entityName"`
	OldData      ledger.Snapshot  `json:"oldData,omitempty"`
	NewData      ledger.Snapshot  `json:"newData,omitempty"`
	Changes      ledger.Changes   `json:"changes,omitempty"`
	DeviceID     string           `json:"deviceId,omitempty"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ToAuditLogEntryResponse converts an audit entry to its response form.
// The stored JSON blobs are decoded; a blob that fails to decode is
// returned as nil rather than failing the read.
func ToAuditLogEntryResponse(e *ledger.AuditLogEntry) *AuditLogEntryResponse {
	oldData, _ := e.DecodeOldData()
	newData, _ := e.DecodeNewData()
	changes, _ := e.DecodeChanges()
	return &AuditLogEntryResponse{
		ID:           e.ID,
		OperatorID:   e.OperatorID,
		OperatorName: e.OperatorName,
		Operation:    e.Operation,
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		EntityName:   e.EntityName,
		OldData:      oldData,
		NewData:      newData,
		Changes:      changes,
		DeviceID:     e.DeviceID,
		Note:         e.Note,
		CreatedAt:    e.CreatedAt,
	}
}

// AuditListFilter represents filter options for audit trail listings
type AuditListFilter struct {
	Operation  ledger.Operation `json:"operation,omitempty"`
	EntityType string           `json:"entityType,omitempty"`
	OperatorID *int64           `json:"operatorId,omitempty"`
	Search     string           `json:"search,omitempty"`
	StartDate  *time.Time       `json:"startDate,omitempty"`
	EndDate    *time.Time       `json:"endDate,omitempty"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}

func (f AuditListFilter) toShared() shared.Filter {
	out := shared.DefaultFilter()
	applyPaging(&out, f.Page, f.PageSize, "", "")
	out.Search = f.Search
	if f.Operation != "" {
		out.Filters["operation"] = string(f.Operation)
	}
	if f.EntityType != "" {
		out.Filters["entity_type"] = f.EntityType
	}
	if f.OperatorID != nil {
		out.Filters["operator_id"] = *f.OperatorID
	}
	if f.StartDate != nil {
		out.Filters["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		out.Filters["end_date"] = *f.EndDate
	}
	return out
}

func applyPaging(f *shared.Filter, page, pageSize int, orderBy, orderDir string) {
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir == "asc" || orderDir == "desc" {
		f.OrderDir = orderDir
	}
}
