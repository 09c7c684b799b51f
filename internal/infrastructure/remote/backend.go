package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	appledger "github.com/agrisale/manager/internal/application/ledger"
	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// movementRoute describes how one movement kind is spelled on the wire: its
// resource path and the kind-specific field names the server uses.
type movementRoute struct {
	path       string
	dateField  string
	partyField string
	priceField string
}

var movementRoutes = map[ledger.MovementKind]movementRoute{
	ledger.MovementPurchase: {path: "/api/purchases", dateField: "purchaseDate", partyField: "supplierId", priceField: "totalPurchasePrice"},
	ledger.MovementSale:     {path: "/api/sales", dateField: "saleDate", partyField: "customerId", priceField: "totalSalePrice"},
	ledger.MovementReturn:   {path: "/api/returns", dateField: "returnDate", partyField: "customerId", priceField: "totalReturnPrice"},
}

var partyPaths = map[partner.PartyKind]string{
	partner.PartyKindCustomer: "/api/customers",
	partner.PartyKindSupplier: "/api/suppliers",
	partner.PartyKindEmployee: "/api/employees",
}

var cashFlowPaths = map[ledger.CashFlowKind]string{
	ledger.CashFlowIncome:     "/api/income",
	ledger.CashFlowRemittance: "/api/remittance",
}

// Backend serves server-stored workspaces through the sync server's HTTP
// API. Stock consistency is enforced server-side; this adapter only
// translates between the application surface and the wire shapes.
type Backend struct {
	client *Client
	log    *zap.Logger
}

// NewBackend creates a Backend over the given client.
func NewBackend(client *Client, log *zap.Logger) *Backend {
	return &Backend{client: client, log: log}
}

var _ appledger.Backend = (*Backend)(nil)

const wireDate = time.RFC3339

// parseTime accepts the two timestamp spellings the server emits.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func timeOrZero(s string) time.Time {
	if t := parseTime(s); t != nil {
		return *t
	}
	return time.Time{}
}

// listPayload is the server's pagination envelope
type listPayload[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func listQuery(page, pageSize int, search string) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if search != "" {
		q.Set("search", search)
	}
	return q
}

// Movements

// movementRecord is the wire shape of a movement. The server spells the
// date, party and price fields differently per kind, so the struct carries
// all spellings and the route picks the populated ones.
type movementRecord struct {
	ID                 int64            `json:"id"`
	ProductName        string           `json:"productName"`
	Quantity           decimal.Decimal  `json:"quantity"`
	SupplierID         *int64           `json:"supplierId,omitempty"`
	CustomerID         *int64           `json:"customerId,omitempty"`
	PurchaseDate       string           `json:"purchaseDate,omitempty"`
	SaleDate           string           `json:"saleDate,omitempty"`
	ReturnDate         string           `json:"returnDate,omitempty"`
	TotalPurchasePrice *decimal.Decimal `json:"totalPurchasePrice,omitempty"`
	TotalSalePrice     *decimal.Decimal `json:"totalSalePrice,omitempty"`
	TotalReturnPrice   *decimal.Decimal `json:"totalReturnPrice,omitempty"`
	Note               string           `json:"note,omitempty"`
	CreatedAt          string           `json:"createdAt,omitempty"`
}

func (w movementRecord) toResponse(kind ledger.MovementKind) *appledger.MovementResponse {
	out := &appledger.MovementResponse{
		ID:          w.ID,
		Kind:        kind,
		ProductName: w.ProductName,
		Quantity:    w.Quantity,
		Note:        w.Note,
	}
	if created := parseTime(w.CreatedAt); created != nil {
		out.CreatedAt = *created
	}
	switch kind {
	case ledger.MovementPurchase:
		out.PartyID = w.SupplierID
		out.OccurredAt = parseTime(w.PurchaseDate)
		out.TotalPrice = w.TotalPurchasePrice
	case ledger.MovementSale:
		out.PartyID = w.CustomerID
		out.OccurredAt = parseTime(w.SaleDate)
		out.TotalPrice = w.TotalSalePrice
	default:
		out.PartyID = w.CustomerID
		out.OccurredAt = parseTime(w.ReturnDate)
		out.TotalPrice = w.TotalReturnPrice
	}
	return out
}

func routeFor(kind ledger.MovementKind) (movementRoute, error) {
	route, ok := movementRoutes[kind]
	if !ok {
		return movementRoute{}, shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	return route, nil
}

// CreateMovement records a movement on the server.
func (b *Backend) CreateMovement(ctx context.Context, sess appledger.Session, req appledger.CreateMovementRequest) (*appledger.MovementResponse, error) {
	route, err := routeFor(req.Kind)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateQuantity(req.Kind, req.Quantity); err != nil {
		return nil, err
	}
	body := map[string]any{
		"productName": req.ProductName,
		"quantity":    num(req.Quantity),
	}
	if req.PartyID != nil {
		body[route.partyField] = *req.PartyID
	}
	if req.OccurredAt != nil {
		body[route.dateField] = req.OccurredAt.Format(wireDate)
	}
	if req.TotalPrice != nil {
		body[route.priceField] = num(*req.TotalPrice)
	}
	if req.Note != "" {
		body["note"] = req.Note
	}
	var record movementRecord
	if err := b.client.post(ctx, route.path, sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(req.Kind), nil
}

// UpdateMovement edits a movement on the server.
func (b *Backend) UpdateMovement(ctx context.Context, sess appledger.Session, kind ledger.MovementKind, id int64, req appledger.UpdateMovementRequest) (*appledger.MovementResponse, error) {
	route, err := routeFor(kind)
	if err != nil {
		return nil, err
	}
	body := map[string]any{}
	if req.ProductName != nil {
		body["productName"] = *req.ProductName
	}
	if req.Quantity != nil {
		if err := ledger.ValidateQuantity(kind, *req.Quantity); err != nil {
			return nil, err
		}
		body["quantity"] = num(*req.Quantity)
	}
	if req.ClearParty {
		body[route.partyField] = nil
	} else if req.PartyID != nil {
		body[route.partyField] = *req.PartyID
	}
	if req.OccurredAt != nil {
		body[route.dateField] = req.OccurredAt.Format(wireDate)
	}
	if req.TotalPrice != nil {
		body[route.priceField] = num(*req.TotalPrice)
	}
	if req.Note != nil {
		body["note"] = *req.Note
	}
	var record movementRecord
	if err := b.client.put(ctx, fmt.Sprintf("%s/%d", route.path, id), sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// DeleteMovement removes a movement on the server.
func (b *Backend) DeleteMovement(ctx context.Context, sess appledger.Session, kind ledger.MovementKind, id int64) error {
	route, err := routeFor(kind)
	if err != nil {
		return err
	}
	return b.client.delete(ctx, fmt.Sprintf("%s/%d", route.path, id), sess.Scope.WorkspaceID)
}

// GetMovement fetches one movement from the server.
func (b *Backend) GetMovement(ctx context.Context, sess appledger.Session, kind ledger.MovementKind, id int64) (*appledger.MovementResponse, error) {
	route, err := routeFor(kind)
	if err != nil {
		return nil, err
	}
	var record movementRecord
	if err := b.client.get(ctx, fmt.Sprintf("%s/%d", route.path, id), nil, sess.Scope.WorkspaceID, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// ListMovements fetches a page of movements from the server.
func (b *Backend) ListMovements(ctx context.Context, sess appledger.Session, kind ledger.MovementKind, filter appledger.MovementListFilter) (*shared.Paginated[appledger.MovementResponse], error) {
	route, err := routeFor(kind)
	if err != nil {
		return nil, err
	}
	q := listQuery(filter.Page, filter.PageSize, filter.Search)
	if filter.ProductName != "" {
		q.Set("product_name", filter.ProductName)
	}
	if filter.PartyID != nil {
		q.Set("party_id", strconv.FormatInt(*filter.PartyID, 10))
	}
	if filter.StartDate != nil {
		q.Set("start_date", filter.StartDate.Format(wireDate))
	}
	if filter.EndDate != nil {
		q.Set("end_date", filter.EndDate.Format(wireDate))
	}
	var payload listPayload[movementRecord]
	if err := b.client.get(ctx, route.path, q, sess.Scope.WorkspaceID, &payload); err != nil {
		return nil, err
	}
	items := make([]appledger.MovementResponse, len(payload.Items))
	for i, record := range payload.Items {
		items[i] = *record.toResponse(kind)
	}
	out := shared.NewPaginated(items, payload.Total, payload.Page, payload.PageSize)
	return &out, nil
}

// Products

type productRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        string          `json:"unit"`
	SupplierID  *int64          `json:"supplierId,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

func (w productRecord) toResponse() *appledger.ProductResponse {
	return &appledger.ProductResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Stock:       w.Stock,
		Unit:        ledger.Unit(w.Unit),
		SupplierID:  w.SupplierID,
		Version:     w.Version,
		CreatedAt:   timeOrZero(w.CreatedAt),
		UpdatedAt:   timeOrZero(w.UpdatedAt),
	}
}

// CreateProduct adds a product on the server.
func (b *Backend) CreateProduct(ctx context.Context, sess appledger.Session, req appledger.CreateProductRequest) (*appledger.ProductResponse, error) {
	body := map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"stock":       num(req.Stock),
		"unit":        string(req.Unit),
	}
	if req.SupplierID != nil {
		body["supplierId"] = *req.SupplierID
	}
	var record productRecord
	if err := b.client.post(ctx, "/api/products", sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(), nil
}

// UpdateProduct edits product fields on the server.
func (b *Backend) UpdateProduct(ctx context.Context, sess appledger.Session, id int64, req appledger.UpdateProductRequest) (*appledger.ProductResponse, error) {
	body := map[string]any{}
	if req.Name != nil {
		body["name"] = *req.Name
	}
	if req.Description != nil {
		body["description"] = *req.Description
	}
	if req.Unit != nil {
		body["unit"] = string(*req.Unit)
	}
	if req.ClearSupplier {
		body["supplierId"] = nil
	} else if req.SupplierID != nil {
		body["supplierId"] = *req.SupplierID
	}
	var record productRecord
	if err := b.client.put(ctx, fmt.Sprintf("/api/products/%d", id), sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(), nil
}

// DeleteProduct removes a product on the server.
func (b *Backend) DeleteProduct(ctx context.Context, sess appledger.Session, id int64) error {
	return b.client.delete(ctx, fmt.Sprintf("/api/products/%d", id), sess.Scope.WorkspaceID)
}

// GetProduct fetches one product from the server.
func (b *Backend) GetProduct(ctx context.Context, sess appledger.Session, id int64) (*appledger.ProductResponse, error) {
	var record productRecord
	if err := b.client.get(ctx, fmt.Sprintf("/api/products/%d", id), nil, sess.Scope.WorkspaceID, &record); err != nil {
		return nil, err
	}
	return record.toResponse(), nil
}

// ListProducts fetches a page of the catalog from the server.
func (b *Backend) ListProducts(ctx context.Context, sess appledger.Session, filter appledger.ProductListFilter) (*shared.Paginated[appledger.ProductResponse], error) {
	q := listQuery(filter.Page, filter.PageSize, filter.Search)
	if filter.SupplierID != nil {
		q.Set("supplier_id", strconv.FormatInt(*filter.SupplierID, 10))
	}
	var payload listPayload[productRecord]
	if err := b.client.get(ctx, "/api/products", q, sess.Scope.WorkspaceID, &payload); err != nil {
		return nil, err
	}
	items := make([]appledger.ProductResponse, len(payload.Items))
	for i, record := range payload.Items {
		items[i] = *record.toResponse()
	}
	out := shared.NewPaginated(items, payload.Total, payload.Page, payload.PageSize)
	return &out, nil
}

// AdjustStock applies a stock correction on the server. The expected
// version travels with the request; the server answers 409 when another
// writer got there first, which the client maps to VERSION_CONFLICT.
func (b *Backend) AdjustStock(ctx context.Context, sess appledger.Session, req appledger.AdjustStockRequest) (*appledger.ProductResponse, error) {
	if req.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment quantity cannot be zero")
	}
	body := map[string]any{
		"quantity": num(req.Quantity),
		"version":  req.ExpectedVersion,
	}
	if req.Note != "" {
		body["note"] = req.Note
	}
	var record productRecord
	if err := b.client.post(ctx, fmt.Sprintf("/api/products/%d/stock", req.ProductID), sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(), nil
}

// Parties

type partyRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func (w partyRecord) toResponse(kind partner.PartyKind) *appledger.PartyResponse {
	return &appledger.PartyResponse{
		ID:        w.ID,
		Kind:      kind,
		Name:      w.Name,
		Note:      w.Note,
		CreatedAt: timeOrZero(w.CreatedAt),
		UpdatedAt: timeOrZero(w.UpdatedAt),
	}
}

func partyPath(kind partner.PartyKind) (string, error) {
	path, ok := partyPaths[kind]
	if !ok {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	return path, nil
}

// CreateParty adds a party on the server.
func (b *Backend) CreateParty(ctx context.Context, sess appledger.Session, req appledger.CreatePartyRequest) (*appledger.PartyResponse, error) {
	path, err := partyPath(req.Kind)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"name": req.Name}
	if req.Note != "" {
		body["note"] = req.Note
	}
	var record partyRecord
	if err := b.client.post(ctx, path, sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(req.Kind), nil
}

// UpdateParty edits a party on the server.
func (b *Backend) UpdateParty(ctx context.Context, sess appledger.Session, kind partner.PartyKind, id int64, req appledger.UpdatePartyRequest) (*appledger.PartyResponse, error) {
	path, err := partyPath(kind)
	if err != nil {
		return nil, err
	}
	body := map[string]any{}
	if req.Name != nil {
		body["name"] = *req.Name
	}
	if req.Note != nil {
		body["note"] = *req.Note
	}
	var record partyRecord
	if err := b.client.put(ctx, fmt.Sprintf("%s/%d", path, id), sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// DeleteParty removes a party on the server.
func (b *Backend) DeleteParty(ctx context.Context, sess appledger.Session, kind partner.PartyKind, id int64) error {
	path, err := partyPath(kind)
	if err != nil {
		return err
	}
	return b.client.delete(ctx, fmt.Sprintf("%s/%d", path, id), sess.Scope.WorkspaceID)
}

// GetParty fetches one party from the server.
func (b *Backend) GetParty(ctx context.Context, sess appledger.Session, kind partner.PartyKind, id int64) (*appledger.PartyResponse, error) {
	path, err := partyPath(kind)
	if err != nil {
		return nil, err
	}
	var record partyRecord
	if err := b.client.get(ctx, fmt.Sprintf("%s/%d", path, id), nil, sess.Scope.WorkspaceID, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// ListParties fetches a page of parties from the server.
func (b *Backend) ListParties(ctx context.Context, sess appledger.Session, filter appledger.PartyListFilter) (*shared.Paginated[appledger.PartyResponse], error) {
	path, err := partyPath(filter.Kind)
	if err != nil {
		return nil, err
	}
	q := listQuery(filter.Page, filter.PageSize, filter.Search)
	var payload listPayload[partyRecord]
	if err := b.client.get(ctx, path, q, sess.Scope.WorkspaceID, &payload); err != nil {
		return nil, err
	}
	items := make([]appledger.PartyResponse, len(payload.Items))
	for i, record := range payload.Items {
		items[i] = *record.toResponse(filter.Kind)
	}
	out := shared.NewPaginated(items, payload.Total, payload.Page, payload.PageSize)
	return &out, nil
}

// Cash flows

type cashFlowRecord struct {
	ID            int64            `json:"id"`
	Date          string           `json:"date,omitempty"`
	CustomerID    *int64           `json:"customerId,omitempty"`
	SupplierID    *int64           `json:"supplierId,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	EmployeeID    *int64           `json:"employeeId,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Note          string           `json:"note,omitempty"`
	CreatedAt     string           `json:"createdAt,omitempty"`
}

func (w cashFlowRecord) toResponse(kind ledger.CashFlowKind) *appledger.CashFlowResponse {
	out := &appledger.CashFlowResponse{
		ID:            w.ID,
		Kind:          kind,
		OccurredAt:    timeOrZero(w.Date),
		Amount:        w.Amount,
		EmployeeID:    w.EmployeeID,
		PaymentMethod: ledger.PaymentMethod(w.PaymentMethod),
		Note:          w.Note,
		CreatedAt:     timeOrZero(w.CreatedAt),
	}
	if w.Discount != nil {
		out.Discount = *w.Discount
	}
	if kind == ledger.CashFlowIncome {
		out.PartyID = w.CustomerID
	} else {
		out.PartyID = w.SupplierID
	}
	return out
}

func cashFlowPath(kind ledger.CashFlowKind) (string, error) {
	path, ok := cashFlowPaths[kind]
	if !ok {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	return path, nil
}

func cashFlowPartyField(kind ledger.CashFlowKind) string {
	if kind == ledger.CashFlowIncome {
		return "customerId"
	}
	return "supplierId"
}

// CreateCashFlow records an income or remittance on the server.
func (b *Backend) CreateCashFlow(ctx context.Context, sess appledger.Session, req appledger.CreateCashFlowRequest) (*appledger.CashFlowResponse, error) {
	path, err := cashFlowPath(req.Kind)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"amount":        num(req.Amount),
		"paymentMethod": string(req.PaymentMethod),
	}
	if req.Kind == ledger.CashFlowIncome && !req.Discount.IsZero() {
		body["discount"] = num(req.Discount)
	}
	if req.OccurredAt != nil {
		body["date"] = req.OccurredAt.Format(wireDate)
	}
	if req.PartyID != nil {
		body[cashFlowPartyField(req.Kind)] = *req.PartyID
	}
	if req.EmployeeID != nil {
		body["employeeId"] = *req.EmployeeID
	}
	if req.Note != "" {
		body["note"] = req.Note
	}
	var record cashFlowRecord
	if err := b.client.post(ctx, path, sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(req.Kind), nil
}

// UpdateCashFlow edits an income or remittance on the server.
func (b *Backend) UpdateCashFlow(ctx context.Context, sess appledger.Session, kind ledger.CashFlowKind, id int64, req appledger.UpdateCashFlowRequest) (*appledger.CashFlowResponse, error) {
	path, err := cashFlowPath(kind)
	if err != nil {
		return nil, err
	}
	body := map[string]any{}
	if req.OccurredAt != nil {
		body["date"] = req.OccurredAt.Format(wireDate)
	}
	if req.ClearParty {
		body[cashFlowPartyField(kind)] = nil
	} else if req.PartyID != nil {
		body[cashFlowPartyField(kind)] = *req.PartyID
	}
	if req.Amount != nil {
		body["amount"] = num(*req.Amount)
	}
	if req.Discount != nil {
		body["discount"] = num(*req.Discount)
	}
	if req.EmployeeID != nil {
		body["employeeId"] = *req.EmployeeID
	}
	if req.PaymentMethod != nil {
		body["paymentMethod"] = string(*req.PaymentMethod)
	}
	if req.Note != nil {
		body["note"] = *req.Note
	}
	var record cashFlowRecord
	if err := b.client.put(ctx, fmt.Sprintf("%s/%d", path, id), sess.Scope.WorkspaceID, body, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// DeleteCashFlow removes an income or remittance on the server.
func (b *Backend) DeleteCashFlow(ctx context.Context, sess appledger.Session, kind ledger.CashFlowKind, id int64) error {
	path, err := cashFlowPath(kind)
	if err != nil {
		return err
	}
	return b.client.delete(ctx, fmt.Sprintf("%s/%d", path, id), sess.Scope.WorkspaceID)
}

// GetCashFlow fetches one income or remittance from the server.
func (b *Backend) GetCashFlow(ctx context.Context, sess appledger.Session, kind ledger.CashFlowKind, id int64) (*appledger.CashFlowResponse, error) {
	path, err := cashFlowPath(kind)
	if err != nil {
		return nil, err
	}
	var record cashFlowRecord
	if err := b.client.get(ctx, fmt.Sprintf("%s/%d", path, id), nil, sess.Scope.WorkspaceID, &record); err != nil {
		return nil, err
	}
	return record.toResponse(kind), nil
}

// ListCashFlows fetches a page of income or remittance records.
func (b *Backend) ListCashFlows(ctx context.Context, sess appledger.Session, filter appledger.CashFlowListFilter) (*shared.Paginated[appledger.CashFlowResponse], error) {
	path, err := cashFlowPath(filter.Kind)
	if err != nil {
		return nil, err
	}
	q := listQuery(filter.Page, filter.PageSize, filter.Search)
	if filter.PartyID != nil {
		q.Set("party_id", strconv.FormatInt(*filter.PartyID, 10))
	}
	if filter.StartDate != nil {
		q.Set("start_date", filter.StartDate.Format(wireDate))
	}
	if filter.EndDate != nil {
		q.Set("end_date", filter.EndDate.Format(wireDate))
	}
	var payload listPayload[cashFlowRecord]
	if err := b.client.get(ctx, path, q, sess.Scope.WorkspaceID, &payload); err != nil {
		return nil, err
	}
	items := make([]appledger.CashFlowResponse, len(payload.Items))
	for i, record := range payload.Items {
		items[i] = *record.toResponse(filter.Kind)
	}
	out := shared.NewPaginated(items, payload.Total, payload.Page, payload.PageSize)
	return &out, nil
}

// Audit trail

type auditRecord struct {
	ID           int64                 `json:"id"`
	OperatorID   int64                 `json:"operatorId"`
	OperatorName string                `json:"operatorName"`
	Operation    string                `json:"operation"`
	EntityType   string                `json:"entityType"`
	EntityID     int64                 `json:"entityId"`
	EntityName   string                `json:"entityName"`
	OldData      ledger.Snapshot       `json:"oldData,omitempty"`
	NewData      ledger.Snapshot       `json:"newData,omitempty"`
	Changes      ledger.Changes        `json:"changes,omitempty"`
	DeviceID     string                `json:"deviceId,omitempty"`
	Note         string                `json:"note,omitempty"`
	CreatedAt    string                `json:"createdAt,omitempty"`
}

func (w auditRecord) toResponse() *appledger.AuditLogEntryResponse {
	return &appledger.AuditLogEntryResponse{
		ID:           w.ID,
		OperatorID:   w.OperatorID,
		OperatorName: w.OperatorName,
		Operation:    ledger.Operation(w.Operation),
		EntityType:   w.EntityType,
		EntityID:     w.EntityID,
		EntityName:   w.EntityName,
		OldData:      w.OldData,
		NewData:      w.NewData,
		Changes:      w.Changes,
		DeviceID:     w.DeviceID,
		Note:         w.Note,
		CreatedAt:    timeOrZero(w.CreatedAt),
	}
}

// ListAuditLogs fetches a page of the server-side audit trail.
func (b *Backend) ListAuditLogs(ctx context.Context, sess appledger.Session, filter appledger.AuditListFilter) (*shared.Paginated[appledger.AuditLogEntryResponse], error) {
	q := listQuery(filter.Page, filter.PageSize, filter.Search)
	if filter.Operation != "" {
		q.Set("operation", string(filter.Operation))
	}
	if filter.EntityType != "" {
		q.Set("entity_type", filter.EntityType)
	}
	if filter.OperatorID != nil {
		q.Set("operator_id", strconv.FormatInt(*filter.OperatorID, 10))
	}
	if filter.StartDate != nil {
		q.Set("start_date", filter.StartDate.Format(wireDate))
	}
	if filter.EndDate != nil {
		q.Set("end_date", filter.EndDate.Format(wireDate))
	}
	var payload listPayload[auditRecord]
	if err := b.client.get(ctx, "/api/audit-logs", q, sess.Scope.WorkspaceID, &payload); err != nil {
		return nil, err
	}
	items := make([]appledger.AuditLogEntryResponse, len(payload.Items))
	for i, record := range payload.Items {
		items[i] = *record.toResponse()
	}
	out := shared.NewPaginated(items, payload.Total, payload.Page, payload.PageSize)
	return &out, nil
}

// GetAuditLog fetches one audit entry from the server.
func (b *Backend) GetAuditLog(ctx context.Context, sess appledger.Session, id int64) (*appledger.AuditLogEntryResponse, error) {
	var record auditRecord
	if err := b.client.get(ctx, fmt.Sprintf("/api/audit-logs/%d", id), nil, sess.Scope.WorkspaceID, &record); err != nil {
		return nil, err
	}
	return record.toResponse(), nil
}

// PurgeAuditLogs asks the server to drop entries older than the retention
// window. The window travels as whole days.
func (b *Backend) PurgeAuditLogs(ctx context.Context, sess appledger.Session, olderThan time.Duration) (int64, error) {
	days := int(olderThan / (24 * time.Hour))
	if days <= 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Retention window must be at least one day")
	}
	var result struct {
		Removed int64 `json:"removed"`
	}
	body := map[string]any{"days": days}
	if err := b.client.post(ctx, "/api/audit-logs/cleanup", sess.Scope.WorkspaceID, body, &result); err != nil {
		return 0, err
	}
	return result.Removed, nil
}
