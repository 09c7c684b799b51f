package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"go.uber.org/zap"
)

// Executor serves workspaces stored in the embedded database. Every
// stock-affecting mutation runs inside a single transaction scope: the
// version-guarded product update, the movement row and the audit entry
// commit together or roll back together. Non-stock mutations audit
// best-effort after commit; a lost audit entry there never fails the
// operation.
type Executor struct {
	tx       TransactionScope
	repos    TransactionalRepositories
	recorder *Recorder
	log      *zap.Logger
}

// NewExecutor creates an Executor. repos must be the non-transactional
// accessor over the same database tx wraps.
func NewExecutor(tx TransactionScope, repos TransactionalRepositories, recorder *Recorder, log *zap.Logger) *Executor {
	return &Executor{
		tx:       tx,
		repos:    repos,
		recorder: recorder,
		log:      log,
	}
}

var _ Backend = (*Executor)(nil)

// recordBestEffort writes an audit entry outside any transaction. Failures
// are logged and discarded; the mutation already committed.
func (e *Executor) recordBestEffort(ctx context.Context, sess Session, ev AuditEvent) {
	if _, err := e.recorder.Record(ctx, sess, e.repos.AuditLogs(), ev); err != nil {
		e.log.Warn("audit entry dropped",
			zap.String("operation", string(ev.Operation)),
			zap.String("entity_type", ev.EntityType),
			zap.Int64("entity_id", ev.EntityID),
			zap.Error(err),
		)
	}
}

// Movements

// CreateMovement records a purchase, sale or return and applies its stock
// effect to the referenced product under version control.
func (e *Executor) CreateMovement(ctx context.Context, sess Session, req CreateMovementRequest) (*MovementResponse, error) {
	movement, err := ledger.NewMovement(sess.Scope, req.Kind, req.ProductName, req.Quantity, req.PartyID, req.OccurredAt, req.TotalPrice, req.Note)
	if err != nil {
		return nil, err
	}
	err = e.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByName(ctx, sess.Scope, movement.ProductName)
		if err != nil {
			return err
		}
		if movement.PartyID != nil {
			if _, err := repos.Parties().FindByID(ctx, sess.Scope, movement.Kind.PartyKind(), *movement.PartyID); err != nil {
				return err
			}
		}
		delta := ledger.CreateDelta(movement.Kind, movement.Quantity)
		if !delta.IsZero() {
			if err := product.ApplyDelta(delta); err != nil {
				return err
			}
			if err := repos.Products().SaveWithVersion(ctx, product); err != nil {
				return err
			}
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}
		_, err = e.recorder.Record(ctx, sess, repos.AuditLogs(), AuditEvent{
			Operation:  ledger.OperationCreate,
			EntityType: movement.Kind.String(),
			EntityID:   movement.ID,
			EntityName: movement.ProductName,
			New:        movement.Snapshot(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}

// UpdateMovement edits a recorded movement. A quantity change applies the
// difference between new and old effect to the product; a product change
// reverses the old effect on the old product and applies the new effect to
// the new product, each under its own version guard.
func (e *Executor) UpdateMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64, req UpdateMovementRequest) (*MovementResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	newQuantity := req.Quantity
	if newQuantity != nil {
		if err := ledger.ValidateQuantity(kind, *newQuantity); err != nil {
			return nil, err
		}
	}
	var newName string
	if req.ProductName != nil {
		newName = strings.TrimSpace(*req.ProductName)
		if newName == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
		}
	}

	var movement *ledger.Movement
	err := e.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = repos.Movements().FindByID(ctx, sess.Scope, kind, id)
		if err != nil {
			return err
		}
		oldSnap := movement.Snapshot()
		oldQuantity := movement.Quantity
		oldName := movement.ProductName

		quantity := oldQuantity
		if newQuantity != nil {
			quantity = *newQuantity
		}
		name := oldName
		if newName != "" {
			name = newName
		}

		if req.PartyID != nil {
			if _, err := repos.Parties().FindByID(ctx, sess.Scope, kind.PartyKind(), *req.PartyID); err != nil {
				return err
			}
		}

		if name != oldName {
			// Reverse the original effect on the product the record used to
			// point at, then apply the new effect to the new one. Two OCC
			// saves; either conflict rolls back the whole edit.
			oldProduct, err := repos.Products().FindByName(ctx, sess.Scope, oldName)
			if err != nil {
				return err
			}
			newProduct, err := repos.Products().FindByName(ctx, sess.Scope, name)
			if err != nil {
				return err
			}
			if err := oldProduct.ApplyDelta(ledger.DeleteDelta(kind, oldQuantity)); err != nil {
				return err
			}
			if err := repos.Products().SaveWithVersion(ctx, oldProduct); err != nil {
				return err
			}
			if err := newProduct.ApplyDelta(ledger.CreateDelta(kind, quantity)); err != nil {
				return err
			}
			if err := repos.Products().SaveWithVersion(ctx, newProduct); err != nil {
				return err
			}
		} else {
			delta := ledger.UpdateDelta(kind, oldQuantity, quantity)
			if !delta.IsZero() {
				product, err := repos.Products().FindByName(ctx, sess.Scope, oldName)
				if err != nil {
					return err
				}
				if err := product.ApplyDelta(delta); err != nil {
					return err
				}
				if err := repos.Products().SaveWithVersion(ctx, product); err != nil {
					return err
				}
			}
		}

		movement.ProductName = name
		movement.Quantity = quantity
		if req.ClearParty {
			movement.PartyID = nil
		} else if req.PartyID != nil {
			movement.PartyID = req.PartyID
		}
		if req.OccurredAt != nil {
			movement.OccurredAt = req.OccurredAt
		}
		if req.TotalPrice != nil {
			movement.TotalPrice = req.TotalPrice
		}
		if req.Note != nil {
			movement.Note = *req.Note
		}
		if err := repos.Movements().Update(ctx, movement); err != nil {
			return err
		}
		_, err = e.recorder.Record(ctx, sess, repos.AuditLogs(), AuditEvent{
			Operation:  ledger.OperationUpdate,
			EntityType: kind.String(),
			EntityID:   movement.ID,
			EntityName: movement.ProductName,
			Old:        oldSnap,
			New:        movement.Snapshot(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}

// DeleteMovement removes a recorded movement and reverses its stock effect.
// If the referenced product no longer exists the record is deleted anyway;
// there is no stock left to correct.
func (e *Executor) DeleteMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	return e.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		movement, err := repos.Movements().FindByID(ctx, sess.Scope, kind, id)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByName(ctx, sess.Scope, movement.ProductName)
		switch {
		case err == nil:
			delta := ledger.DeleteDelta(kind, movement.Quantity)
			if !delta.IsZero() {
				if err := product.ApplyDelta(delta); err != nil {
					return err
				}
				if err := repos.Products().SaveWithVersion(ctx, product); err != nil {
					return err
				}
			}
		case errors.Is(err, shared.ErrNotFound):
			e.log.Warn("movement references missing product, deleting without stock reversal",
				zap.String("kind", kind.String()),
				zap.Int64("movement_id", movement.ID),
				zap.String("product_name", movement.ProductName),
			)
		default:
			return err
		}
		if err := repos.Movements().Delete(ctx, sess.Scope, kind, movement.ID); err != nil {
			return err
		}
		_, err = e.recorder.Record(ctx, sess, repos.AuditLogs(), AuditEvent{
			Operation:  ledger.OperationDelete,
			EntityType: kind.String(),
			EntityID:   movement.ID,
			EntityName: movement.ProductName,
			Old:        movement.Snapshot(),
		})
		return err
	})
}

// GetMovement returns one movement record.
func (e *Executor) GetMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64) (*MovementResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	movement, err := e.repos.Movements().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}

// ListMovements returns a page of movement records of one kind.
func (e *Executor) ListMovements(ctx context.Context, sess Session, kind ledger.MovementKind, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid movement kind")
	}
	f := filter.toShared()
	movements, err := e.repos.Movements().List(ctx, sess.Scope, kind, f)
	if err != nil {
		return nil, err
	}
	total, err := e.repos.Movements().Count(ctx, sess.Scope, kind, f)
	if err != nil {
		return nil, err
	}
	items := make([]MovementResponse, len(movements))
	for i := range movements {
		items[i] = *ToMovementResponse(&movements[i])
	}
	out := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &out, nil
}

// Products

// CreateProduct adds a product to the workspace catalog.
func (e *Executor) CreateProduct(ctx context.Context, sess Session, req CreateProductRequest) (*ProductResponse, error) {
	product, err := ledger.NewProduct(sess.Scope, req.Name, req.Description, req.Stock, req.Unit, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationCreate,
		EntityType: ledger.EntityProduct,
		EntityID:   product.ID,
		EntityName: product.Name,
		New:        product.Snapshot(),
	})
	return ToProductResponse(product), nil
}

// UpdateProduct edits product fields. Stock is not editable here; use
// AdjustStock or record a movement. The edit still runs under the version
// guard so it cannot silently overwrite a concurrent stock change.
func (e *Executor) UpdateProduct(ctx context.Context, sess Session, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	var product *ledger.Product
	var oldSnap ledger.Snapshot
	err := e.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, sess.Scope, id)
		if err != nil {
			return err
		}
		oldSnap = product.Snapshot()
		if req.Name != nil {
			if err := product.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.Description != nil {
			product.SetDescription(*req.Description)
		}
		if req.Unit != nil {
			if err := product.SetUnit(*req.Unit); err != nil {
				return err
			}
		}
		if req.ClearSupplier {
			product.SetSupplier(nil)
		} else if req.SupplierID != nil {
			product.SetSupplier(req.SupplierID)
		}
		product.IncrementVersion()
		return repos.Products().SaveWithVersion(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationUpdate,
		EntityType: ledger.EntityProduct,
		EntityID:   product.ID,
		EntityName: product.Name,
		Old:        oldSnap,
		New:        product.Snapshot(),
	})
	return ToProductResponse(product), nil
}

// DeleteProduct removes a product. Movement records referencing it by name
// are left in place; they surface as NOT_FOUND on their next stock write.
func (e *Executor) DeleteProduct(ctx context.Context, sess Session, id int64) error {
	product, err := e.repos.Products().FindByID(ctx, sess.Scope, id)
	if err != nil {
		return err
	}
	if err := e.repos.Products().Delete(ctx, sess.Scope, id); err != nil {
		return err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationDelete,
		EntityType: ledger.EntityProduct,
		EntityID:   product.ID,
		EntityName: product.Name,
		Old:        product.Snapshot(),
	})
	return nil
}

// GetProduct returns one product.
func (e *Executor) GetProduct(ctx context.Context, sess Session, id int64) (*ProductResponse, error) {
	product, err := e.repos.Products().FindByID(ctx, sess.Scope, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// ListProducts returns a page of the product catalog.
func (e *Executor) ListProducts(ctx context.Context, sess Session, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := filter.toShared()
	products, err := e.repos.Products().List(ctx, sess.Scope, f)
	if err != nil {
		return nil, err
	}
	total, err := e.repos.Products().Count(ctx, sess.Scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = *ToProductResponse(&products[i])
	}
	out := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &out, nil
}

// AdjustStock applies a signed correction to a product's stock. The caller
// supplies the version it last observed; a mismatch fails fast with
// VERSION_CONFLICT before any write, and the conditional save guards the
// race window after the check.
func (e *Executor) AdjustStock(ctx context.Context, sess Session, req AdjustStockRequest) (*ProductResponse, error) {
	if req.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment quantity cannot be zero")
	}
	var product *ledger.Product
	err := e.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, sess.Scope, req.ProductID)
		if err != nil {
			return err
		}
		if product.Version != req.ExpectedVersion {
			return shared.ErrVersionConflict
		}
		oldSnap := product.Snapshot()
		if err := product.ApplyDelta(ledger.AdjustmentDelta(req.Quantity)); err != nil {
			return err
		}
		if err := repos.Products().SaveWithVersion(ctx, product); err != nil {
			return err
		}
		_, err = e.recorder.Record(ctx, sess, repos.AuditLogs(), AuditEvent{
			Operation:  ledger.OperationUpdate,
			EntityType: ledger.EntityProduct,
			EntityID:   product.ID,
			EntityName: product.Name,
			Old:        oldSnap,
			New:        product.Snapshot(),
			Note:       req.Note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Parties

// CreateParty adds a customer, supplier or employee record.
func (e *Executor) CreateParty(ctx context.Context, sess Session, req CreatePartyRequest) (*PartyResponse, error) {
	party, err := partner.NewParty(sess.Scope, req.Kind, req.Name, req.Note)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Parties().Create(ctx, party); err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationCreate,
		EntityType: party.Kind.String(),
		EntityID:   party.ID,
		EntityName: party.Name,
		New:        ledger.Snapshot(party.Snapshot()),
	})
	return ToPartyResponse(party), nil
}

// UpdateParty edits a party record.
func (e *Executor) UpdateParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64, req UpdatePartyRequest) (*PartyResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	party, err := e.repos.Parties().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return nil, err
	}
	oldSnap := ledger.Snapshot(party.Snapshot())
	if req.Name != nil {
		if err := party.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		party.SetNote(*req.Note)
	}
	if err := e.repos.Parties().Update(ctx, party); err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationUpdate,
		EntityType: kind.String(),
		EntityID:   party.ID,
		EntityName: party.Name,
		Old:        oldSnap,
		New:        ledger.Snapshot(party.Snapshot()),
	})
	return ToPartyResponse(party), nil
}

// DeleteParty removes a party record. Movements keep their party reference
// as a dangling ID; history stays intact.
func (e *Executor) DeleteParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	party, err := e.repos.Parties().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return err
	}
	if err := e.repos.Parties().Delete(ctx, sess.Scope, kind, id); err != nil {
		return err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationDelete,
		EntityType: kind.String(),
		EntityID:   party.ID,
		EntityName: party.Name,
		Old:        ledger.Snapshot(party.Snapshot()),
	})
	return nil
}

// GetParty returns one party record.
func (e *Executor) GetParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64) (*PartyResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	party, err := e.repos.Parties().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return nil, err
	}
	return ToPartyResponse(party), nil
}

// ListParties returns a page of parties of one kind.
func (e *Executor) ListParties(ctx context.Context, sess Session, filter PartyListFilter) (*shared.Paginated[PartyResponse], error) {
	if !filter.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid party kind")
	}
	f := filter.toShared()
	parties, err := e.repos.Parties().List(ctx, sess.Scope, filter.Kind, f)
	if err != nil {
		return nil, err
	}
	total, err := e.repos.Parties().Count(ctx, sess.Scope, filter.Kind, f)
	if err != nil {
		return nil, err
	}
	items := make([]PartyResponse, len(parties))
	for i := range parties {
		items[i] = *ToPartyResponse(&parties[i])
	}
	out := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &out, nil
}

// Cash flows

// CreateCashFlow records an income or remittance. These never touch stock,
// so no version guard is involved.
func (e *Executor) CreateCashFlow(ctx context.Context, sess Session, req CreateCashFlowRequest) (*CashFlowResponse, error) {
	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	flow, err := ledger.NewCashFlow(sess.Scope, req.Kind, occurredAt, req.PartyID, req.Amount, req.Discount, req.EmployeeID, req.PaymentMethod, req.Note)
	if err != nil {
		return nil, err
	}
	if flow.PartyID != nil {
		if _, err := e.repos.Parties().FindByID(ctx, sess.Scope, flow.Kind.PartyKind(), *flow.PartyID); err != nil {
			return nil, err
		}
	}
	if flow.EmployeeID != nil {
		if _, err := e.repos.Parties().FindByID(ctx, sess.Scope, partner.PartyKindEmployee, *flow.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := e.repos.CashFlows().Create(ctx, flow); err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationCreate,
		EntityType: flow.Kind.String(),
		EntityID:   flow.ID,
		EntityName: flow.Amount.String(),
		New:        flow.Snapshot(),
	})
	return ToCashFlowResponse(flow), nil
}

// UpdateCashFlow edits an income or remittance record.
func (e *Executor) UpdateCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64, req UpdateCashFlowRequest) (*CashFlowResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	flow, err := e.repos.CashFlows().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return nil, err
	}
	oldSnap := flow.Snapshot()
	if req.OccurredAt != nil {
		flow.OccurredAt = *req.OccurredAt
	}
	if req.ClearParty {
		flow.PartyID = nil
	} else if req.PartyID != nil {
		if _, err := e.repos.Parties().FindByID(ctx, sess.Scope, kind.PartyKind(), *req.PartyID); err != nil {
			return nil, err
		}
		flow.PartyID = req.PartyID
	}
	if req.Amount != nil {
		if err := flow.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Discount != nil {
		if err := flow.SetDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.EmployeeID != nil {
		if _, err := e.repos.Parties().FindByID(ctx, sess.Scope, partner.PartyKindEmployee, *req.EmployeeID); err != nil {
			return nil, err
		}
		flow.EmployeeID = req.EmployeeID
	}
	if req.PaymentMethod != nil {
		if err := flow.SetPaymentMethod(*req.PaymentMethod); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		flow.Note = *req.Note
	}
	if err := e.repos.CashFlows().Update(ctx, flow); err != nil {
		return nil, err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationUpdate,
		EntityType: kind.String(),
		EntityID:   flow.ID,
		EntityName: flow.Amount.String(),
		Old:        oldSnap,
		New:        flow.Snapshot(),
	})
	return ToCashFlowResponse(flow), nil
}

// DeleteCashFlow removes an income or remittance record.
func (e *Executor) DeleteCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	flow, err := e.repos.CashFlows().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return err
	}
	if err := e.repos.CashFlows().Delete(ctx, sess.Scope, kind, id); err != nil {
		return err
	}
	e.recordBestEffort(ctx, sess, AuditEvent{
		Operation:  ledger.OperationDelete,
		EntityType: kind.String(),
		EntityID:   flow.ID,
		EntityName: flow.Amount.String(),
		Old:        flow.Snapshot(),
	})
	return nil
}

// GetCashFlow returns one income or remittance record.
func (e *Executor) GetCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64) (*CashFlowResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	flow, err := e.repos.CashFlows().FindByID(ctx, sess.Scope, kind, id)
	if err != nil {
		return nil, err
	}
	return ToCashFlowResponse(flow), nil
}

// ListCashFlows returns a page of income or remittance records.
func (e *Executor) ListCashFlows(ctx context.Context, sess Session, filter CashFlowListFilter) (*shared.Paginated[CashFlowResponse], error) {
	if !filter.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid cash flow kind")
	}
	f := filter.toShared()
	flows, err := e.repos.CashFlows().List(ctx, sess.Scope, filter.Kind, f)
	if err != nil {
		return nil, err
	}
	total, err := e.repos.CashFlows().Count(ctx, sess.Scope, filter.Kind, f)
	if err != nil {
		return nil, err
	}
	items := make([]CashFlowResponse, len(flows))
	for i := range flows {
		items[i] = *ToCashFlowResponse(&flows[i])
	}
	out := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &out, nil
}

// Audit trail

// ListAuditLogs returns a page of the audit trail, newest first.
func (e *Executor) ListAuditLogs(ctx context.Context, sess Session, filter AuditListFilter) (*shared.Paginated[AuditLogEntryResponse], error) {
	f := filter.toShared()
	entries, err := e.repos.AuditLogs().List(ctx, sess.Scope, f)
	if err != nil {
		return nil, err
	}
	total, err := e.repos.AuditLogs().Count(ctx, sess.Scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]AuditLogEntryResponse, len(entries))
	for i := range entries {
		items[i] = *ToAuditLogEntryResponse(&entries[i])
	}
	out := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &out, nil
}

// GetAuditLog returns one audit trail entry with its decoded snapshots.
func (e *Executor) GetAuditLog(ctx context.Context, sess Session, id int64) (*AuditLogEntryResponse, error) {
	entry, err := e.repos.AuditLogs().FindByID(ctx, sess.Scope, id)
	if err != nil {
		return nil, err
	}
	return ToAuditLogEntryResponse(entry), nil
}

// PurgeAuditLogs deletes audit entries older than the retention window and
// returns how many were removed.
func (e *Executor) PurgeAuditLogs(ctx context.Context, sess Session, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Retention window must be positive")
	}
	cutoff := time.Now().Add(-olderThan)
	removed, err := e.repos.AuditLogs().PurgeOlderThan(ctx, sess.Scope, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		e.log.Info("purged audit entries",
			zap.Int64("removed", removed),
			zap.Time("cutoff", cutoff),
		)
	}
	return removed, nil
}
