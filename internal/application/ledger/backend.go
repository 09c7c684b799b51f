package ledger

import (
	"context"
	"time"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
)

// Backend is the full operation surface a workspace's data lives behind.
// The local executor and the remote sync client both implement it, so the
// service can route per-workspace without callers noticing which side
// served them. Both implementations translate failures into the same
// domain error codes; a VERSION_CONFLICT reads the same whether the
// embedded database or the sync server raised it.
type Backend interface {
	// Movements

	CreateMovement(ctx context.Context, sess Session, req CreateMovementRequest) (*MovementResponse, error)
	UpdateMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64, req UpdateMovementRequest) (*MovementResponse, error)
	DeleteMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64) error
	GetMovement(ctx context.Context, sess Session, kind ledger.MovementKind, id int64) (*MovementResponse, error)
	ListMovements(ctx context.Context, sess Session, kind ledger.MovementKind, filter MovementListFilter) (*shared.Paginated[MovementResponse], error)

	// Products

	CreateProduct(ctx context.Context, sess Session, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, sess Session, id int64, req UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, sess Session, id int64) error
	GetProduct(ctx context.Context, sess Session, id int64) (*ProductResponse, error)
	ListProducts(ctx context.Context, sess Session, filter ProductListFilter) (*shared.Paginated[ProductResponse], error)
	AdjustStock(ctx context.Context, sess Session, req AdjustStockRequest) (*ProductResponse, error)

	// Parties

	CreateParty(ctx context.Context, sess Session, req CreatePartyRequest) (*PartyResponse, error)
	UpdateParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64, req UpdatePartyRequest) (*PartyResponse, error)
	DeleteParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64) error
	GetParty(ctx context.Context, sess Session, kind partner.PartyKind, id int64) (*PartyResponse, error)
	ListParties(ctx context.Context, sess Session, filter PartyListFilter) (*shared.Paginated[PartyResponse], error)

	// Cash flows

	CreateCashFlow(ctx context.Context, sess Session, req CreateCashFlowRequest) (*CashFlowResponse, error)
	UpdateCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64, req UpdateCashFlowRequest) (*CashFlowResponse, error)
	DeleteCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64) error
	GetCashFlow(ctx context.Context, sess Session, kind ledger.CashFlowKind, id int64) (*CashFlowResponse, error)
	ListCashFlows(ctx context.Context, sess Session, filter CashFlowListFilter) (*shared.Paginated[CashFlowResponse], error)

	// Audit trail

	ListAuditLogs(ctx context.Context, sess Session, filter AuditListFilter) (*shared.Paginated[AuditLogEntryResponse], error)
	GetAuditLog(ctx context.Context, sess Session, id int64) (*AuditLogEntryResponse, error)
	PurgeAuditLogs(ctx context.Context, sess Session, olderThan time.Duration) (int64, error)
}
