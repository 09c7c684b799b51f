package ledger

import (
	"context"
	"time"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
	"go.uber.org/zap"
)

// Service is the single entry point for ledger operations. Per call it
// resolves the workspace session once and dispatches to the backend the
// workspace lives on, so every read and write of one operation sees the
// same scope and the same storage side.
type Service struct {
	resolver ScopeResolver
	local    Backend
	remote   Backend
	log      *zap.Logger
}

// NewService creates a Service routing between the given backends. remote
// may be nil when no sync server is configured; server-stored workspaces
// then fail with INVALID_INPUT.
func NewService(resolver ScopeResolver, local, remote Backend, log *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		local:    local,
		remote:   remote,
		log:      log,
	}
}

func (s *Service) route(ctx context.Context) (Session, Backend, error) {
	sess, err := s.resolver.Resolve(ctx)
	if err != nil {
		return Session{}, nil, err
	}
	switch sess.Storage {
	case StorageLocal:
		return sess, s.local, nil
	case StorageServer:
		if s.remote == nil {
			return Session{}, nil, shared.NewDomainError("INVALID_INPUT", "No sync server configured for this workspace")
		}
		return sess, s.remote, nil
	default:
		return Session{}, nil, shared.NewDomainError("INVALID_INPUT", "Unknown storage kind")
	}
}

// Movements

func (s *Service) CreateMovement(ctx context.Context, req CreateMovementRequest) (*MovementResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CreateMovement(ctx, sess, req)
}

func (s *Service) UpdateMovement(ctx context.Context, kind ledger.MovementKind, id int64, req UpdateMovementRequest) (*MovementResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.UpdateMovement(ctx, sess, kind, id, req)
}

func (s *Service) DeleteMovement(ctx context.Context, kind ledger.MovementKind, id int64) error {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return err
	}
	return backend.DeleteMovement(ctx, sess, kind, id)
}

func (s *Service) GetMovement(ctx context.Context, kind ledger.MovementKind, id int64) (*MovementResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.GetMovement(ctx, sess, kind, id)
}

func (s *Service) ListMovements(ctx context.Context, kind ledger.MovementKind, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ListMovements(ctx, sess, kind, filter)
}

// Products

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CreateProduct(ctx, sess, req)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.UpdateProduct(ctx, sess, id, req)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return err
	}
	return backend.DeleteProduct(ctx, sess, id)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*ProductResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.GetProduct(ctx, sess, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ListProducts(ctx, sess, filter)
}

func (s *Service) AdjustStock(ctx context.Context, req AdjustStockRequest) (*ProductResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.AdjustStock(ctx, sess, req)
}

// Parties

func (s *Service) CreateParty(ctx context.Context, req CreatePartyRequest) (*PartyResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CreateParty(ctx, sess, req)
}

func (s *Service) UpdateParty(ctx context.Context, kind partner.PartyKind, id int64, req UpdatePartyRequest) (*PartyResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.UpdateParty(ctx, sess, kind, id, req)
}

func (s *Service) DeleteParty(ctx context.Context, kind partner.PartyKind, id int64) error {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return err
	}
	return backend.DeleteParty(ctx, sess, kind, id)
}

func (s *Service) GetParty(ctx context.Context, kind partner.PartyKind, id int64) (*PartyResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.GetParty(ctx, sess, kind, id)
}

func (s *Service) ListParties(ctx context.Context, filter PartyListFilter) (*shared.Paginated[PartyResponse], error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ListParties(ctx, sess, filter)
}

// Cash flows

func (s *Service) CreateCashFlow(ctx context.Context, req CreateCashFlowRequest) (*CashFlowResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CreateCashFlow(ctx, sess, req)
}

func (s *Service) UpdateCashFlow(ctx context.Context, kind ledger.CashFlowKind, id int64, req UpdateCashFlowRequest) (*CashFlowResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.UpdateCashFlow(ctx, sess, kind, id, req)
}

func (s *Service) DeleteCashFlow(ctx context.Context, kind ledger.CashFlowKind, id int64) error {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return err
	}
	return backend.DeleteCashFlow(ctx, sess, kind, id)
}

func (s *Service) GetCashFlow(ctx context.Context, kind ledger.CashFlowKind, id int64) (*CashFlowResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.GetCashFlow(ctx, sess, kind, id)
}

func (s *Service) ListCashFlows(ctx context.Context, filter CashFlowListFilter) (*shared.Paginated[CashFlowResponse], error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ListCashFlows(ctx, sess, filter)
}

// Audit trail

func (s *Service) ListAuditLogs(ctx context.Context, filter AuditListFilter) (*shared.Paginated[AuditLogEntryResponse], error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ListAuditLogs(ctx, sess, filter)
}

func (s *Service) GetAuditLog(ctx context.Context, id int64) (*AuditLogEntryResponse, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return nil, err
	}
	return backend.GetAuditLog(ctx, sess, id)
}

func (s *Service) PurgeAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	sess, backend, err := s.route(ctx)
	if err != nil {
		return 0, err
	}
	return backend.PurgeAuditLogs(ctx, sess, olderThan)
}
