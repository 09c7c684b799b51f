package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appledger "github.com/agrisale/manager/internal/application/ledger"
	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
)

var testSession = appledger.Session{
	Scope:        shared.Scope{OwnerID: 1, WorkspaceID: 7},
	Storage:      appledger.StorageServer,
	OperatorID:   3,
	OperatorName: "tester",
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, 5*time.Second, NewStaticTokenSource("test-token"), zap.NewNop())
	return NewBackend(client, zap.NewNop())
}

func TestClient_RequestHeaders(t *testing.T) {
	var captured http.Header
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "potato"})
	})

	_, err := backend.GetProduct(context.Background(), testSession, 1)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", captured.Get("Authorization"))
	assert.Equal(t, "7", captured.Get("X-Workspace-ID"))
	assert.NotEmpty(t, captured.Get("X-Request-ID"))
	assert.Equal(t, "application/json", captured.Get("Accept"))
}

func TestClient_EmptyTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("request must not reach the server without a token")
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 5*time.Second, NewStaticTokenSource(""), zap.NewNop())
	backend := NewBackend(client, zap.NewNop())

	_, err := backend.GetProduct(context.Background(), testSession, 1)
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
}

func TestBackend_CreateMovement_WireShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          12,
			"productName": "potato",
			"quantity":    10,
			"supplierId":  4,
		})
	})

	partyID := int64(4)
	price := dec("120.50")
	resp, err := backend.CreateMovement(context.Background(), testSession, appledger.CreateMovementRequest{
		Kind:        ledger.MovementPurchase,
		ProductName: "potato",
		Quantity:    dec("10"),
		PartyID:     &partyID,
		TotalPrice:  &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/purchases", gotPath)
	assert.Equal(t, "potato", gotBody["productName"])
	assert.Equal(t, float64(10), gotBody["quantity"])
	assert.Equal(t, float64(4), gotBody["supplierId"])
	assert.Equal(t, 120.50, gotBody["totalPurchasePrice"])

	assert.Equal(t, int64(12), resp.ID)
	assert.Equal(t, ledger.MovementPurchase, resp.Kind)
	require.NotNil(t, resp.PartyID)
	assert.Equal(t, int64(4), *resp.PartyID)
}

func TestBackend_SaleUsesCustomerFields(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "productName": "potato", "quantity": 3, "customerId": 9,
			"saleDate": "2026-08-01T00:00:00Z",
		})
	})

	partyID := int64(9)
	occurred := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	resp, err := backend.CreateMovement(context.Background(), testSession, appledger.CreateMovementRequest{
		Kind:        ledger.MovementSale,
		ProductName: "potato",
		Quantity:    dec("3"),
		PartyID:     &partyID,
		OccurredAt:  &occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/sales", gotPath)
	assert.Equal(t, float64(9), gotBody["customerId"])
	assert.Equal(t, "2026-08-01T00:00:00Z", gotBody["saleDate"])
	require.NotNil(t, resp.OccurredAt)
	assert.True(t, occurred.Equal(*resp.OccurredAt))
}

func TestBackend_AdjustStock_WireShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 5, "name": "potato", "stock": 7, "version": 2,
		})
	})

	resp, err := backend.AdjustStock(context.Background(), testSession, appledger.AdjustStockRequest{
		ProductID:       5,
		Quantity:        dec("-3"),
		ExpectedVersion: 1,
		Note:            "spoilage",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/products/5/stock", gotPath)
	assert.Equal(t, float64(-3), gotBody["quantity"])
	assert.Equal(t, float64(1), gotBody["version"])
	assert.Equal(t, "spoilage", gotBody["note"])
	assert.Equal(t, 2, resp.Version)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expectedCode string
	}{
		{"version conflict status", http.StatusConflict, `{"detail":"stale"}`, "VERSION_CONFLICT"},
		{"version conflict code", http.StatusBadRequest, `{"error_code":"VERSION_CONFLICT"}`, "VERSION_CONFLICT"},
		{"not found", http.StatusNotFound, `{"detail":"no such product"}`, "NOT_FOUND"},
		{"duplicate code", http.StatusBadRequest, `{"error_code":"DUPLICATE"}`, "DUPLICATE"},
		{"duplicate message", http.StatusBadRequest, `{"detail":"product already exists"}`, "DUPLICATE"},
		{"invalid input", http.StatusUnprocessableEntity, `{"detail":"quantity must be positive"}`, "INVALID_INPUT"},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, "UNKNOWN_ERROR"},
		{"garbage body", http.StatusInternalServerError, `not json`, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.expectedCode, shared.CodeOf(err))
		})
	}
}

func TestTranslateError_InsufficientStock(t *testing.T) {
	body := `{"error_code":"INSUFFICIENT_STOCK","detail":"insufficient stock","details":{"current":"8","required":"10"}}`
	err := translateError(http.StatusBadRequest, []byte(body))

	var insufficient *ledger.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.Current.Equal(dec("8")))
	assert.True(t, insufficient.Required.Equal(dec("10")))
	assert.True(t, insufficient.Shortfall().Equal(dec("2")))
}

func TestBackend_InsufficientStockFromServer(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"INSUFFICIENT_STOCK","detail":"insufficient stock","details":{"current":"8","required":"10"}}`))
	})

	_, err := backend.CreateMovement(context.Background(), testSession, appledger.CreateMovementRequest{
		Kind:        ledger.MovementSale,
		ProductName: "potato",
		Quantity:    dec("10"),
	})

	var insufficient *ledger.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.CodeOf(err))
}

func TestBackend_PurgeAuditLogs(t *testing.T) {
	var gotBody map[string]any
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/audit-logs/cleanup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"removed": 14})
	})

	removed, err := backend.PurgeAuditLogs(context.Background(), testSession, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, float64(2), gotBody["days"])
	assert.Equal(t, int64(14), removed)
}
