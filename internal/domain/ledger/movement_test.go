package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
)

func TestMovementKind_PartyKind(t *testing.T) {
	assert.Equal(t, partner.PartyKindSupplier, MovementPurchase.PartyKind())
	assert.Equal(t, partner.PartyKindCustomer, MovementSale.PartyKind())
	assert.Equal(t, partner.PartyKindCustomer, MovementReturn.PartyKind())
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		kind     MovementKind
		quantity string
		wantErr  bool
	}{
		{"positive sale", MovementSale, "5", false},
		{"zero sale rejected", MovementSale, "0", true},
		{"negative sale rejected", MovementSale, "-5", true},
		{"positive return", MovementReturn, "2.5", false},
		{"negative return rejected", MovementReturn, "-2.5", true},
		{"positive purchase", MovementPurchase, "10", false},
		{"negative purchase allowed", MovementPurchase, "-10", false},
		{"zero purchase rejected", MovementPurchase, "0", true},
		{"invalid kind rejected", MovementKind("transfer"), "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuantity(tt.kind, d(tt.quantity))
			if tt.wantErr {
				assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewMovement_Success(t *testing.T) {
	partyID := int64(7)
	total := d("120.50")
	m, err := NewMovement(testScope, MovementPurchase, "  potato  ", d("10"), &partyID, nil, &total, "first batch")
	require.NoError(t, err)

	assert.Equal(t, MovementPurchase, m.Kind)
	assert.Equal(t, "potato", m.ProductName)
	assert.True(t, m.Quantity.Equal(d("10")))
	assert.Equal(t, int64(7), *m.PartyID)
	assert.True(t, m.TotalPrice.Equal(d("120.50")))
	assert.Equal(t, testScope.OwnerID, m.OwnerID)
	assert.Equal(t, testScope.WorkspaceID, m.WorkspaceID)
}

func TestNewMovement_Validation(t *testing.T) {
	tests := []struct {
		name        string
		kind        MovementKind
		productName string
		quantity    string
	}{
		{"invalid kind", MovementKind("transfer"), "potato", "1"},
		{"empty product name", MovementSale, "", "1"},
		{"blank product name", MovementSale, "   ", "1"},
		{"zero quantity", MovementSale, "potato", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMovement(testScope, tt.kind, tt.productName, d(tt.quantity), nil, nil, nil, "")
			assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
		})
	}
}

func TestMovement_Snapshot(t *testing.T) {
	m, err := NewMovement(testScope, MovementSale, "potato", d("3.5"), nil, nil, nil, "")
	require.NoError(t, err)
	m.ID = 11

	snap := m.Snapshot()
	assert.Equal(t, int64(11), snap["id"])
	assert.Equal(t, "sale", snap["kind"])
	assert.Equal(t, "potato", snap["productName"])
	assert.Equal(t, "3.5", snap["quantity"])
	assert.Nil(t, snap["partyId"])
	assert.Nil(t, snap["date"])
	assert.Nil(t, snap["totalPrice"])
}
