package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/domain/shared"
)

func TestCashFlowKind_PartyKind(t *testing.T) {
	assert.Equal(t, partner.PartyKindCustomer, CashFlowIncome.PartyKind())
	assert.Equal(t, partner.PartyKindSupplier, CashFlowRemittance.PartyKind())
}

func TestNewCashFlow_Success(t *testing.T) {
	occurred := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	flow, err := NewCashFlow(testScope, CashFlowIncome, occurred, nil, d("100"), d("5"), nil, PaymentWeChat, "morning sales")
	require.NoError(t, err)

	assert.Equal(t, CashFlowIncome, flow.Kind)
	assert.True(t, flow.Amount.Equal(d("100")))
	assert.True(t, flow.Discount.Equal(d("5")))
	assert.Equal(t, PaymentWeChat, flow.PaymentMethod)
	assert.True(t, occurred.Equal(flow.OccurredAt))
}

func TestNewCashFlow_Validation(t *testing.T) {
	tests := []struct {
		name     string
		kind     CashFlowKind
		amount   string
		discount string
		method   PaymentMethod
	}{
		{"invalid kind", CashFlowKind("expense"), "100", "0", PaymentCash},
		{"zero amount", CashFlowIncome, "0", "0", PaymentCash},
		{"negative amount", CashFlowIncome, "-1", "0", PaymentCash},
		{"negative discount", CashFlowIncome, "100", "-1", PaymentCash},
		{"remittance with discount", CashFlowRemittance, "100", "5", PaymentCash},
		{"invalid payment method", CashFlowIncome, "100", "0", PaymentMethod("iou")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCashFlow(testScope, tt.kind, time.Now(), nil, d(tt.amount), d(tt.discount), nil, tt.method, "")
			assert.Equal(t, "INVALID_INPUT", shared.CodeOf(err))
		})
	}
}

func TestCashFlow_Setters(t *testing.T) {
	flow, err := NewCashFlow(testScope, CashFlowRemittance, time.Now(), nil, d("200"), d("0"), nil, PaymentBankCard, "")
	require.NoError(t, err)

	require.NoError(t, flow.SetAmount(d("250")))
	assert.True(t, flow.Amount.Equal(d("250")))
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(flow.SetAmount(d("0"))))

	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(flow.SetDiscount(d("5"))))
	assert.NoError(t, flow.SetDiscount(d("0")))

	require.NoError(t, flow.SetPaymentMethod(PaymentCash))
	assert.Equal(t, "INVALID_INPUT", shared.CodeOf(flow.SetPaymentMethod(PaymentMethod("iou"))))
}
