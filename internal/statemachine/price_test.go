package statemachine_test

import (
	"testing"
	"time"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPaymentPrice(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  *int64
		quantity   *int64
		deferrable bool
		fee        *decimal.Decimal
		want       *int64
	}{
		{"deferred with fee", i64(100), i64(10), true, pct("10"), i64(1100)},
		{"not deferrable ignores fee", i64(100), i64(10), false, pct("10"), i64(1000)},
		{"deferrable without fee rate", i64(100), i64(10), true, nil, i64(1000)},
		{"fee below half rounds down", i64(1005), i64(1), true, pct("5"), i64(1055)},
		{"fee at half rounds up", i64(1010), i64(1), true, pct("5"), i64(1061)},
		{"fractional percent at half", i64(1020), i64(1), true, pct("2.5"), i64(1046)},
		{"fractional percent below half", i64(1010), i64(1), true, pct("2.5"), i64(1035)},
		{"missing quantity", i64(100), nil, true, pct("10"), nil},
		{"missing price", nil, i64(3), false, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statemachine.PaymentPrice(tt.unitPrice, tt.quantity, tt.deferrable, tt.fee)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCurrentPriceMostRecentWins(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	history := []models.Trade{
		{State: models.ProposalState, OfferedPrice: i64(900), OfferedQuantity: i64(2), CreatedAt: base},
		{State: models.WorkState, ProposedPrice: i64(900), Quantity: i64(2), CreatedAt: base.Add(time.Hour)},
		{State: models.WorkState, ProposedPrice: i64(1200), Quantity: i64(2), CreatedAt: base.Add(3 * time.Hour)},
		{State: models.NegotiationState, OfferedPrice: i64(1500), CreatedAt: base.Add(4 * time.Hour)},
		{State: models.WorkState, ProposedPrice: i64(1000), Quantity: i64(5), CreatedAt: base.Add(2 * time.Hour)},
	}

	price := statemachine.CurrentPrice(history)
	require.True(t, price.Available())
	assert.Equal(t, int64(1200), *price.UnitPrice)
	assert.Equal(t, int64(2), *price.Quantity)
}

func TestCurrentPriceBeforeCommitment(t *testing.T) {
	history := []models.Trade{
		{State: models.ProposalState, OfferedPrice: i64(900), OfferedQuantity: i64(2)},
		{State: models.WorkState, ProposedPrice: i64(900)},
	}
	price := statemachine.CurrentPrice(history)
	assert.False(t, price.Available())
	assert.Nil(t, price.UnitPrice)
	assert.Nil(t, price.Quantity)

	assert.Nil(t, statemachine.PaymentPrice(price.UnitPrice, price.Quantity, true, pct("10")))
}
