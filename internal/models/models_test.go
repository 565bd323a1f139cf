package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentAmountJSON(t *testing.T) {
	amount := int64(1100)

	tests := []struct {
		name   string
		amount PaymentAmount
		want   string
	}{
		{"amount", PaymentAmount{Amount: &amount}, `1100`},
		{"not delivered", PaymentAmount{Amount: &amount, NotDelivered: true}, `"not delivered"`},
		{"unknown", PaymentAmount{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.amount)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestRolesAndJobShareNamespace(t *testing.T) {
	job := Job{ID: "job-1", OutsourcerID: "out-1", Deferrable: true}
	assert.Equal(t, TradeRole("outsourcer"), Outsourcer)
	assert.Equal(t, TradeRole("contractor"), Contractor)
	assert.True(t, job.Deferrable)
}

func TestClosureReasonLabel(t *testing.T) {
	assert.Equal(t, "completed normally", ClosedNormally.Label())
	assert.Equal(t, ClosureException.Label(), ClosureReason("unknown").Label())
}

func TestTradeStatePredicates(t *testing.T) {
	assert.True(t, ClosedState.IsTerminal())
	assert.True(t, TerminatedState.IsTerminal())
	assert.False(t, FinishState.IsTerminal())
	assert.True(t, ReorderCancelState.IsPreCommitment())
	assert.False(t, WorkState.IsPreCommitment())
	assert.True(t, AutoTerminate.IsProposalAction())
	assert.False(t, Deliver.IsProposalAction())
	assert.True(t, Deliver.IsDeliveryAction())
	assert.Equal(t, TradeAction(""), Trade{}.Action())
}
