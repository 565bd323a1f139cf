package statemachine_test

import (
	"testing"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupOfWorker(t *testing.T) {
	tests := map[models.TradeState]string{
		models.ProposalState:         "proposal",
		models.ReorderCancelState:    "proposal",
		models.WorkState:             "work",
		models.NegotiationState:      "work",
		models.FinishRequestState:    "work",
		models.FinishRejectedState:   "work",
		models.DeliveryState:         "delivery",
		models.FinishState:           "finish",
		models.ClosedState:           "closed",
		models.TerminatedState:       "closed",
		models.DeliveryRejectedState: "work",
	}
	for state, want := range tests {
		group := statemachine.GroupOf(state, models.WorkerAudience)
		require.True(t, group.Classified(), string(state))
		assert.Equal(t, want, group.Name, string(state))
	}
}

func TestGroupOfAdmin(t *testing.T) {
	tests := map[models.TradeState]int{
		models.ProposalState:           1,
		models.ReorderState:            1,
		models.ReProposalState:         2,
		models.WorkState:               3,
		models.FinishRejectedState:     3,
		models.NegotiationState:        4,
		models.QuantityState:           5,
		models.CancelByContractorState: 6,
		models.ReorderCancelState:      6,
		models.DeliveryState:           7,
		models.FinishRequestState:      8,
		models.FinishState:             8,
		models.ClosedState:             9,
		models.TerminatedState:         10,
	}
	for state, want := range tests {
		group := statemachine.GroupOf(state, models.AdminAudience)
		require.NotNil(t, group.ID, string(state))
		assert.Equal(t, want, *group.ID, string(state))
	}
}

func TestGroupOfIsTotal(t *testing.T) {
	workerIDs := map[int]bool{}
	adminIDs := map[int]bool{}
	for _, state := range models.AllTradeStates {
		worker := statemachine.GroupOf(state, models.WorkerAudience)
		admin := statemachine.GroupOf(state, models.AdminAudience)
		require.True(t, worker.Classified(), string(state))
		require.True(t, admin.Classified(), string(state))
		workerIDs[*worker.ID] = true
		adminIDs[*admin.ID] = true

		assert.Equal(t, worker, statemachine.GroupOf(state, models.WorkerAudience))
	}
	assert.Len(t, workerIDs, 5)
	assert.Len(t, adminIDs, 10)
}

func TestGroupOfUnclassified(t *testing.T) {
	worker := statemachine.GroupOf("archived", models.WorkerAudience)
	assert.Nil(t, worker.ID)
	assert.Equal(t, "other", worker.Label)

	admin := statemachine.GroupOf(models.NoTrade, models.AdminAudience)
	assert.Nil(t, admin.ID)
	assert.Equal(t, "undefined", admin.Label)
	assert.Equal(t, "undefined", admin.LabelFor(models.Outsourcer))
}

func TestGroupLabelsPerRole(t *testing.T) {
	group := statemachine.GroupOf(models.DeliveryState, models.WorkerAudience)
	assert.Equal(t, "delivered", group.LabelFor(models.Contractor))
	assert.Equal(t, "reviewing delivery", group.LabelFor(models.Outsourcer))

	admin := statemachine.GroupOf(models.DeliveryState, models.AdminAudience)
	assert.Equal(t, "delivery", admin.LabelFor(models.Contractor))
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "please rate", statemachine.StateLabel(models.FinishState, models.Contractor))
	assert.Equal(t, "cancellation requested", statemachine.StateLabel(models.CancelByOutsourcerState, models.Outsourcer))
	assert.Equal(t, "other", statemachine.StateLabel("archived", models.Contractor))
}
