package statemachine

import (
	"testing"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActions = []models.TradeAction{
	models.Propose, models.RePropose, models.RequestReProposal, models.Reorder,
	models.AcceptProposal, models.RejectProposal, models.CancelProposal,
	models.RequestNegotiation, models.AcceptNegotiation, models.RejectNegotiation, models.WithdrawNegotiation,
	models.RequestQuantity, models.AcceptQuantity, models.RejectQuantity, models.WithdrawQuantity,
	models.RequestCancel, models.AcceptCancel, models.RejectCancel, models.WithdrawCancel,
	models.Deliver, models.AcceptDelivery, models.RejectDelivery, models.WithdrawDelivery,
	models.RequestFinish, models.AcceptFinish, models.RejectFinish, models.Rate,
	models.ForceFinish, models.AdminForceFinish, models.AdminForcePayment, models.AdminForceCancel,
	models.AutoTerminate, models.AutoFinish,
}

var allRoles = []models.TradeRole{models.Outsourcer, models.Contractor}

func TestNextState(t *testing.T) {
	tests := []struct {
		name    string
		current models.TradeState
		role    models.TradeRole
		action  models.TradeAction
		want    models.TradeState
	}{
		{"contractor proposes", models.NoTrade, models.Contractor, models.Propose, models.ProposalState},
		{"outsourcer reorders", models.NoTrade, models.Outsourcer, models.Reorder, models.ReorderState},
		{"proposal accepted", models.ProposalState, models.Outsourcer, models.AcceptProposal, models.WorkState},
		{"proposal rejected", models.ProposalState, models.Outsourcer, models.RejectProposal, models.TerminatedState},
		{"reproposal requested", models.ProposalState, models.Outsourcer, models.RequestReProposal, models.ReProposalState},
		{"reproposal sent", models.ReProposalState, models.Contractor, models.RePropose, models.ProposalState},
		{"reorder accepted", models.ReorderState, models.Contractor, models.AcceptProposal, models.WorkState},
		{"reorder withdrawal agreed", models.ReorderCancelState, models.Contractor, models.CancelProposal, models.TerminatedState},
		{"reorder withdrawal refused", models.ReorderCancelState, models.Contractor, models.RejectCancel, models.ReorderState},
		{"negotiation accepted", models.NegotiationState, models.Outsourcer, models.AcceptNegotiation, models.WorkState},
		{"quantity withdrawn", models.QuantityState, models.Outsourcer, models.WithdrawQuantity, models.WorkState},
		{"delivery accepted", models.DeliveryState, models.Outsourcer, models.AcceptDelivery, models.FinishState},
		{"delivery rejected", models.DeliveryState, models.Outsourcer, models.RejectDelivery, models.DeliveryRejectedState},
		{"redelivery", models.DeliveryRejectedState, models.Contractor, models.Deliver, models.DeliveryState},
		{"finish refused", models.FinishRequestState, models.Contractor, models.RejectFinish, models.FinishRejectedState},
		{"finish requested again", models.FinishRejectedState, models.Outsourcer, models.RequestFinish, models.FinishRequestState},
		{"rated", models.FinishState, models.Contractor, models.Rate, models.ClosedState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextState(tt.current, tt.role, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStateCancelReturnsToWork(t *testing.T) {
	requests := map[models.TradeRole]models.TradeState{
		models.Outsourcer: models.CancelByOutsourcerState,
		models.Contractor: models.CancelByContractorState,
	}
	counterparty := map[models.TradeRole]models.TradeRole{
		models.Outsourcer: models.Contractor,
		models.Contractor: models.Outsourcer,
	}

	for requester, pending := range requests {
		got, err := NextState(models.WorkState, requester, models.RequestCancel)
		require.NoError(t, err)
		require.Equal(t, pending, got)

		other := counterparty[requester]

		got, err = NextState(pending, other, models.RejectCancel)
		require.NoError(t, err)
		assert.Equal(t, models.WorkState, got)

		got, err = NextState(pending, requester, models.WithdrawCancel)
		require.NoError(t, err)
		assert.Equal(t, models.WorkState, got)

		got, err = NextState(pending, other, models.AcceptCancel)
		require.NoError(t, err)
		assert.Equal(t, models.TerminatedState, got)

		_, err = NextState(pending, requester, models.AcceptCancel)
		assert.ErrorIs(t, err, ErrIllegalTransition, "requester cannot accept own cancel request")
	}
}

func TestNextStateRejectsUnlistedTriples(t *testing.T) {
	states := append([]models.TradeState{models.NoTrade}, models.AllTradeStates...)
	for _, state := range states {
		for _, role := range allRoles {
			for _, action := range allActions {
				_, listed := transitionTable[transitionKey{state, role, action}]
				got, err := NextState(state, role, action)
				if listed {
					assert.NoError(t, err, "%s/%s/%s", state, role, action)
					continue
				}
				assert.ErrorIs(t, err, ErrIllegalTransition, "%s/%s/%s", state, role, action)
				assert.Equal(t, state, got, "state must not change on rejected command")
			}
		}
	}
}

func TestOverrideActionsAreNotInTable(t *testing.T) {
	for key := range transitionTable {
		assert.False(t, IsOverride(key.action), "override %s must bypass the table", key.action)
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, state := range []models.TradeState{models.ClosedState, models.TerminatedState} {
		for _, role := range allRoles {
			assert.Empty(t, AllowedActions(state, role))
		}
	}
}

func TestEveryPathFromProposalEndsWithoutLeavingTerminal(t *testing.T) {
	seen := map[models.TradeState]bool{models.NoTrade: true}
	queue := []models.TradeState{models.NoTrade}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, role := range allRoles {
			for _, action := range AllowedActions(state, role) {
				next, err := NextState(state, role, action)
				require.NoError(t, err)
				if state.IsTerminal() {
					t.Fatalf("transition out of terminal state %s", state)
				}
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	for _, state := range models.AllTradeStates {
		assert.True(t, seen[state], "state %s is unreachable", state)
	}
}

func TestAllowedActions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.TradeAction{models.AcceptProposal, models.RejectProposal, models.RequestReProposal},
		AllowedActions(models.ProposalState, models.Outsourcer))
	assert.Equal(t, []models.TradeAction{models.CancelProposal}, AllowedActions(models.ProposalState, models.Contractor))
	assert.Equal(t, []models.TradeAction{models.Rate}, AllowedActions(models.FinishState, models.Contractor))
}

func TestOverrideState(t *testing.T) {
	tests := map[models.TradeAction]models.TradeState{
		models.ForceFinish:       models.FinishState,
		models.AdminForceFinish:  models.FinishState,
		models.AdminForcePayment: models.ClosedState,
		models.AdminForceCancel:  models.TerminatedState,
		models.AutoFinish:        models.ClosedState,
		models.AutoTerminate:     models.TerminatedState,
	}
	for action, want := range tests {
		got, err := OverrideState(action)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(action))
	}

	_, err := OverrideState(models.AcceptProposal)
	assert.ErrorIs(t, err, ErrNotOverride)
}
