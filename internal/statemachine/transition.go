package statemachine

import (
	"fmt"

	"github.com/senyabanana/trade-service/internal/models"
)

type transitionKey struct {
	state  models.TradeState
	role   models.TradeRole
	action models.TradeAction
}

type transition struct {
	role   models.TradeRole
	action models.TradeAction
	next   models.TradeState
}

// resumable - состояния, из которых можно повторно сдать работу, запросить отмену или завершение.
var resumable = []transition{
	{models.Contractor, models.Deliver, models.DeliveryState},
	{models.Outsourcer, models.RequestCancel, models.CancelByOutsourcerState},
	{models.Contractor, models.RequestCancel, models.CancelByContractorState},
	{models.Outsourcer, models.RequestFinish, models.FinishRequestState},
}

var allowedTransitions = map[models.TradeState][]transition{
	models.NoTrade: {
		{models.Contractor, models.Propose, models.ProposalState},
		{models.Outsourcer, models.Reorder, models.ReorderState},
	},
	models.ProposalState: {
		{models.Outsourcer, models.AcceptProposal, models.WorkState},
		{models.Outsourcer, models.RejectProposal, models.TerminatedState},
		{models.Outsourcer, models.RequestReProposal, models.ReProposalState},
		{models.Contractor, models.CancelProposal, models.TerminatedState},
	},
	models.ReProposalState: {
		{models.Contractor, models.RePropose, models.ProposalState},
		{models.Contractor, models.CancelProposal, models.TerminatedState},
		{models.Outsourcer, models.RejectProposal, models.TerminatedState},
	},
	models.ReorderState: {
		{models.Contractor, models.AcceptProposal, models.WorkState},
		{models.Contractor, models.CancelProposal, models.TerminatedState},
		{models.Outsourcer, models.RequestCancel, models.ReorderCancelState},
	},
	models.ReorderCancelState: {
		{models.Contractor, models.CancelProposal, models.TerminatedState},
		{models.Contractor, models.RejectCancel, models.ReorderState},
		{models.Outsourcer, models.WithdrawCancel, models.ReorderState},
	},
	models.WorkState: {
		{models.Contractor, models.RequestNegotiation, models.NegotiationState},
		{models.Outsourcer, models.RequestQuantity, models.QuantityState},
		{models.Outsourcer, models.RequestCancel, models.CancelByOutsourcerState},
		{models.Contractor, models.RequestCancel, models.CancelByContractorState},
		{models.Contractor, models.Deliver, models.DeliveryState},
		{models.Outsourcer, models.RequestFinish, models.FinishRequestState},
	},
	models.NegotiationState: {
		{models.Outsourcer, models.AcceptNegotiation, models.WorkState},
		{models.Outsourcer, models.RejectNegotiation, models.WorkState},
		{models.Contractor, models.WithdrawNegotiation, models.WorkState},
	},
	models.QuantityState: {
		{models.Contractor, models.AcceptQuantity, models.WorkState},
		{models.Contractor, models.RejectQuantity, models.WorkState},
		{models.Outsourcer, models.WithdrawQuantity, models.WorkState},
	},
	models.CancelByOutsourcerState: {
		{models.Contractor, models.AcceptCancel, models.TerminatedState},
		{models.Contractor, models.RejectCancel, models.WorkState},
		{models.Outsourcer, models.WithdrawCancel, models.WorkState},
	},
	models.CancelByContractorState: {
		{models.Outsourcer, models.AcceptCancel, models.TerminatedState},
		{models.Outsourcer, models.RejectCancel, models.WorkState},
		{models.Contractor, models.WithdrawCancel, models.WorkState},
	},
	models.DeliveryState: {
		{models.Outsourcer, models.AcceptDelivery, models.FinishState},
		{models.Outsourcer, models.RejectDelivery, models.DeliveryRejectedState},
		{models.Contractor, models.WithdrawDelivery, models.WorkState},
	},
	models.DeliveryRejectedState: resumable,
	models.FinishRequestState: {
		{models.Contractor, models.AcceptFinish, models.FinishState},
		{models.Contractor, models.RejectFinish, models.FinishRejectedState},
	},
	models.FinishRejectedState: resumable,
	models.FinishState: {
		{models.Contractor, models.Rate, models.ClosedState},
	},
}

var transitionTable = buildTransitionTable()

func buildTransitionTable() map[transitionKey]models.TradeState {
	table := make(map[transitionKey]models.TradeState)
	for state, transitions := range allowedTransitions {
		for _, t := range transitions {
			table[transitionKey{state, t.role, t.action}] = t.next
		}
	}
	return table
}

// overrideTargets - служебные действия, которые перезаписывают состояние напрямую.
var overrideTargets = map[models.TradeAction]models.TradeState{
	models.ForceFinish:       models.FinishState,
	models.AdminForceFinish:  models.FinishState,
	models.AdminForcePayment: models.ClosedState,
	models.AdminForceCancel:  models.TerminatedState,
	models.AutoFinish:        models.ClosedState,
	models.AutoTerminate:     models.TerminatedState,
}

// NextState возвращает состояние, в которое сделка переходит после действия участника.
// Для не описанных в таблице троек возвращается ошибка ErrIllegalTransition.
func NextState(current models.TradeState, role models.TradeRole, action models.TradeAction) (models.TradeState, error) {
	next, ok := transitionTable[transitionKey{current, role, action}]
	if !ok {
		return current, fmt.Errorf("%w: %s cannot %s in state %q", ErrIllegalTransition, role, action, current)
	}
	return next, nil
}

// AllowedActions возвращает действия, доступные роли в текущем состоянии.
func AllowedActions(current models.TradeState, role models.TradeRole) []models.TradeAction {
	actions := []models.TradeAction{}
	for _, t := range allowedTransitions[current] {
		if t.role == role {
			actions = append(actions, t.action)
		}
	}
	return actions
}

// OverrideState возвращает целевое состояние служебного действия.
// Таблица переходов такие действия не проверяет.
func OverrideState(action models.TradeAction) (models.TradeState, error) {
	next, ok := overrideTargets[action]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotOverride, action)
	}
	return next, nil
}

// IsOverride сообщает, что действие применяется в обход таблицы переходов.
func IsOverride(action models.TradeAction) bool {
	_, ok := overrideTargets[action]
	return ok
}
