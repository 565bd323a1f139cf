package models

import "time"

type (
	TradeState  string // Состояние сделки
	TradeAction string // Действие участника сделки
	TradeRole   string // Роль участника сделки
	Audience    string // Аудитория группировки состояний
)

const (
	Outsourcer TradeRole = "outsourcer" // Заказчик
	Contractor TradeRole = "contractor" // Исполнитель

	WorkerAudience Audience = "worker" // Экран исполнителя (5 групп)
	AdminAudience  Audience = "admin"  // Админка (10 групп)
)

const (
	NoTrade TradeState = "" // Сделки еще нет

	ProposalState      TradeState = "proposal"       // Исполнитель сделал предложение
	ReProposalState    TradeState = "reproposal"     // Заказчик запросил новое предложение
	ReorderState       TradeState = "reorder"        // Заказчик предложил заказ напрямую
	ReorderCancelState TradeState = "reorder_cancel" // Заказчик просит отозвать прямой заказ

	WorkState               TradeState = "work"              // Заказ размещен, идет работа
	NegotiationState        TradeState = "negotiation"       // Исполнитель просит изменить цену
	QuantityState           TradeState = "quantity"          // Заказчик просит изменить количество
	CancelByOutsourcerState TradeState = "cancel_outsourcer" // Заказчик запросил отмену
	CancelByContractorState TradeState = "cancel_contractor" // Исполнитель запросил отмену
	DeliveryState           TradeState = "delivery"          // Работа сдана
	DeliveryRejectedState   TradeState = "delivery_rejected" // Сдача отклонена
	FinishRequestState      TradeState = "finish_request"    // Заказчик предложил завершить
	FinishRejectedState     TradeState = "finish_rejected"   // Исполнитель отказался завершать
	FinishState             TradeState = "finish"            // Завершено, ждем оценку исполнителя
	ClosedState             TradeState = "closed"            // Закрыто штатно
	TerminatedState         TradeState = "terminated"        // Прекращено
)

const (
	Propose           TradeAction = "propose"
	RePropose         TradeAction = "repropose"
	RequestReProposal TradeAction = "request_reproposal"
	Reorder           TradeAction = "reorder"
	AcceptProposal    TradeAction = "accept_proposal"
	RejectProposal    TradeAction = "reject_proposal"
	CancelProposal    TradeAction = "cancel_proposal"

	RequestNegotiation  TradeAction = "request_negotiation"
	AcceptNegotiation   TradeAction = "accept_negotiation"
	RejectNegotiation   TradeAction = "reject_negotiation"
	WithdrawNegotiation TradeAction = "withdraw_negotiation"

	RequestQuantity  TradeAction = "request_quantity"
	AcceptQuantity   TradeAction = "accept_quantity"
	RejectQuantity   TradeAction = "reject_quantity"
	WithdrawQuantity TradeAction = "withdraw_quantity"

	RequestCancel  TradeAction = "request_cancel"
	AcceptCancel   TradeAction = "accept_cancel"
	RejectCancel   TradeAction = "reject_cancel"
	WithdrawCancel TradeAction = "withdraw_cancel"

	Deliver          TradeAction = "deliver"
	AcceptDelivery   TradeAction = "accept_delivery"
	RejectDelivery   TradeAction = "reject_delivery"
	WithdrawDelivery TradeAction = "withdraw_delivery"

	RequestFinish TradeAction = "request_finish"
	AcceptFinish  TradeAction = "accept_finish"
	RejectFinish  TradeAction = "reject_finish"
	Rate          TradeAction = "rate"

	// Действия в обход таблицы переходов.
	ForceFinish       TradeAction = "force_finish"
	AdminForceFinish  TradeAction = "admin_force_finish"
	AdminForcePayment TradeAction = "admin_force_payment"
	AdminForceCancel  TradeAction = "admin_force_cancel"
	AutoTerminate     TradeAction = "auto_terminate"
	AutoFinish        TradeAction = "auto_finish"
)

// AllTradeStates перечисляет все хранимые состояния сделки.
var AllTradeStates = []TradeState{
	ProposalState, ReProposalState, ReorderState, ReorderCancelState,
	WorkState, NegotiationState, QuantityState, CancelByOutsourcerState, CancelByContractorState,
	DeliveryState, DeliveryRejectedState, FinishRequestState, FinishRejectedState, FinishState,
	ClosedState, TerminatedState,
}

// IsTerminal сообщает, что из состояния нет переходов.
func (s TradeState) IsTerminal() bool {
	return s == ClosedState || s == TerminatedState
}

// IsPreCommitment сообщает, что заказ еще не размещен.
func (s TradeState) IsPreCommitment() bool {
	switch s {
	case ProposalState, ReProposalState, ReorderState, ReorderCancelState:
		return true
	}
	return false
}

// IsProposalAction сообщает, что строка с этим действием входит в историю предложений.
func (a TradeAction) IsProposalAction() bool {
	switch a {
	case Propose, RePropose, RequestReProposal, Reorder, AcceptProposal, RejectProposal, CancelProposal, AutoTerminate:
		return true
	}
	return false
}

// IsDeliveryAction сообщает, что строка с этим действием является записью о сдаче работы.
func (a TradeAction) IsDeliveryAction() bool {
	return a == Deliver
}

// Trade представляет одну неизменяемую строку истории сделки.
type Trade struct {
	ID                 string       `json:"id"`
	JobID              string       `json:"jobId"`
	ContractorID       string       `json:"contractorId"`
	State              TradeState   `json:"state"`
	SelectedAction     *TradeAction `json:"selectedAction"`
	ProposedPrice      *int64       `json:"proposedPrice"`
	Quantity           *int64       `json:"quantity"`
	OfferedPrice       *int64       `json:"offeredPrice,omitempty"`
	OfferedQuantity    *int64       `json:"offeredQuantity,omitempty"`
	WorkedMinutes      *int         `json:"workedMinutes,omitempty"`
	RejectReasonID     *int         `json:"rejectReasonId"`
	RejectReasonDetail *string      `json:"rejectReasonDetail,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// Action возвращает действие строки или пустое значение.
func (t Trade) Action() TradeAction {
	if t.SelectedAction == nil {
		return ""
	}
	return *t.SelectedAction
}

// CurrentTrade представляет последнюю строку истории пары (заказ, исполнитель).
type CurrentTrade struct {
	Trade
	OutsourcerID string `json:"outsourcerId"`
	JobTitle     string `json:"jobTitle"`
}

// TradeActionRequest представляет структуру запроса на действие участника.
type TradeActionRequest struct {
	Role               TradeRole   `json:"role"`
	ActorID            string      `json:"actorId"`
	Action             TradeAction `json:"action"`
	OfferedPrice       *int64      `json:"offeredPrice"`
	OfferedQuantity    *int64      `json:"offeredQuantity"`
	WorkedMinutes      *int        `json:"workedMinutes"`
	RejectReasonID     *int        `json:"rejectReasonId"`
	RejectReasonDetail *string     `json:"rejectReasonDetail"`
}

// TradeOverrideRequest представляет структуру запроса администратора.
type TradeOverrideRequest struct {
	Action TradeAction `json:"action"`
}

// TradeView представляет текущее состояние сделки вместе с группой.
type TradeView struct {
	CurrentTrade
	StateLabel     string        `json:"stateLabel"`
	GroupID        *int          `json:"groupId"`
	GroupName      string        `json:"groupName"`
	GroupLabel     string        `json:"groupLabel"`
	AllowedActions []TradeAction `json:"allowedActions"`
}
