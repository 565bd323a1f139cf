package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ClosureReason - подробная причина закрытия сделки.
type ClosureReason string

const (
	ClosedNormally          ClosureReason = "closed"
	AutoClosed              ClosureReason = "auto_closed"
	ProposalRejected        ClosureReason = "proposal_rejected"
	ProposalCancelled       ClosureReason = "proposal_cancelled"
	ProposalAutoTerminated  ClosureReason = "proposal_auto_terminated"
	CancelledBeforeDelivery ClosureReason = "cancelled_before_delivery"
	CancelledAfterDelivery  ClosureReason = "cancelled_after_delivery"
	ClosureException        ClosureReason = "exception"
)

var closureLabels = map[ClosureReason]string{
	ClosedNormally:          "completed normally",
	AutoClosed:              "closed automatically after rating timeout",
	ProposalRejected:        "proposal rejected",
	ProposalCancelled:       "proposal cancelled",
	ProposalAutoTerminated:  "proposal expired",
	CancelledBeforeDelivery: "cancelled before delivery",
	CancelledAfterDelivery:  "cancelled after delivery",
	ClosureException:        "exception",
}

// Label возвращает текст причины закрытия.
func (r ClosureReason) Label() string {
	if label, ok := closureLabels[r]; ok {
		return label
	}
	return closureLabels[ClosureException]
}

// NotDeliveredMarker выводится вместо суммы оплаты, если работа не была сдана.
const NotDeliveredMarker = "not delivered"

// PaymentAmount - сумма оплаты, отсутствие суммы или пометка "не сдано".
type PaymentAmount struct {
	Amount       *int64
	NotDelivered bool
}

// MarshalJSON выводит число, null или строку NotDeliveredMarker.
func (p PaymentAmount) MarshalJSON() ([]byte, error) {
	if p.NotDelivered {
		return json.Marshal(NotDeliveredMarker)
	}
	return json.Marshal(p.Amount)
}

// ActualWorkedTime - фактически отработанное время из записи о сдаче.
type ActualWorkedTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// TradePrice представляет текущую цену сделки и сумму к оплате.
type TradePrice struct {
	UnitPrice           *int64           `json:"unitPrice"`
	Quantity            *int64           `json:"quantity"`
	PaymentPrice        *int64           `json:"paymentPrice"`
	Deferrable          bool             `json:"deferrable"`
	DeferringFeePercent *decimal.Decimal `json:"deferringFeePercent"`
}

// ClosureSummary представляет закрытую сделку с точки зрения исполнителя.
type ClosureSummary struct {
	JobID              string            `json:"jobId"`
	ContractorID       string            `json:"contractorId"`
	State              TradeState        `json:"state"`
	Reason             ClosureReason     `json:"closureReason"`
	ReasonLabel        string            `json:"closureReasonLabel"`
	UnitPrice          *int64            `json:"unitPrice"`
	Quantity           *int64            `json:"quantity"`
	PaymentPrice       PaymentAmount     `json:"paymentPrice"`
	ActualWorkedTime   *ActualWorkedTime `json:"actualWorkedTime"`
	RejectReasonText   *string           `json:"rejectReasonTxt"`
	RejectReasonDetail *string           `json:"rejectReasonDetail"`
	ClosedAt           time.Time         `json:"closedAt"`
}
