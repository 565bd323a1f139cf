package statemachine

import (
	"fmt"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/shopspring/decimal"
)

// ClosureInput - данные для классификации закрытой сделки.
type ClosureInput struct {
	Trade        models.Trade
	LastProposal *models.Trade
	LastDelivery *models.Trade
	// AutoFinished - оценка исполнителя проставлена автоматически по истечении срока.
	AutoFinished bool
}

// ReasonCatalog - справочник причин отклонения предложения.
type ReasonCatalog interface {
	RequiresDetail(reasonID int) bool
	Label(reasonID int) string
}

// Pricing - производные суммы, нужные для сводки по закрытию.
type Pricing struct {
	Price      Price
	Deferrable bool
	FeePercent *decimal.Decimal
}

// LastProposal возвращает последнюю строку истории предложений.
func LastProposal(history []models.Trade) *models.Trade {
	return lastMatching(history, func(t models.Trade) bool { return t.Action().IsProposalAction() })
}

// LastDelivery возвращает последнюю запись о сдаче работы.
func LastDelivery(history []models.Trade) *models.Trade {
	return lastMatching(history, func(t models.Trade) bool { return t.Action().IsDeliveryAction() })
}

func lastMatching(history []models.Trade, match func(models.Trade) bool) *models.Trade {
	var latest *models.Trade
	for i := range history {
		row := history[i]
		if !match(row) {
			continue
		}
		if latest == nil || !row.CreatedAt.Before(latest.CreatedAt) {
			latest = &row
		}
	}
	return latest
}

// ClassifyClosure определяет причину закрытия сделки. Правила проверяются по порядку,
// побеждает первое сработавшее. Отсутствие записи о предложении - ошибка данных.
func ClassifyClosure(in ClosureInput) (models.ClosureReason, error) {
	if in.LastProposal == nil {
		return models.ClosureException, fmt.Errorf("%w: no proposal for job %s contractor %s",
			ErrInconsistentHistory, in.Trade.JobID, in.Trade.ContractorID)
	}

	if in.Trade.State == models.ClosedState {
		if in.AutoFinished {
			return models.AutoClosed, nil
		}
		return models.ClosedNormally, nil
	}

	switch in.LastProposal.Action() {
	case models.RejectProposal:
		return models.ProposalRejected, nil
	case models.CancelProposal:
		return models.ProposalCancelled, nil
	case models.AutoTerminate:
		return models.ProposalAutoTerminated, nil
	case models.AcceptProposal:
		if in.LastDelivery == nil {
			return models.CancelledBeforeDelivery, nil
		}
		return models.CancelledAfterDelivery, nil
	}
	return models.ClosureException, nil
}

// SummarizeClosure строит сводку по закрытой сделке: причину закрытия и зависящие
// от нее суммы, фактическое время работы и причину отклонения.
func SummarizeClosure(in ClosureInput, pricing Pricing, catalog ReasonCatalog) (models.ClosureSummary, error) {
	summary := models.ClosureSummary{
		JobID:        in.Trade.JobID,
		ContractorID: in.Trade.ContractorID,
		State:        in.Trade.State,
		ClosedAt:     in.Trade.CreatedAt,
	}

	reason, err := ClassifyClosure(in)
	summary.Reason = reason
	summary.ReasonLabel = reason.Label()
	if err != nil {
		return summary, err
	}

	switch reason {
	case models.ClosedNormally, models.AutoClosed, models.CancelledAfterDelivery:
		summary.UnitPrice = pricing.Price.UnitPrice
		summary.Quantity = pricing.Price.Quantity
		summary.PaymentPrice = models.PaymentAmount{
			Amount: PaymentPrice(pricing.Price.UnitPrice, pricing.Price.Quantity, pricing.Deferrable, pricing.FeePercent),
		}
		if in.LastDelivery != nil {
			summary.ActualWorkedTime = workedTime(in.LastDelivery)
		}
	case models.CancelledBeforeDelivery:
		summary.UnitPrice = pricing.Price.UnitPrice
		summary.Quantity = pricing.Price.Quantity
		summary.PaymentPrice = models.PaymentAmount{NotDelivered: true}
	case models.ProposalRejected:
		if id := in.LastProposal.RejectReasonID; id != nil && catalog != nil {
			text := catalog.Label(*id)
			summary.RejectReasonText = &text
			if catalog.RequiresDetail(*id) {
				summary.RejectReasonDetail = in.LastProposal.RejectReasonDetail
			}
		}
	}
	return summary, nil
}

func workedTime(delivery *models.Trade) *models.ActualWorkedTime {
	if delivery.WorkedMinutes == nil {
		return nil
	}
	minutes := *delivery.WorkedMinutes
	return &models.ActualWorkedTime{Hours: minutes / 60, Minutes: minutes % 60}
}
