package statemachine

import (
	"time"

	"github.com/senyabanana/trade-service/internal/models"
)

// ExpiryPolicy задает сроки автоматического завершения зависших сделок. Нулевой срок отключает правило.
type ExpiryPolicy struct {
	ProposalTTL time.Duration // предложение без ответа -> auto_terminate
	DeliveryTTL time.Duration // сдача без ответа -> force_finish
	RatingTTL   time.Duration // завершение без оценки -> auto_finish
}

// Due возвращает служебное действие, если сделка просрочена на момент now.
func (p ExpiryPolicy) Due(trade models.Trade, now time.Time) (models.TradeAction, bool) {
	age := now.Sub(trade.CreatedAt)
	switch {
	case trade.State.IsPreCommitment() && expired(p.ProposalTTL, age):
		return models.AutoTerminate, true
	case trade.State == models.DeliveryState && expired(p.DeliveryTTL, age):
		return models.ForceFinish, true
	case trade.State == models.FinishState && expired(p.RatingTTL, age):
		return models.AutoFinish, true
	}
	return "", false
}

// States возвращает состояния, для которых включено хотя бы одно правило.
func (p ExpiryPolicy) States() []models.TradeState {
	var states []models.TradeState
	if p.ProposalTTL > 0 {
		states = append(states, models.ProposalState, models.ReProposalState, models.ReorderState, models.ReorderCancelState)
	}
	if p.DeliveryTTL > 0 {
		states = append(states, models.DeliveryState)
	}
	if p.RatingTTL > 0 {
		states = append(states, models.FinishState)
	}
	return states
}

// Cutoff возвращает момент, раньше которого строка может оказаться просроченной.
func (p ExpiryPolicy) Cutoff(now time.Time) time.Time {
	shortest := time.Duration(0)
	for _, ttl := range []time.Duration{p.ProposalTTL, p.DeliveryTTL, p.RatingTTL} {
		if ttl > 0 && (shortest == 0 || ttl < shortest) {
			shortest = ttl
		}
	}
	return now.Add(-shortest)
}

func expired(ttl, age time.Duration) bool {
	return ttl > 0 && age >= ttl
}
