package statemachine_test

import (
	"testing"
	"time"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/stretchr/testify/assert"
)

func TestExpiryPolicyDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	policy := statemachine.ExpiryPolicy{
		ProposalTTL: 7 * 24 * time.Hour,
		RatingTTL:   14 * 24 * time.Hour,
	}

	tests := []struct {
		name   string
		state  models.TradeState
		age    time.Duration
		want   models.TradeAction
		wantOk bool
	}{
		{"fresh proposal", models.ProposalState, 24 * time.Hour, "", false},
		{"stale proposal", models.ProposalState, 7 * 24 * time.Hour, models.AutoTerminate, true},
		{"stale reorder", models.ReorderState, 8 * 24 * time.Hour, models.AutoTerminate, true},
		{"delivery rule disabled", models.DeliveryState, 100 * 24 * time.Hour, "", false},
		{"unrated finish", models.FinishState, 15 * 24 * time.Hour, models.AutoFinish, true},
		{"work never expires", models.WorkState, 365 * 24 * time.Hour, "", false},
		{"closed never expires", models.ClosedState, 365 * 24 * time.Hour, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := models.Trade{State: tt.state, CreatedAt: now.Add(-tt.age)}
			got, ok := policy.Due(trade, now)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpiryPolicyStatesAndCutoff(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	policy := statemachine.ExpiryPolicy{DeliveryTTL: 72 * time.Hour, RatingTTL: 24 * time.Hour}

	assert.ElementsMatch(t, []models.TradeState{models.DeliveryState, models.FinishState}, policy.States())
	assert.Equal(t, now.Add(-24*time.Hour), policy.Cutoff(now))
	assert.Empty(t, statemachine.ExpiryPolicy{}.States())
}
