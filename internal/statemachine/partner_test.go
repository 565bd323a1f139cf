package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFacts struct {
	count, limit int
	blocked      bool
	relation     models.PartnerState
	inList       bool
	listErr      error
	calls        []string
}

func (f *fakeFacts) PartnerUsage(context.Context, string) (int, int, error) {
	f.calls = append(f.calls, "usage")
	return f.count, f.limit, nil
}

func (f *fakeFacts) IsBlocked(context.Context, string, string) (bool, error) {
	f.calls = append(f.calls, "blocked")
	return f.blocked, nil
}

func (f *fakeFacts) PartnerRelation(context.Context, string, string) (models.PartnerState, error) {
	f.calls = append(f.calls, "relation")
	return f.relation, nil
}

func (f *fakeFacts) IsInCandidateList(context.Context, string, string) (bool, error) {
	f.calls = append(f.calls, "candidates")
	return f.inList, f.listErr
}

func TestIsPartnerCandidate(t *testing.T) {
	tests := []struct {
		name      string
		facts     fakeFacts
		want      bool
		reason    models.Ineligibility
		wantCalls []string
	}{
		{
			name:      "eligible",
			facts:     fakeFacts{count: 2, limit: 5, relation: models.PartnerNone, inList: true},
			want:      true,
			wantCalls: []string{"usage", "blocked", "relation", "candidates"},
		},
		{
			name:      "limit reached short-circuits everything",
			facts:     fakeFacts{count: 5, limit: 5, inList: true},
			reason:    models.PartnerLimitReached,
			wantCalls: []string{"usage"},
		},
		{
			name:      "blocked by contractor",
			facts:     fakeFacts{count: 0, limit: 5, blocked: true, inList: true},
			reason:    models.OutsourcerBlocked,
			wantCalls: []string{"usage", "blocked"},
		},
		{
			name:      "already applied",
			facts:     fakeFacts{count: 1, limit: 5, relation: models.PartnerApplied, inList: true},
			reason:    models.PartnerAlreadyExists,
			wantCalls: []string{"usage", "blocked", "relation"},
		},
		{
			name:      "already accepted",
			facts:     fakeFacts{count: 1, limit: 5, relation: models.PartnerAccepted, inList: true},
			reason:    models.PartnerAlreadyExists,
			wantCalls: []string{"usage", "blocked", "relation"},
		},
		{
			name:      "previously rejected may apply again",
			facts:     fakeFacts{count: 1, limit: 5, relation: models.PartnerRejected, inList: true},
			want:      true,
			wantCalls: []string{"usage", "blocked", "relation", "candidates"},
		},
		{
			name:      "no accepted delivery history",
			facts:     fakeFacts{count: 1, limit: 5},
			reason:    models.NotInCandidateList,
			wantCalls: []string{"usage", "blocked", "relation", "candidates"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := tt.facts
			got, err := statemachine.IsPartnerCandidate(context.Background(), &facts, "out-1", "con-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Candidate)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.wantCalls, facts.calls)
			assert.Equal(t, "out-1", got.OutsourcerID)
			assert.Equal(t, "con-1", got.ContractorID)
		})
	}
}

func TestIsPartnerCandidatePropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	facts := &fakeFacts{limit: 3, listErr: boom}

	got, err := statemachine.IsPartnerCandidate(context.Background(), facts, "out-1", "con-1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, got.Candidate)
}
