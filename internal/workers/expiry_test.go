package workers

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeExpirer struct {
	mu       sync.Mutex
	calls    []time.Time
	policies []statemachine.ExpiryPolicy
	expired  int
	err      error
}

func (f *fakeExpirer) ExpireStale(ctx context.Context, policy statemachine.ExpiryPolicy, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep must run with a deadline")
	}
	f.calls = append(f.calls, now)
	f.policies = append(f.policies, policy)
	return f.expired, f.err
}

func (f *fakeExpirer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSweepPassesPolicyAndClock(t *testing.T) {
	expirer := &fakeExpirer{expired: 3}
	policy := statemachine.ExpiryPolicy{ProposalTTL: time.Hour}
	sweeper := NewExpirySweeper(expirer, policy, quietLogger(), time.Second)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return fixed }

	sweeper.Sweep(context.Background())

	require.Equal(t, 1, expirer.count())
	assert.Equal(t, fixed, expirer.calls[0])
	assert.Equal(t, policy, expirer.policies[0])
}

func TestSweepSurvivesServiceError(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down")}
	sweeper := NewExpirySweeper(expirer, statemachine.ExpiryPolicy{}, quietLogger(), time.Second)

	assert.NotPanics(t, func() { sweeper.Sweep(context.Background()) })
	assert.Equal(t, 1, expirer.count())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	sweeper := NewExpirySweeper(&fakeExpirer{}, statemachine.ExpiryPolicy{}, quietLogger(), time.Second)
	assert.Error(t, sweeper.Start("every tuesday"))
}

func TestStartRunsOnSchedule(t *testing.T) {
	expirer := &fakeExpirer{}
	sweeper := NewExpirySweeper(expirer, statemachine.ExpiryPolicy{RatingTTL: time.Hour}, quietLogger(), time.Second)

	require.NoError(t, sweeper.Start("@every 1s"))
	assert.Eventually(t, func() bool { return expirer.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	sweeper.Stop()
}
