package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/trade-service/internal/metrics"
	"github.com/senyabanana/trade-service/internal/statemachine"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Expirer применяет служебные действия к просроченным сделкам.
type Expirer interface {
	ExpireStale(ctx context.Context, policy statemachine.ExpiryPolicy, now time.Time) (int, error)
}

// ExpirySweeper по расписанию завершает зависшие сделки.
type ExpirySweeper struct {
	Service Expirer
	Policy  statemachine.ExpiryPolicy
	Logger  *logrus.Logger
	Timeout time.Duration

	now  func() time.Time
	cron *cron.Cron
}

// NewExpirySweeper создает новый экземпляр ExpirySweeper.
func NewExpirySweeper(service Expirer, policy statemachine.ExpiryPolicy, logger *logrus.Logger, timeout time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		Service: service,
		Policy:  policy,
		Logger:  logger,
		Timeout: timeout,
		now:     time.Now,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		)),
	}
}

// Start регистрирует обход по расписанию schedule и запускает планировщик.
func (s *ExpirySweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.Logger.WithField("schedule", schedule).Info("expiry sweeper started")
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего обхода.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	s.Logger.Info("expiry sweeper stopped")
}

// Sweep выполняет один обход просроченных сделок.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	expired, err := s.Service.ExpireStale(ctx, s.Policy, s.now())
	if err != nil {
		metrics.ObserveSweep(metrics.ResultFailed)
		s.Logger.WithError(err).WithField("expired", expired).Error("expiry sweep failed")
		return
	}
	metrics.ObserveSweep(metrics.ResultApplied)
	if expired > 0 {
		s.Logger.WithField("expired", expired).Info("stale trades expired")
	}
}
