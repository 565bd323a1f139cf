package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты обработки команды над сделкой.
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

var (
	// Registry хранит коллекторы сервиса.
	Registry = prometheus.NewRegistry()

	tradeCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trade_service",
			Subsystem: "trade",
			Name:      "commands_total",
			Help:      "Total number of trade commands by action and result.",
		},
		[]string{"action", "result"},
	)

	tradeOverrides = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trade_service",
			Subsystem: "trade",
			Name:      "overrides_total",
			Help:      "Total number of state overrides applied outside the transition table.",
		},
		[]string{"action"},
	)

	expirySweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trade_service",
			Subsystem: "expiry",
			Name:      "sweeps_total",
			Help:      "Total number of expiry sweeps by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		tradeCommands,
		tradeOverrides,
		expirySweeps,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler возвращает HTTP-обработчик с метриками.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveCommand учитывает команду участника сделки.
func ObserveCommand(action, result string) {
	tradeCommands.WithLabelValues(action, result).Inc()
}

// ObserveOverride учитывает служебную перезапись состояния.
func ObserveOverride(action string) {
	tradeOverrides.WithLabelValues(action).Inc()
}

// ObserveSweep учитывает проход по просроченным сделкам.
func ObserveSweep(result string) {
	expirySweeps.WithLabelValues(result).Inc()
}
