package monitor

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/errors"
	"github.com/turtacn/Hierarch/pkg/fsm"
	"github.com/turtacn/Hierarch/pkg/logger"
)

// Recorder exports engine activity as Prometheus metrics. It implements
// fsm.Observer and may be shared by several engines; every series carries
// the engine name.
type Recorder struct {
	// DispatchTotal counts external dispatches by outcome: "ok", "unhandled"
	// or the error code name.
	DispatchTotal *prometheus.CounterVec
	// DispatchDuration tracks how long a dispatch and its cascade took in seconds.
	DispatchDuration *prometheus.HistogramVec
	// FollowUpTotal counts follow-up items processed on behalf of dispatches.
	FollowUpTotal *prometheus.CounterVec
	// TransitionTotal counts completed transitions.
	TransitionTotal *prometheus.CounterVec
	// CurrentState is 1 for the state an engine is in and 0 for states it left.
	CurrentState *prometheus.GaugeVec
}

// NewRecorder creates the metrics and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricsNamespace,
			Name:      "dispatch_total",
			Help:      "External events dispatched into an engine",
		}, []string{"engine", "result"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: consts.MetricsNamespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time taken to run a dispatch and its follow-ups to completion",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"engine"}),
		FollowUpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricsNamespace,
			Name:      "follow_up_total",
			Help:      "Follow-up events and deferred transitions processed",
		}, []string{"engine"}),
		TransitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.MetricsNamespace,
			Name:      "transitions_total",
			Help:      "Completed state transitions",
		}, []string{"engine", "from", "to"}),
		CurrentState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: consts.MetricsNamespace,
			Name:      "current_state",
			Help:      "1 for the state the engine currently occupies",
		}, []string{"engine", "state"}),
	}
	reg.MustRegister(r.DispatchTotal, r.DispatchDuration, r.FollowUpTotal, r.TransitionTotal, r.CurrentState)
	return r
}

func (r *Recorder) ObserveDispatch(info fsm.DispatchInfo) {
	result := "ok"
	switch {
	case info.Err != nil:
		result = errors.CodeOf(info.Err).String()
	case info.HandledBy == "":
		result = "unhandled"
	}
	r.DispatchTotal.WithLabelValues(info.Engine, result).Inc()
	r.DispatchDuration.WithLabelValues(info.Engine).Observe(info.Duration.Seconds())
	r.FollowUpTotal.WithLabelValues(info.Engine).Add(float64(info.FollowUps))
}

func (r *Recorder) ObserveTransition(info fsm.TransitionInfo) {
	from := info.From
	if from == "" {
		from = "init"
	} else {
		r.CurrentState.WithLabelValues(info.Engine, info.From).Set(0)
	}
	r.TransitionTotal.WithLabelValues(info.Engine, from, info.To).Inc()
	r.CurrentState.WithLabelValues(info.Engine, info.To).Set(1)
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// InitMetrics registers a Recorder with the default Prometheus registry and
// starts an HTTP server exposing it on addr (e.g., ":9090"). Later calls
// return the same Recorder and start no further servers.
func InitMetrics(addr string) *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder(prometheus.DefaultRegisterer)

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Log.Info("Metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Log.Error("Metrics server failed", "err", err)
			}
		}()
	})
	return defaultRecorder
}

// Personal.AI order the ending
