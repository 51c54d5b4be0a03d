// Package metrics provides Prometheus observability for the call-campaign
// engine: call volume, follow-up delivery, and pacing health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// CallsRecordedTotal counts recorded call outcomes by disposition.
var CallsRecordedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "campaign",
	Name:      "calls_recorded_total",
	Help:      "Total call outcomes recorded, broken down by disposition",
}, []string{"disposition"})

// StepsEnqueuedTotal counts follow-up steps materialized by the sequence builder.
var StepsEnqueuedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "campaign",
	Name:      "sms_steps_enqueued_total",
	Help:      "Total SMS follow-up steps enqueued",
})

// StepsSentTotal counts steps delivered successfully.
var StepsSentTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "campaign",
	Name:      "sms_steps_sent_total",
	Help:      "Total SMS follow-up steps sent through the transport",
})

// StepsFailedTotal counts steps that failed at the transport.
var StepsFailedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "campaign",
	Name:      "sms_steps_failed_total",
	Help:      "Total SMS follow-up steps that failed to send",
})

// PacingSignal reflects the current pacing verdict: the active signal is 1,
// every other signal 0.
var PacingSignal = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "campaign",
	Name:      "pacing_signal",
	Help:      "Current pacing signal (1 for the active signal, 0 otherwise)",
}, []string{"signal"})

// BlockConsumedCalls reflects calls consumed in the active day plan by block label.
var BlockConsumedCalls = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "campaign",
	Name:      "block_consumed_calls",
	Help:      "Calls consumed per day block in the active plan",
}, []string{"block"})

// DispatchDurationSeconds tracks the duration of one dispatcher batch.
var DispatchDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "campaign",
	Name:      "dispatch_duration_seconds",
	Help:      "Time taken to dispatch one batch of due SMS steps",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
})

// DispatchBatchSize tracks how many due steps each dispatcher run handled.
var DispatchBatchSize = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "campaign",
	Name:      "dispatch_batch_size",
	Help:      "Number of due steps handled per dispatcher run",
	Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
})

// SetPacingSignal flips the pacing gauge so exactly one signal reads 1.
func SetPacingSignal(active string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == active {
			v = 1
		}
		PacingSignal.WithLabelValues(s).Set(v)
	}
}
