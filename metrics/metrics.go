// metrics/metrics.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package metrics exposes the stack's Prometheus instrumentation. This
// is ambient observability, not a feature the spec's Non-goals exclude
// — carried the same way the teacher carries its own /sup stats page.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the gauges, counters and histograms a RadioStack host
// registers once at startup and feeds from its own call sites.
type Metrics struct {
	IncomingAudioStreams prometheus.Gauge
	TxSequence           prometheus.Counter
	MixerFrameSeconds    prometheus.Histogram
	MutexWaitSeconds     *prometheus.HistogramVec
	ErrorsLogged         prometheus.Counter
}

// New registers and returns a fresh Metrics bundle against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IncomingAudioStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radiostack_incoming_audio_streams",
			Help: "Number of inbound voice streams mixed into either output device during the most recent frame.",
		}),
		TxSequence: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radiostack_tx_sequence",
			Help: "Total number of voice datagrams assembled on the transmit path, counted whether or not the UDP channel is open.",
		}),
		MixerFrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radiostack_mixer_frame_seconds",
			Help:    "Wall-clock time spent in one ProcessRadio call.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		MutexWaitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radiostack_mutex_wait_seconds",
			Help:    "Time spent waiting to acquire a RadioStack lock, labeled by lock name.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		}, []string{"lock"}),
		ErrorsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radiostack_errors_logged_total",
			Help: "Total number of Error/Errorf log lines emitted, fed from log.SetErrorHook.",
		}),
	}

	reg.MustRegister(m.IncomingAudioStreams, m.TxSequence, m.MixerFrameSeconds, m.MutexWaitSeconds, m.ErrorsLogged)
	return m
}

// ObserveMixerFrame is a small helper for `defer metrics.ObserveMixerFrame(m, time.Now())`
// call sites around ProcessRadio.
func ObserveMixerFrame(m *Metrics, start time.Time) {
	m.MixerFrameSeconds.Observe(time.Since(start).Seconds())
}

// ObserveMutexWait records how long a caller waited on the named lock,
// fed by util.LoggingMutex's wait-duration hook.
func (m *Metrics) ObserveMutexWait(lock string, wait time.Duration) {
	m.MutexWaitSeconds.WithLabelValues(lock).Observe(wait.Seconds())
}
