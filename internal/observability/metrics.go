package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	agentResponseTotal    *prometheus.CounterVec
	agentResponseDuration *prometheus.HistogramVec
	roundsTotal           *prometheus.CounterVec
	messagesTotal         *prometheus.CounterVec
	transcriptFlushTotal  *prometheus.CounterVec
	uploadTotal           *prometheus.CounterVec
	archiveWriteDuration  prometheus.Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			agentResponseTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "agent_response_total",
					Help: "Total agent responses by agent and status.",
				},
				[]string{"agent", "status"},
			),
			agentResponseDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "agent_response_duration_seconds",
					Help:    "Agent response duration in seconds by agent.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"agent"},
			),
			roundsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "conversation_rounds_total",
					Help: "Total completed conversation rounds by mode.",
				},
				[]string{"mode"},
			),
			messagesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "conversation_messages_total",
					Help: "Total displayed messages by speaker.",
				},
				[]string{"speaker"},
			),
			transcriptFlushTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "transcript_flush_total",
					Help: "Transcript flushes by status (written, empty, error).",
				},
				[]string{"status"},
			),
			uploadTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "artifact_upload_total",
					Help: "Artifact uploads by status.",
				},
				[]string{"status"},
			),
			archiveWriteDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "archive_write_duration_seconds",
					Help:    "Archive append duration in seconds.",
					Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
				},
			),
		}

		prometheus.MustRegister(
			m.agentResponseTotal,
			m.agentResponseDuration,
			m.roundsTotal,
			m.messagesTotal,
			m.transcriptFlushTotal,
			m.uploadTotal,
			m.archiveWriteDuration,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

// Status values recorded for agent responses.
const (
	StatusOK        = "ok"
	StatusNoContent = "no_content"
	StatusError     = "error"
)

func RecordAgentResponse(agent, status string, duration time.Duration) {
	m := getMetrics()
	m.agentResponseTotal.WithLabelValues(agent, status).Inc()
	m.agentResponseDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

func RecordRound(mode string) {
	getMetrics().roundsTotal.WithLabelValues(mode).Inc()
}

func RecordMessage(speaker string) {
	getMetrics().messagesTotal.WithLabelValues(speaker).Inc()
}

func RecordTranscriptFlush(status string) {
	getMetrics().transcriptFlushTotal.WithLabelValues(status).Inc()
}

func RecordUpload(success bool) {
	status := StatusError
	if success {
		status = StatusOK
	}
	getMetrics().uploadTotal.WithLabelValues(status).Inc()
}

func RecordArchiveWrite(duration time.Duration) {
	getMetrics().archiveWriteDuration.Observe(duration.Seconds())
}

// Server exposes /metrics while a conversation runs.
type Server struct {
	srv *http.Server
}

// StartServer serves the metrics handler on addr in the background.
// The returned channel receives the listener error, if any.
func StartServer(addr string) (*Server, <-chan error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())

	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return s, errCh
}

// Shutdown stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
