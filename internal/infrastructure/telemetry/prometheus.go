package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const namespace = "masgolf"

// Metrics is the Prometheus registry served on /metrics. Campaign outcomes
// are also recorded on the global OTel meter so they reach the collector
// when OTLP metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	campaignSends    *prometheus.CounterVec
	campaignMessages *prometheus.CounterVec
	taskRuns         *prometheus.CounterVec
	dueCampaigns     prometheus.Gauge
	openBatchJobs    prometheus.Gauge

	otelMessages metric.Int64Counter

	stopOnce sync.Once
	stop     chan struct{}
	logger   *zap.Logger
}

// NewMetrics creates a registry with process, Go runtime and application metrics
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		campaignSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_sends_total",
			Help:      "Finished campaign sends by final status.",
		}, []string{"status"}),
		campaignMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_messages_total",
			Help:      "Campaign messages accepted or rejected by the SMS gateway.",
		}, []string{"result"}),
		taskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_task_runs_total",
			Help:      "Periodic task executions by outcome.",
		}, []string{"task", "outcome"}),
		dueCampaigns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "campaigns_due",
			Help:      "Draft campaigns whose scheduled time has passed.",
		}),
		openBatchJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_jobs_open",
			Help:      "Batch jobs pending or processing.",
		}),
		stop:   make(chan struct{}),
		logger: logger,
	}
	m.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.httpRequests,
		m.httpDuration,
		m.campaignSends,
		m.campaignMessages,
		m.taskRuns,
		m.dueCampaigns,
		m.openBatchJobs,
	)

	counter, err := otel.Meter("github.com/masgolf/backend").Int64Counter(
		"masgolf.campaign.messages",
		metric.WithDescription("Campaign messages accepted or rejected by the SMS gateway."),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		logger.Warn("Failed to create OTel campaign counter", zap.Error(err))
	}
	m.otelMessages = counter
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordCampaignSend counts a finished campaign send and its message outcomes
func (m *Metrics) RecordCampaignSend(ctx context.Context, status string, success, fail int) {
	m.campaignSends.WithLabelValues(status).Inc()
	m.campaignMessages.WithLabelValues("success").Add(float64(success))
	m.campaignMessages.WithLabelValues("fail").Add(float64(fail))
	if m.otelMessages != nil {
		m.otelMessages.Add(ctx, int64(success), metric.WithAttributes(attribute.String("result", "success")))
		m.otelMessages.Add(ctx, int64(fail), metric.WithAttributes(attribute.String("result", "fail")))
	}
}

// RecordTaskRun counts one periodic task execution
func (m *Metrics) RecordTaskRun(task string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.taskRuns.WithLabelValues(task, outcome).Inc()
}

// StatsProvider reports the backlog gauges
type StatsProvider interface {
	CountDueCampaigns(ctx context.Context, now time.Time) (int64, error)
	CountOpenBatchJobs(ctx context.Context) (int64, error)
}

// StartCollection refreshes the backlog gauges every interval until ctx is
// cancelled or Stop is called. It collects once before returning.
func (m *Metrics) StartCollection(ctx context.Context, stats StatsProvider, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	m.collect(ctx, stats)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.collect(ctx, stats)
			}
		}
	}()
}

func (m *Metrics) collect(ctx context.Context, stats StatsProvider) {
	if n, err := stats.CountDueCampaigns(ctx, time.Now()); err != nil {
		m.logger.Warn("Failed to count due campaigns", zap.Error(err))
	} else {
		m.dueCampaigns.Set(float64(n))
	}
	if n, err := stats.CountOpenBatchJobs(ctx); err != nil {
		m.logger.Warn("Failed to count open batch jobs", zap.Error(err))
	} else {
		m.openBatchJobs.Set(float64(n))
	}
}

// Stop ends background collection
func (m *Metrics) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}
