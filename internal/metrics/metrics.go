// Package metrics 引擎的 prometheus 指标
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 被跳过的行情按 reason 标签区分
const (
	ReasonInvalidSymbol = "invalid_symbol"
	ReasonInvalidPrice  = "invalid_price"
	ReasonInvalidRate   = "invalid_rate"
)

type Metrics struct {
	TicksApplied  prometheus.Counter
	TicksRejected *prometheus.CounterVec
	Batches       prometheus.Counter

	Vertices prometheus.Gauge
	Edges    prometheus.Gauge

	CyclesFound     prometheus.Counter
	LastProfit      prometheus.Gauge
	DetectLatency   prometheus.Histogram
	LastBatchUnixTs prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New 指标注册到 reg, reg 为 nil 时使用独立的 registry
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "arbitrage_engine"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		TicksApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ticks_applied_total",
			Help:      "Total number of ticks applied to the rate graph",
		}),
		TicksRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ticks_rejected_total",
			Help:      "Total number of ticks skipped by reason",
		}, []string{"reason"}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "batches_total",
			Help:      "Total number of processed batches",
		}),
		Vertices: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "vertices",
			Help:      "Number of currencies in the rate graph",
		}),
		Edges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Number of conversion edges in the rate graph",
		}),
		CyclesFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "cycles_found_total",
			Help:      "Total number of batches that produced an arbitrage cycle",
		}),
		LastProfit: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "last_profit_ratio",
			Help:      "Compounded rate of the most recently detected cycle",
		}),
		DetectLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "detect_duration_seconds",
			Help:      "Cycle detection duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		LastBatchUnixTs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_batch_timestamp",
			Help:      "Unix timestamp of the last processed batch",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) RecordRejected(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.TicksRejected.WithLabelValues(reason).Add(float64(n))
}

// RecordBatch m 为 nil 时什么都不做, 其他 Record* 同理
func (m *Metrics) RecordBatch(applied, vertices, edges int, detect time.Duration) {
	if m == nil {
		return
	}
	m.Batches.Inc()
	m.TicksApplied.Add(float64(applied))
	m.Vertices.Set(float64(vertices))
	m.Edges.Set(float64(edges))
	m.DetectLatency.Observe(detect.Seconds())
	m.LastBatchUnixTs.Set(float64(time.Now().Unix()))
}

func (m *Metrics) RecordCycle(profit float64) {
	if m == nil {
		return
	}
	m.CyclesFound.Inc()
	m.LastProfit.Set(profit)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Server 提供 /metrics, 作为 schedule.Task 运行
type Server struct {
	addr    string
	handler http.Handler
}

func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &Server{addr: addr, handler: mux}
}

func (s *Server) Name() string {
	return "metrics server"
}

// Run 阻塞直到 ctx 结束或监听失败
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
