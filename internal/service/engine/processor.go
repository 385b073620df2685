package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/metrics"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/KNICEX/arbitrage-engine/internal/service/graph"
	"github.com/KNICEX/arbitrage-engine/pkg/decimalx"
)

// Processor 唯一持有 RateGraph 写权限的组件.
// 一个批次内: 拆分交易对 -> 解析价格 -> 写入图, 全部写完后再做一次检测.
type Processor struct {
	normalizer Normalizer
	graph      *graph.RateGraph
	detector   Detector
	sinks      []Sink
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu    sync.Mutex
	stats Stats
}

type ProcessorOption func(p *Processor)

func WithSink(sinks ...Sink) ProcessorOption {
	return func(p *Processor) {
		p.sinks = append(p.sinks, sinks...)
	}
}

func WithMetrics(m *metrics.Metrics) ProcessorOption {
	return func(p *Processor) {
		p.metrics = m
	}
}

func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = l
	}
}

func NewProcessor(normalizer Normalizer, g *graph.RateGraph, detector Detector, opts ...ProcessorOption) *Processor {
	p := &Processor{
		normalizer: normalizer,
		graph:      g,
		detector:   detector,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "processor")
	return p
}

// ProcessBatch 处理一个批次. 单条行情的错误只计数跳过, 不影响其他行情;
// 即使没有任何有效行情也会执行一次检测.
func (p *Processor) ProcessBatch(ctx context.Context, ticks []exchange.Tick) BatchOutcome {
	var out BatchOutcome
	for _, tick := range ticks {
		err := p.apply(tick)
		switch {
		case err == nil:
			out.Applied++
		case errors.Is(err, exchange.ErrInvalidSymbol), errors.Is(err, graph.ErrInvalidPair):
			out.InvalidSymbol++
			p.logger.Debug("skip tick", "symbol", tick.Symbol, "error", err)
		case errors.Is(err, decimalx.ErrInvalidPrice):
			out.InvalidPrice++
			p.logger.Warn("skip tick with invalid price", "symbol", tick.Symbol, "price", tick.LastPrice, "error", err)
		case errors.Is(err, graph.ErrInvalidRate):
			out.InvalidRate++
			p.logger.Warn("skip tick with invalid rate", "symbol", tick.Symbol, "price", tick.LastPrice, "error", err)
		default:
			p.logger.Error("unexpected tick error", "symbol", tick.Symbol, "error", err)
		}
	}

	start := time.Now()
	snap := p.graph.Snapshot()
	out.Result = p.detector.Detect(snap)
	elapsed := time.Since(start)

	p.record(out, snap, elapsed)

	if out.Result.Found {
		p.logger.Info("arbitrage cycle detected",
			"path", out.Result.Cycle.Path(),
			"profit", out.Result.Cycle.Profit,
			"vertices", snap.VertexCount(),
			"edges", snap.EdgeCount(),
		)
	}
	for _, sink := range p.sinks {
		if err := sink.Emit(ctx, out.Result); err != nil {
			p.logger.Error("emit detection result failed", "result", out.Result.String(), "error", err)
		}
	}
	return out
}

func (p *Processor) apply(tick exchange.Tick) error {
	pair, err := p.normalizer.Normalize(tick.Symbol)
	if err != nil {
		return err
	}
	if pair.IsZero() {
		return fmt.Errorf("%w: %q has no base or quote", exchange.ErrInvalidSymbol, tick.Symbol)
	}
	rate, err := decimalx.ParseRate(tick.LastPrice)
	if err != nil {
		return err
	}
	return p.graph.Upsert(pair.Base, pair.Quote, rate)
}

func (p *Processor) record(out BatchOutcome, snap graph.Snapshot, elapsed time.Duration) {
	p.mu.Lock()
	p.stats.Batches++
	p.stats.Applied += int64(out.Applied)
	p.stats.InvalidSymbol += int64(out.InvalidSymbol)
	p.stats.InvalidPrice += int64(out.InvalidPrice)
	p.stats.InvalidRate += int64(out.InvalidRate)
	if out.Result.Found {
		p.stats.CyclesFound++
	}
	p.mu.Unlock()

	p.metrics.RecordRejected(metrics.ReasonInvalidSymbol, out.InvalidSymbol)
	p.metrics.RecordRejected(metrics.ReasonInvalidPrice, out.InvalidPrice)
	p.metrics.RecordRejected(metrics.ReasonInvalidRate, out.InvalidRate)
	p.metrics.RecordBatch(out.Applied, snap.VertexCount(), snap.EdgeCount(), elapsed)
	if out.Result.Found {
		p.metrics.RecordCycle(out.Result.Cycle.Profit)
	}
}

func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
