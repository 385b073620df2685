package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KNICEX/arbitrage-engine/internal/schedule"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
)

var _ schedule.Task = (*Engine)(nil)

// Engine 顺序消费行情批次, 每个批次完整处理完才读取下一批
type Engine struct {
	feed      exchange.TickerService
	processor *Processor
	logger    *slog.Logger
}

func NewEngine(feed exchange.TickerService, processor *Processor) *Engine {
	return &Engine{
		feed:      feed,
		processor: processor,
		logger:    slog.Default().With("component", "engine"),
	}
}

// Run 阻塞直到行情 channel 关闭 (返回 nil) 或 ctx 结束 (返回 ctx.Err())
func (e *Engine) Run(ctx context.Context) error {
	batches, err := e.feed.SubscribeTickers(ctx)
	if err != nil {
		return fmt.Errorf("subscribe tickers: %w", err)
	}
	defer func() {
		stats := e.processor.Stats()
		e.logger.Info("engine stopped",
			"batches", stats.Batches,
			"applied", stats.Applied,
			"invalid_symbol", stats.InvalidSymbol,
			"invalid_price", stats.InvalidPrice,
			"invalid_rate", stats.InvalidRate,
			"cycles", stats.CyclesFound,
		)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				// feed 随 ctx 一起关闭
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.logger.Info("ticker feed closed")
				return nil
			}
			out := e.processor.ProcessBatch(ctx, batch)
			e.logger.Debug("batch processed",
				"ticks", len(batch),
				"applied", out.Applied,
				"skipped", out.Skipped(),
				"result", out.Result.String(),
			)
		}
	}
}

func (e *Engine) Name() string {
	return "arbitrage engine"
}
