package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/entity"
	"github.com/KNICEX/arbitrage-engine/internal/repo"
	"github.com/KNICEX/arbitrage-engine/internal/service/arbitrage"
	"github.com/KNICEX/arbitrage-engine/internal/service/engine"
	"github.com/google/uuid"
)

var _ engine.Sink = (*ArbitrageMonitor)(nil)

// ArbitrageMonitor 接收每个批次的检测结果, 保存并通知新出现的套利环.
// 同一个环在连续批次里重复出现只通知一次, 中间出现 "无套利" 或换成别的环后再次通知.
type ArbitrageMonitor struct {
	notifier Notifier
	repo     repo.OpportunityRepo

	lastKey string
	now     func() time.Time
}

type consoleNotifier struct {
}

func NewConsoleNotifier() Notifier {
	return consoleNotifier{}
}

func (c consoleNotifier) Notify(ctx context.Context, signal Signal) error {
	fmt.Printf("find arbitrage signal: %s profit=%.6f hops=%d\n", pathString(signal.Path), signal.Profit, signal.Hops)
	return nil
}

type Option func(m *ArbitrageMonitor)

func WithNotifier(notifier Notifier) Option {
	return func(m *ArbitrageMonitor) {
		m.notifier = notifier
	}
}

// WithRepo 保存检测到的套利环, 不设置则只通知
func WithRepo(r repo.OpportunityRepo) Option {
	return func(m *ArbitrageMonitor) {
		m.repo = r
	}
}

func NewArbitrageMonitor(opts ...Option) *ArbitrageMonitor {
	m := &ArbitrageMonitor{
		notifier: consoleNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ArbitrageMonitor) Emit(ctx context.Context, res arbitrage.Result) error {
	if !res.Found {
		m.lastKey = ""
		return nil
	}
	key := res.Cycle.Key()
	if key == m.lastKey {
		return nil
	}
	m.lastKey = key

	signal := Signal{
		Id:        uuid.NewString(),
		Path:      res.Cycle.Currencies,
		Rates:     res.Cycle.Rates,
		Profit:    res.Cycle.Profit,
		Hops:      res.Cycle.Hops(),
		Timestamp: m.now(),
	}

	var errs []error
	if m.repo != nil {
		_, err := m.repo.Create(ctx, entity.Opportunity{
			SignalId:   signal.Id,
			Path:       res.Cycle.Path(),
			CycleKey:   key,
			Hops:       signal.Hops,
			Profit:     signal.Profit,
			DetectedAt: signal.Timestamp,
		})
		if err != nil {
			slog.Error("failed to save arbitrage opportunity", "path", res.Cycle.Path(), "error", err)
			errs = append(errs, fmt.Errorf("save opportunity: %w", err))
		}
	}

	if err := m.notifier.Notify(ctx, signal); err != nil {
		slog.Error("arbitrage monitor notify signal err", "error", err, "signal", signal.Id)
		errs = append(errs, fmt.Errorf("notify: %w", err))
	}
	return errors.Join(errs...)
}
