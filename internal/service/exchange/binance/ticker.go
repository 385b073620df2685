package binance

import (
	"context"
	"log/slog"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/adshao/go-binance/v2"
	"github.com/jpillora/backoff"
	"github.com/samber/lo"
)

var _ exchange.TickerService = (*TickerService)(nil)

type serveFunc func(handler binance.WsAllMarketsStatHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)

// TickerService 订阅现货 !ticker@arr 全市场行情, 每帧作为一个批次.
// 连接断开后按退避重连, 直到 ctx 结束.
type TickerService struct {
	serve   serveFunc
	backoff backoff.Backoff
	buffer  int
}

type TickerOption func(s *TickerService)

// WithReconnectBackoff 重连的最小/最大间隔
func WithReconnectBackoff(min, max time.Duration) TickerOption {
	return func(s *TickerService) {
		s.backoff.Min = min
		s.backoff.Max = max
	}
}

func NewTickerService(opts ...TickerOption) *TickerService {
	s := &TickerService{
		serve: binance.WsAllMarketsStatServe,
		backoff: backoff.Backoff{
			Min:    500 * time.Millisecond,
			Max:    30 * time.Second,
			Factor: 2,
			Jitter: true,
		},
		buffer: 16,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TickerService) SubscribeTickers(ctx context.Context) (<-chan []exchange.Tick, error) {
	out := make(chan []exchange.Tick, s.buffer)
	doneC, stopC, err := s.start(ctx, out)
	if err != nil {
		return nil, err
	}
	go s.keepAlive(ctx, out, doneC, stopC)
	return out, nil
}

func (s *TickerService) start(ctx context.Context, out chan<- []exchange.Tick) (chan struct{}, chan struct{}, error) {
	handler := func(event binance.WsAllMarketsStatEvent) {
		ticks := lo.FilterMap(event, func(item *binance.WsMarketStatEvent, _ int) (exchange.Tick, bool) {
			if item == nil {
				return exchange.Tick{}, false
			}
			return exchange.Tick{Symbol: item.Symbol, LastPrice: item.LastPrice}, true
		})
		select {
		case out <- ticks:
		case <-ctx.Done():
		}
	}
	errHandler := func(err error) {
		slog.Warn("binance ticker stream error", "error", err)
	}
	return s.serve(handler, errHandler)
}

// keepAlive doneC 关闭后 handler 不会再被调用, 此时才能关闭 out
func (s *TickerService) keepAlive(ctx context.Context, out chan []exchange.Tick, doneC, stopC chan struct{}) {
	defer close(out)
	b := s.backoff
	for {
		select {
		case <-ctx.Done():
			close(stopC)
			<-doneC
			return
		case <-doneC:
		}

		for {
			wait := b.Duration()
			slog.Warn("binance ticker stream closed, reconnecting", "after", wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			var err error
			doneC, stopC, err = s.start(ctx, out)
			if err == nil {
				b.Reset()
				break
			}
			slog.Error("binance ticker stream reconnect failed", "error", err)
		}
	}
}
