// Package stream 直接订阅 Binance 行情 websocket, 可指向任意兼容 !ticker@arr 格式的地址
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/samber/lo"
)

const DefaultURL = "wss://stream.binance.com:9443/ws/!ticker@arr"

var _ exchange.TickerService = (*TickerService)(nil)

var errEmptyFrame = errors.New("empty frame")

type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.MinBackoff <= 0 {
		c.MinBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff < c.MinBackoff {
		c.MaxBackoff = 30 * time.Second
	}
	return c
}

// TickerService 基于 gorilla/websocket 的行情订阅, 每个 websocket 帧是一个批次
type TickerService struct {
	cfg    Config
	dialer *websocket.Dialer
}

func NewTickerService(cfg Config) *TickerService {
	cfg = cfg.withDefaults()
	return &TickerService{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// wsTicker 24hrTicker 事件里只用到交易对和最新价
type wsTicker struct {
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
}

// SubscribeTickers 首次连接失败直接返回错误, 之后的断线由后台自动重连
func (s *TickerService) SubscribeTickers(ctx context.Context) (<-chan []exchange.Tick, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan []exchange.Tick, 16)
	go s.run(ctx, conn, out)
	return out, nil
}

func (s *TickerService) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", s.cfg.URL, err)
	}
	slog.Info("connected to ticker stream", "url", s.cfg.URL)
	return conn, nil
}

func (s *TickerService) run(ctx context.Context, conn *websocket.Conn, out chan<- []exchange.Tick) {
	defer close(out)
	b := &backoff.Backoff{
		Min:    s.cfg.MinBackoff,
		Max:    s.cfg.MaxBackoff,
		Factor: 2,
		Jitter: true,
	}

	for {
		err := s.readLoop(ctx, conn, out)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		slog.Warn("ticker stream disconnected", "url", s.cfg.URL, "error", err)

		for {
			wait := b.Duration()
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			conn, err = s.dial(ctx)
			if err == nil {
				b.Reset()
				break
			}
			slog.Error("ticker stream reconnect failed", "error", err, "attempt", b.Attempt())
		}
	}
}

func (s *TickerService) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- []exchange.Tick) error {
	// ctx 结束时关闭连接以打断阻塞的 ReadMessage
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ticks, err := DecodeFrame(data)
		if err != nil {
			slog.Warn("drop malformed ticker frame", "error", err, "size", len(data))
			continue
		}
		select {
		case out <- ticks:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// DecodeFrame 解析 !ticker@arr 的数组帧, 也兼容单个 <symbol>@ticker 事件
// 以及 combined stream 的 {"stream": ..., "data": ...} 包装
func DecodeFrame(data []byte) ([]exchange.Tick, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errEmptyFrame
	}

	if data[0] == '{' {
		var wrapped struct {
			Stream string          `json:"stream"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		if wrapped.Stream != "" && len(wrapped.Data) > 0 {
			return DecodeFrame(wrapped.Data)
		}
		var single wsTicker
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		return toTicks([]wsTicker{single}), nil
	}

	var arr []wsTicker
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, err
	}
	return toTicks(arr), nil
}

func toTicks(items []wsTicker) []exchange.Tick {
	return lo.Map(items, func(item wsTicker, _ int) exchange.Tick {
		return exchange.Tick{Symbol: item.Symbol, LastPrice: item.LastPrice}
	})
}
