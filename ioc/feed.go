package ioc

import (
	"fmt"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange/binance"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange/stream"
	"github.com/spf13/viper"
)

const (
	FeedSourceBinance = "binance"
	FeedSourceStream  = "stream"
)

// InitTickerService feed.source=binance 使用 go-binance 的全市场 ticker,
// feed.source=stream 直接连接 feed.url
func InitTickerService() exchange.TickerService {
	type Reconnect struct {
		Min time.Duration `mapstructure:"min"`
		Max time.Duration `mapstructure:"max"`
	}
	type Config struct {
		Source           string        `mapstructure:"source"`
		URL              string        `mapstructure:"url"`
		HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
		Reconnect        Reconnect     `mapstructure:"reconnect"`
	}

	cfg := Config{
		Source: FeedSourceStream,
		Reconnect: Reconnect{
			Min: 500 * time.Millisecond,
			Max: 30 * time.Second,
		},
	}
	if err := viper.UnmarshalKey("feed", &cfg); err != nil {
		panic(err)
	}

	switch cfg.Source {
	case FeedSourceBinance:
		return binance.NewTickerService(binance.WithReconnectBackoff(cfg.Reconnect.Min, cfg.Reconnect.Max))
	case FeedSourceStream:
		return stream.NewTickerService(stream.Config{
			URL:              cfg.URL,
			HandshakeTimeout: cfg.HandshakeTimeout,
			MinBackoff:       cfg.Reconnect.Min,
			MaxBackoff:       cfg.Reconnect.Max,
		})
	default:
		panic(fmt.Errorf("unknown feed source: %q", cfg.Source))
	}
}
