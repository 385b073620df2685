package ioc

import (
	"context"
	"log/slog"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/spf13/viper"
)

// InitNormalizer 计价币种来自 market.quotes, 开启 market.discover_quotes 时
// 再合并交易所当前在交易的计价币种. 拉取失败只告警, 使用配置的币种.
func InitNormalizer(symbolSvc exchange.SymbolService) *exchange.SymbolNormalizer {
	type Config struct {
		Quotes         []string `mapstructure:"quotes"`
		DiscoverQuotes bool     `mapstructure:"discover_quotes"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("market", &cfg); err != nil {
		panic(err)
	}
	quotes := cfg.Quotes
	if len(quotes) == 0 {
		quotes = exchange.DefaultQuotes
	}

	if cfg.DiscoverQuotes && symbolSvc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		discovered, err := symbolSvc.GetQuoteAssets(ctx)
		if err != nil {
			slog.Warn("fail to discover quote assets, use configured quotes", "error", err)
		} else {
			quotes = append(quotes, discovered...)
		}
	}

	n := exchange.NewSymbolNormalizer(quotes)
	slog.Info("symbol normalizer ready", "quotes", n.Quotes())
	return n
}
