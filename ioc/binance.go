package ioc

import (
	"github.com/adshao/go-binance/v2"
	"github.com/spf13/viper"
)

func InitBinanceCli() *binance.Client {
	type Config struct {
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
		Testnet   bool   `mapstructure:"testnet"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("cex.binance", &cfg); err != nil {
		panic(err)
	}

	// 行情和 exchangeInfo 都是公开接口, 不配置 key 也能运行
	binance.UseTestnet = cfg.Testnet
	return binance.NewClient(cfg.ApiKey, cfg.ApiSecret)
}
