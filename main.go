package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KNICEX/arbitrage-engine/internal/repo"
	"github.com/KNICEX/arbitrage-engine/internal/schedule"
	"github.com/KNICEX/arbitrage-engine/internal/service/engine"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange/binance"
	"github.com/KNICEX/arbitrage-engine/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

}

func main() {
	initViper()
	ioc.InitLogger()

	db := ioc.InitDB()
	rdb := ioc.InitRedis()
	if rdb != nil {
		defer rdb.Close()
	}

	var symbolSvc exchange.SymbolService
	if viper.GetBool("market.discover_quotes") {
		symbolSvc = binance.NewSymbolService(ioc.InitBinanceCli())
	}
	normalizer := ioc.InitNormalizer(symbolSvc)

	oppRepo := repo.NewOpportunityRepo(db)
	arbitrageMonitor := ioc.InitArbitrageMonitor(oppRepo, rdb)

	m := ioc.InitMetrics()
	processor := ioc.InitProcessor(normalizer, ioc.InitDetector(), m, arbitrageMonitor)
	eng := engine.NewEngine(ioc.InitTickerService(), processor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := schedule.RunAll(ctx, eng, ioc.InitMetricsServer(m)); err != nil {
		slog.Error("arbitrage engine exited", "error", err)
		os.Exit(1)
	}
}
