package ioc

import (
	"github.com/KNICEX/arbitrage-engine/internal/metrics"
	"github.com/KNICEX/arbitrage-engine/internal/service/arbitrage"
	"github.com/KNICEX/arbitrage-engine/internal/service/engine"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/KNICEX/arbitrage-engine/internal/service/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
)

func InitDetector() *arbitrage.Detector {
	type Config struct {
		Tolerance float64 `mapstructure:"tolerance"`
	}

	cfg := Config{
		Tolerance: arbitrage.DefaultTolerance,
	}
	if err := viper.UnmarshalKey("engine", &cfg); err != nil {
		panic(err)
	}
	return arbitrage.NewDetector(arbitrage.WithTolerance(cfg.Tolerance))
}

func InitMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New("arbitrage", reg)
}

func InitMetricsServer(m *metrics.Metrics) *metrics.Server {
	addr := viper.GetString("metrics.addr")
	if addr == "" {
		addr = ":9090"
	}
	return metrics.NewServer(addr, m)
}

func InitProcessor(normalizer *exchange.SymbolNormalizer, detector *arbitrage.Detector,
	m *metrics.Metrics, sinks ...engine.Sink) *engine.Processor {
	return engine.NewProcessor(normalizer, graph.New(), detector,
		engine.WithSink(sinks...),
		engine.WithMetrics(m),
	)
}
