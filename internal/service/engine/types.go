package engine

import (
	"context"

	"github.com/KNICEX/arbitrage-engine/internal/service/arbitrage"
	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/KNICEX/arbitrage-engine/internal/service/graph"
)

// Normalizer 交易对拆分
type Normalizer interface {
	Normalize(symbol string) (exchange.TradingPair, error)
}

// Detector 只能拿到图的快照, 无法修改图
type Detector interface {
	Detect(snap graph.Snapshot) arbitrage.Result
}

// Sink 每个批次的检测结果 (有环或无环) 都会推送给 Sink
type Sink interface {
	Emit(ctx context.Context, res arbitrage.Result) error
}

type SinkFunc func(ctx context.Context, res arbitrage.Result) error

func (f SinkFunc) Emit(ctx context.Context, res arbitrage.Result) error {
	return f(ctx, res)
}

// BatchOutcome 单个批次的处理结果
type BatchOutcome struct {
	Applied       int
	InvalidSymbol int
	InvalidPrice  int
	InvalidRate   int
	Result        arbitrage.Result
}

func (o BatchOutcome) Skipped() int {
	return o.InvalidSymbol + o.InvalidPrice + o.InvalidRate
}

// Stats 进程生命周期内的累计统计
type Stats struct {
	Batches       int64
	Applied       int64
	InvalidSymbol int64
	InvalidPrice  int64
	InvalidRate   int64
	CyclesFound   int64
}
