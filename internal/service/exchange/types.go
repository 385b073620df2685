package exchange

import (
	"context"
	"fmt"
)

// TradingPair 交易对
type TradingPair struct {
	Base  string
	Quote string
}

func (p TradingPair) IsZero() bool {
	return p.Base == "" || p.Quote == ""
}

func (p TradingPair) ToString() string {
	return fmt.Sprintf("%s%s", p.Base, p.Quote)
}

func (p TradingPair) ToSlashString() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Tick 行情推送中的单条最新价, 处理完即丢弃
type Tick struct {
	Symbol    string // BTCUSDT
	LastPrice string // 原始字符串, 由 engine 解析
}

// TickerService 全市场行情订阅.
// 每次从 channel 读到的切片是一个批次 (一帧 !ticker@arr), ctx 结束后 channel 关闭.
type TickerService interface {
	SubscribeTickers(ctx context.Context) (<-chan []Tick, error)
}

// SymbolService 交易所交易对信息
type SymbolService interface {
	// GetQuoteAssets 返回当前处于交易状态的所有计价币种
	GetQuoteAssets(ctx context.Context) ([]string, error)
}
