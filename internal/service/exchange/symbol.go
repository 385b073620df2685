package exchange

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidSymbol 交易对无法拆分为 base/quote
var ErrInvalidSymbol = errors.New("invalid symbol")

// DefaultQuotes 常见 Quote 列表, 配置缺省时使用
var DefaultQuotes = []string{"USDT", "BTC", "ETH", "BNB", "BUSD"}

// SymbolNormalizer 按已知计价币种后缀拆分交易对.
// base 和 quote 长度不固定 (DOGEUSDT, ETHBTC), 所以不能按固定宽度切.
type SymbolNormalizer struct {
	quotes []string // 按长度降序, 保证最长后缀优先匹配
}

func NewSymbolNormalizer(quotes []string) *SymbolNormalizer {
	qs := lo.Uniq(lo.FilterMap(quotes, func(q string, _ int) (string, bool) {
		q = strings.ToUpper(strings.TrimSpace(q))
		return q, isAlphaUpper(q)
	}))
	sort.SliceStable(qs, func(i, j int) bool {
		if len(qs[i]) != len(qs[j]) {
			return len(qs[i]) > len(qs[j])
		}
		return qs[i] < qs[j]
	})
	return &SymbolNormalizer{quotes: qs}
}

// Quotes 返回生效的计价币种, 最长的在前
func (n *SymbolNormalizer) Quotes() []string {
	return slices.Clone(n.quotes)
}

// Normalize 拆分交易对, 例如 DOGEUSDT -> DOGE/USDT.
// 没有匹配的计价币种, base 为空, 或 base == quote 时返回 ErrInvalidSymbol.
func (n *SymbolNormalizer) Normalize(symbol string) (TradingPair, error) {
	if !isAlphaUpper(symbol) {
		return TradingPair{}, fmt.Errorf("%w: %q is not an uppercase alphabetic symbol", ErrInvalidSymbol, symbol)
	}
	quote, ok := lo.Find(n.quotes, func(q string) bool {
		return strings.HasSuffix(symbol, q)
	})
	if !ok {
		return TradingPair{}, fmt.Errorf("%w: %q has no known quote currency", ErrInvalidSymbol, symbol)
	}
	base := strings.TrimSuffix(symbol, quote)
	if base == "" {
		return TradingPair{}, fmt.Errorf("%w: %q has empty base", ErrInvalidSymbol, symbol)
	}
	if base == quote {
		return TradingPair{}, fmt.Errorf("%w: %q is a self pair", ErrInvalidSymbol, symbol)
	}
	return TradingPair{Base: base, Quote: quote}, nil
}

func isAlphaUpper(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
