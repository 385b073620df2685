package binance

import (
	"context"
	"sort"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/adshao/go-binance/v2"
	"github.com/samber/lo"
)

const symbolStatusTrading = "TRADING"

type SymbolService struct {
	cli *binance.Client
}

func NewSymbolService(cli *binance.Client) exchange.SymbolService {
	return &SymbolService{
		cli: cli,
	}
}

// GetQuoteAssets 从 exchangeInfo 收集所有在交易中的计价币种
func (svc *SymbolService) GetQuoteAssets(ctx context.Context) ([]string, error) {
	info, err := svc.cli.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, err
	}
	trading := lo.Filter(info.Symbols, func(item binance.Symbol, index int) bool {
		return item.Status == symbolStatusTrading
	})
	quotes := lo.Uniq(lo.Map(trading, func(item binance.Symbol, index int) string {
		return item.QuoteAsset
	}))
	sort.Strings(quotes)
	return quotes, nil
}
