package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolNormalizer_Normalize(t *testing.T) {
	n := NewSymbolNormalizer(DefaultQuotes)

	testCases := []struct {
		name    string
		symbol  string
		want    TradingPair
		wantErr bool
	}{
		{name: "btc usdt", symbol: "BTCUSDT", want: TradingPair{Base: "BTC", Quote: "USDT"}},
		{name: "long base", symbol: "DOGEUSDT", want: TradingPair{Base: "DOGE", Quote: "USDT"}},
		{name: "btc quote", symbol: "ETHBTC", want: TradingPair{Base: "ETH", Quote: "BTC"}},
		{name: "bnb quote", symbol: "ADABNB", want: TradingPair{Base: "ADA", Quote: "BNB"}},
		{name: "busd preferred over shorter suffix", symbol: "SOLBUSD", want: TradingPair{Base: "SOL", Quote: "BUSD"}},
		{name: "self pair", symbol: "USDTUSDT", wantErr: true},
		{name: "quote only", symbol: "USDT", wantErr: true},
		{name: "unknown quote", symbol: "BTCTRY", wantErr: true},
		{name: "lower case", symbol: "btcusdt", wantErr: true},
		{name: "digits", symbol: "1INCHUSDT", wantErr: true},
		{name: "empty", symbol: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Normalize(tc.symbol)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSymbolNormalizer_LongestSuffixWins(t *testing.T) {
	// USD 和 BUSD 同时存在时 SOLBUSD 不能被拆成 SOLB/USD
	n := NewSymbolNormalizer([]string{"USD", "BUSD"})
	got, err := n.Normalize("SOLBUSD")
	require.NoError(t, err)
	assert.Equal(t, TradingPair{Base: "SOL", Quote: "BUSD"}, got)

	got, err = n.Normalize("SOLUSD")
	require.NoError(t, err)
	assert.Equal(t, TradingPair{Base: "SOL", Quote: "USD"}, got)
}

func TestSymbolNormalizer_Idempotent(t *testing.T) {
	n := NewSymbolNormalizer(DefaultQuotes)
	first, err := n.Normalize("DOGEUSDT")
	require.NoError(t, err)
	second, err := n.Normalize("DOGEUSDT")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "DOGEUSDT", first.ToString())
	assert.Equal(t, "DOGE/USDT", first.ToSlashString())
	assert.False(t, first.IsZero())
	assert.True(t, TradingPair{Base: "DOGE"}.IsZero())
}

func TestNewSymbolNormalizer_CleansQuotes(t *testing.T) {
	n := NewSymbolNormalizer([]string{" usdt", "BTC", "USDT", "", "FD-USD", "ETH"})
	assert.Equal(t, []string{"USDT", "BTC", "ETH"}, n.Quotes())
}
