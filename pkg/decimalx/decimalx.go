package decimalx

import "github.com/shopspring/decimal"

func MustFromString(s string) decimal.Decimal {
	f, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// MustFloat64 解析失败直接 panic, 仅用于测试和常量
func MustFloat64(s string) float64 {
	return MustFromString(s).InexactFloat64()
}
