package decimalx

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice 价格字符串无法解析为数字
var ErrInvalidPrice = errors.New("invalid price")

// maxMagnitude float64 的十进制量级约在 [-324, 308], 留一些余量
const maxMagnitude = 400

// ParseRate 将行情推送里的价格字符串解析为 float64.
// 只负责数字格式校验, 正数/有限性由调用方 (rate graph) 判断.
func ParseRate(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPrice, s, err)
	}
	if d.IsZero() {
		return 0, nil
	}
	// 先按量级截断, 指数过大时 InexactFloat64 会构造巨大的 10^exp
	digits := len(d.Coefficient().String())
	if d.Sign() < 0 {
		digits--
	}
	magnitude := int64(d.Exponent()) + int64(digits)
	switch {
	case magnitude > maxMagnitude:
		return math.Inf(d.Sign()), nil
	case magnitude < -maxMagnitude:
		return 0, nil
	}
	return d.InexactFloat64(), nil
}
