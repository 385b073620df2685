package arbitrage

import (
	"fmt"
	"slices"
	"strings"
)

// Cycle 一条可套利的兑换路径, Currencies 首尾相同.
// Rates[i] 是 Currencies[i] -> Currencies[i+1] 的汇率, Profit 为它们的乘积.
type Cycle struct {
	Currencies []string
	Rates      []float64
	Profit     float64
}

// Hops 兑换次数
func (c Cycle) Hops() int {
	return len(c.Rates)
}

func (c Cycle) Path() string {
	return strings.Join(c.Currencies, " -> ")
}

// Key 与起点无关的环标识, 同一个环的不同旋转得到相同的 Key
func (c Cycle) Key() string {
	if len(c.Currencies) < 2 {
		return ""
	}
	open := c.Currencies[:len(c.Currencies)-1]
	start := 0
	for i, cur := range open {
		if cur < open[start] {
			start = i
		}
	}
	rotated := append(slices.Clone(open[start:]), open[:start]...)
	return strings.Join(rotated, ",")
}

// Result 单次检测的结果, Found 为 false 表示没有套利
type Result struct {
	Found bool
	Cycle Cycle
}

func NoArbitrage() Result {
	return Result{}
}

func (r Result) String() string {
	if !r.Found {
		return "no arbitrage"
	}
	return fmt.Sprintf("arbitrage %s profit %.6f", r.Cycle.Path(), r.Cycle.Profit)
}
