// Package arbitrage 在汇率图上用 Bellman-Ford 寻找负权环 (即套利环).
package arbitrage

import (
	"math"

	"github.com/KNICEX/arbitrage-engine/internal/service/graph"
)

// DefaultTolerance 每条边松弛时允许的对数误差.
// 价格自洽的三角 (例如 50000 * 0.05 = 2500) 在 float64 下求和可能出现 1e-15 级别的负值,
// 不加容差会被误判为套利.
const DefaultTolerance = 1e-9

type Detector struct {
	tolerance float64
}

type Option func(d *Detector)

func WithTolerance(eps float64) Option {
	return func(d *Detector) {
		if eps >= 0 && !math.IsInf(eps, 0) {
			d.tolerance = eps
		}
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type weightedEdge struct {
	u, v int
	w    float64
}

// Detect 检测快照中是否存在负权环 (边权 -ln(rate)), 存在则还原出一个具体的环.
// 只读快照, 同一快照多次调用结果相同.
func (d *Detector) Detect(snap graph.Snapshot) Result {
	n := len(snap.Vertices)
	if n == 0 || len(snap.Edges) == 0 {
		return NoArbitrage()
	}

	idx := make(map[string]int, n)
	for i, c := range snap.Vertices {
		idx[c] = i
	}

	// 虚拟源点 n 到每个顶点一条 0 权边, 不连通的子图也能被覆盖
	source := n
	edges := make([]weightedEdge, 0, n+len(snap.Edges))
	for i := 0; i < n; i++ {
		edges = append(edges, weightedEdge{u: source, v: i})
	}
	rates := make(map[[2]int]float64, len(snap.Edges))
	for _, e := range snap.Edges {
		u, okU := idx[e.From]
		v, okV := idx[e.To]
		if !okU || !okV || !(e.Rate > 0) || math.IsInf(e.Rate, 0) {
			continue
		}
		edges = append(edges, weightedEdge{u: u, v: v, w: -math.Log(e.Rate)})
		rates[[2]int{u, v}] = e.Rate
	}

	dist := make([]float64, n+1)
	pred := make([]int, n+1)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = -1
	}
	dist[source] = 0

	// 含虚拟源点共 n+1 个顶点, 需要 n 轮
	for round := 0; round < n; round++ {
		relaxed := false
		for _, e := range edges {
			if d.relaxes(dist, e) {
				dist[e.v] = dist[e.u] + e.w
				pred[e.v] = e.u
				relaxed = true
			}
		}
		if !relaxed {
			return NoArbitrage()
		}
	}

	for _, e := range edges {
		if !d.relaxes(dist, e) {
			continue
		}
		pred[e.v] = e.u
		cycle, ok := d.reconstruct(snap.Vertices, rates, pred, e.v, source)
		if !ok {
			return NoArbitrage()
		}
		return Result{Found: true, Cycle: cycle}
	}
	return NoArbitrage()
}

// relaxes 仅在新距离有限且严格更小 (扣除容差) 时成立, NaN 永远不会触发
func (d *Detector) relaxes(dist []float64, e weightedEdge) bool {
	if math.IsInf(dist[e.u], 1) {
		return false
	}
	nd := dist[e.u] + e.w
	if math.IsNaN(nd) || math.IsInf(nd, 0) {
		return false
	}
	return nd < dist[e.v]-d.tolerance
}

// reconstruct 从 start 沿 pred 回溯最多 n+1 步, 第一个重复出现的顶点闭合成环.
func (d *Detector) reconstruct(vertices []string, rates map[[2]int]float64, pred []int, start, source int) (Cycle, bool) {
	n := len(vertices)
	seen := make(map[int]int, n+1)
	seq := make([]int, 0, n+1)

	x := start
	for step := 0; step <= n; step++ {
		if x < 0 || x == source {
			return Cycle{}, false
		}
		if at, ok := seen[x]; ok {
			return d.buildCycle(vertices, rates, seq[at:])
		}
		seen[x] = len(seq)
		seq = append(seq, x)
		x = pred[x]
	}
	return Cycle{}, false
}

// buildCycle backward 是回溯顺序 (x, pred(x), ...), 反转后即兑换顺序
func (d *Detector) buildCycle(vertices []string, rates map[[2]int]float64, backward []int) (Cycle, bool) {
	forward := make([]int, 0, len(backward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		forward = append(forward, backward[i])
	}
	forward = append(forward, forward[0])
	if len(forward) < 3 {
		return Cycle{}, false
	}

	cycle := Cycle{
		Currencies: make([]string, 0, len(forward)),
		Rates:      make([]float64, 0, len(forward)-1),
		Profit:     1,
	}
	for i, v := range forward {
		cycle.Currencies = append(cycle.Currencies, vertices[v])
		if i == 0 {
			continue
		}
		rate, ok := rates[[2]int{forward[i-1], v}]
		if !ok {
			return Cycle{}, false
		}
		cycle.Rates = append(cycle.Rates, rate)
		cycle.Profit *= rate
	}
	if !(cycle.Profit > 1) {
		return Cycle{}, false
	}
	return cycle, true
}
