// Package graph 维护实时汇率图: 顶点是币种, 边是带汇率的兑换方向.
package graph

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
)

var (
	// ErrInvalidRate 汇率非正数或非有限值, 不会写入图
	ErrInvalidRate = errors.New("invalid rate")
	// ErrInvalidPair 币种为空或自己兑换自己
	ErrInvalidPair = errors.New("invalid pair")
)

// Edge 1 单位 From 可兑换 Rate 单位 To
type Edge struct {
	From string
	To   string
	Rate float64
}

type pairKey struct {
	from, to string
}

// RateGraph 有向汇率图, 每个有序币对最多一条边, 新行情覆盖旧值.
// 写入方只有一个 (engine), 读取方通过 Snapshot 拿到一致的副本.
type RateGraph struct {
	mu sync.RWMutex

	vertices []string
	vertex   map[string]struct{}

	edges []Edge
	index map[pairKey]int // pairKey -> edges 下标
}

func New() *RateGraph {
	return &RateGraph{
		vertex: make(map[string]struct{}),
		index:  make(map[pairKey]int),
	}
}

// Upsert 写入 from->to 以及反向 to->from (1/rate).
// 两个方向要么同时写入, 要么都不写.
func (g *RateGraph) Upsert(from, to string, rate float64) error {
	if from == "" || to == "" || from == to {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidPair, from, to)
	}
	if !validRate(rate) {
		return fmt.Errorf("%w: %s -> %s rate %v", ErrInvalidRate, from, to, rate)
	}
	inverse := 1 / rate
	if !validRate(inverse) {
		return fmt.Errorf("%w: %s -> %s inverse rate %v", ErrInvalidRate, to, from, inverse)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.addVertex(from)
	g.addVertex(to)
	g.put(from, to, rate)
	g.put(to, from, inverse)
	return nil
}

func (g *RateGraph) addVertex(c string) {
	if _, ok := g.vertex[c]; ok {
		return
	}
	g.vertex[c] = struct{}{}
	g.vertices = append(g.vertices, c)
}

func (g *RateGraph) put(from, to string, rate float64) {
	key := pairKey{from: from, to: to}
	if i, ok := g.index[key]; ok {
		g.edges[i].Rate = rate
		return
	}
	g.index[key] = len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Rate: rate})
}

// Rate 查询某个方向的当前汇率
func (g *RateGraph) Rate(from, to string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.index[pairKey{from: from, to: to}]
	if !ok {
		return 0, false
	}
	return g.edges[i].Rate, true
}

func (g *RateGraph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

func (g *RateGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Snapshot 返回当前图的副本, 顺序与插入顺序一致.
func (g *RateGraph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Snapshot{
		Vertices: slices.Clone(g.vertices),
		Edges:    slices.Clone(g.edges),
	}
}

// Snapshot 某一时刻的只读图, 检测器只能拿到它
type Snapshot struct {
	Vertices []string
	Edges    []Edge
}

func (s Snapshot) VertexCount() int {
	return len(s.Vertices)
}

func (s Snapshot) EdgeCount() int {
	return len(s.Edges)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}
