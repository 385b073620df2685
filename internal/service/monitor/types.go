package monitor

import (
	"context"
	"time"
)

// Signal 推送给通知渠道的套利信号
type Signal struct {
	Id        string    `json:"id"`
	Path      []string  `json:"path"`
	Rates     []float64 `json:"rates"`
	Profit    float64   `json:"profit"`
	Hops      int       `json:"hops"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, signal Signal) error
}
