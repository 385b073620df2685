package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier 通过 redis pub/sub 把信号发布给下游 (告警, 面板等)
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = "arbitrage:signals"
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, signal Signal) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", n.channel, err)
	}
	return nil
}

// MultiNotifier 依次调用所有 notifier, 某个失败不影响其他
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, signal Signal) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, signal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func pathString(path []string) string {
	return strings.Join(path, " -> ")
}
