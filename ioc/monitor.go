package ioc

import (
	"github.com/KNICEX/arbitrage-engine/internal/repo"
	"github.com/KNICEX/arbitrage-engine/internal/service/monitor"
	"github.com/redis/go-redis/v9"
)

// InitArbitrageMonitor 控制台通知总是开启, 配置了 redis 时同时发布到 redis
func InitArbitrageMonitor(oppRepo repo.OpportunityRepo, rdb *redis.Client) *monitor.ArbitrageMonitor {
	notifiers := monitor.MultiNotifier{monitor.NewConsoleNotifier()}
	if rdb != nil {
		notifiers = append(notifiers, monitor.NewRedisNotifier(rdb, redisConfig().Channel))
	}
	return monitor.NewArbitrageMonitor(
		monitor.WithRepo(oppRepo),
		monitor.WithNotifier(notifiers),
	)
}
