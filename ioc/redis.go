package ioc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

func redisConfig() RedisConfig {
	cfg := RedisConfig{
		Addr:    "127.0.0.1:6379",
		Channel: "arbitrage:signals",
	}
	if err := viper.UnmarshalKey("redis", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

// InitRedis 未启用时返回 nil
func InitRedis() *redis.Client {
	cfg := redisConfig()
	if !cfg.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(err)
	}
	return rdb
}
