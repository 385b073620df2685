package entity

import (
	"time"
)

// Opportunity 检测到的套利环, 只记录结果, 不记录历史汇率
type Opportunity struct {
	Id         int64  `gorm:"primaryKey;autoIncrement"`
	SignalId   string `gorm:"uniqueIndex;size:36"`
	Path       string // USDT -> BTC -> ETH -> USDT
	CycleKey   string `gorm:"index"` // 与起点无关的环标识
	Hops       int
	Profit     float64   // 汇率乘积, > 1
	DetectedAt time.Time `gorm:"index"`
	CreatedAt  time.Time
}
