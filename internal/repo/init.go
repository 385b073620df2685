package repo

import (
	"github.com/KNICEX/arbitrage-engine/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Opportunity{})
}
