package repo

import (
	"context"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/entity"
	"gorm.io/gorm"
)

type OpportunityRepo interface {
	Create(ctx context.Context, opp entity.Opportunity) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Opportunity, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type opportunityRepo struct {
	db *gorm.DB
}

func NewOpportunityRepo(db *gorm.DB) OpportunityRepo {
	return &opportunityRepo{
		db: db,
	}
}

func (r *opportunityRepo) Create(ctx context.Context, opp entity.Opportunity) (int64, error) {
	err := r.db.WithContext(ctx).Create(&opp).Error
	if err != nil {
		return 0, err
	}
	return opp.Id, nil
}

// FindRecent 按检测时间倒序
func (r *opportunityRepo) FindRecent(ctx context.Context, limit int) ([]entity.Opportunity, error) {
	var opps []entity.Opportunity
	err := r.db.WithContext(ctx).Order("detected_at DESC, id DESC").Limit(limit).Find(&opps).Error
	if err != nil {
		return nil, err
	}
	return opps, nil
}

func (r *opportunityRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Opportunity{}).Where("detected_at >= ?", since).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
