package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

type UsageMetricRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.UsageMetric) error
}

type usageMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageMetricRepo(db *gorm.DB, baseLog *logger.Logger) UsageMetricRepo {
	return &usageMetricRepo{db: db, log: baseLog.With("repo", "UsageMetricRepo")}
}

func (r *usageMetricRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UsageMetric) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}
