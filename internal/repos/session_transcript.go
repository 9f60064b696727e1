package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

type SessionTranscriptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.SessionTranscript) error
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string, limit int) ([]*types.SessionTranscript, error)
	CountDistinctSessionsByPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error)
}

type sessionTranscriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionTranscriptRepo(db *gorm.DB, baseLog *logger.Logger) SessionTranscriptRepo {
	return &sessionTranscriptRepo{db: db, log: baseLog.With("repo", "SessionTranscriptRepo")}
}

func (r *sessionTranscriptRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SessionTranscript) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *sessionTranscriptRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string, limit int) ([]*types.SessionTranscript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SessionTranscript
	q := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountDistinctSessionsByPrefix counts distinct session IDs beginning with
// the given prefix. Session IDs are issued as "<student_id>_<suffix>", so a
// student ID prefix selects that student's sessions.
func (r *sessionTranscriptRepo) CountDistinctSessionsByPrefix(ctx context.Context, tx *gorm.DB, prefix string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SessionTranscript{}).
		Where("session_id LIKE ?", prefix+"%").
		Distinct("session_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
