package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

type ClassroomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Classroom) error
	GetByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) (*types.Classroom, error)
	GetByJoinCode(ctx context.Context, tx *gorm.DB, joinCode string) (*types.Classroom, error)
	ListByTeacherID(ctx context.Context, tx *gorm.DB, teacherID string) ([]*types.Classroom, error)
}

type classroomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	return &classroomRepo{db: db, log: baseLog.With("repo", "ClassroomRepo")}
}

func (r *classroomRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Classroom) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *classroomRepo) GetByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) (*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Classroom
	err := transaction.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *classroomRepo) GetByJoinCode(ctx context.Context, tx *gorm.DB, joinCode string) (*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Classroom
	err := transaction.WithContext(ctx).
		Where("join_code = ?", strings.ToUpper(strings.TrimSpace(joinCode))).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *classroomRepo) ListByTeacherID(ctx context.Context, tx *gorm.DB, teacherID string) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Classroom
	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
