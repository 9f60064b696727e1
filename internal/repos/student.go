package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Student) error
	Update(ctx context.Context, tx *gorm.DB, row *types.Student) error
	GetEnrollment(ctx context.Context, tx *gorm.DB, studentID, classroomID string) (*types.Student, error)
	ListActiveByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) ([]*types.Student, error)
	CountActiveByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) (int64, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *studentRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *studentRepo) GetEnrollment(ctx context.Context, tx *gorm.DB, studentID, classroomID string) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Student
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND classroom_id = ?", studentID, classroomID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *studentRepo) ListActiveByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Student
	if err := transaction.WithContext(ctx).
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Order("joined_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) CountActiveByClassroomID(ctx context.Context, tx *gorm.DB, classroomID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Student{}).
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
