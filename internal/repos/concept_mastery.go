package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

// ConceptStatRow is one grouped per-concept aggregate across a roster.
type ConceptStatRow struct {
	ConceptID          string  `gorm:"column:concept_id"`
	ConceptName        string  `gorm:"column:concept_name"`
	Topic              string  `gorm:"column:topic"`
	AvgMastery         float64 `gorm:"column:avg_mastery"`
	TotalAttempts      int     `gorm:"column:total_attempts"`
	StudentsStruggling int     `gorm:"column:students_struggling"`
	StudentsMastered   int     `gorm:"column:students_mastered"`
}

// TopicConfusionRow is the per-topic rollup used to rank most-confused
// topics.
type TopicConfusionRow struct {
	Topic          string  `gorm:"column:topic"`
	AvgMastery     float64 `gorm:"column:avg_mastery"`
	ConfusionTotal int     `gorm:"column:confusion_total"`
}

// StudentTotalsRow is one student's roll-up across all their mastery rows.
type StudentTotalsRow struct {
	ConceptCount       int     `gorm:"column:concept_count"`
	AvgMastery         float64 `gorm:"column:avg_mastery"`
	ConceptsStruggling int     `gorm:"column:concepts_struggling"`
	ConceptsMastered   int     `gorm:"column:concepts_mastered"`
	TotalConfused      int     `gorm:"column:total_confused"`
	TotalFrustrated    int     `gorm:"column:total_frustrated"`
}

type ConceptMasteryRepo interface {
	GetByKey(ctx context.Context, tx *gorm.DB, studentID, conceptID string) (*types.ConceptMastery, error)
	GetByKeyLocked(ctx context.Context, tx *gorm.DB, studentID, conceptID string) (*types.ConceptMastery, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.ConceptMastery) error
	Update(ctx context.Context, tx *gorm.DB, row *types.ConceptMastery) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID, topic string) ([]*types.ConceptMastery, error)
	ConceptStatsByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) ([]ConceptStatRow, error)
	TopicConfusionByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string, limit int) ([]TopicConfusionRow, error)
	StudentTotals(ctx context.Context, tx *gorm.DB, studentID string) (*StudentTotalsRow, error)
	AvgMasteryByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) (float64, error)
}

type conceptMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptMasteryRepo(db *gorm.DB, baseLog *logger.Logger) ConceptMasteryRepo {
	return &conceptMasteryRepo{db: db, log: baseLog.With("repo", "ConceptMasteryRepo")}
}

func (r *conceptMasteryRepo) GetByKey(ctx context.Context, tx *gorm.DB, studentID, conceptID string) (*types.ConceptMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.ConceptMastery
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND concept_id = ?", studentID, conceptID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByKeyLocked acquires a row-level lock for the read-modify-write of one
// mastery record. Must run inside a transaction.
func (r *conceptMasteryRepo) GetByKeyLocked(ctx context.Context, tx *gorm.DB, studentID, conceptID string) (*types.ConceptMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.ConceptMastery
	err := transaction.WithContext(ctx).
		Clauses(forUpdate()).
		Where("student_id = ? AND concept_id = ?", studentID, conceptID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *conceptMasteryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ConceptMastery) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *conceptMasteryRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ConceptMastery) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *conceptMasteryRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID, topic string) ([]*types.ConceptMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ConceptMastery
	q := transaction.WithContext(ctx).Where("student_id = ?", studentID)
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if err := q.Order("mastery_level ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *conceptMasteryRepo) ConceptStatsByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) ([]ConceptStatRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []ConceptStatRow
	if len(studentIDs) == 0 {
		return rows, nil
	}

	err := transaction.WithContext(ctx).
		Model(&types.ConceptMastery{}).
		Select(`concept_id, concept_name, topic,
			AVG(mastery_level) AS avg_mastery,
			SUM(attempts) AS total_attempts,
			SUM(CASE WHEN mastery_level < 0.4 THEN 1 ELSE 0 END) AS students_struggling,
			SUM(CASE WHEN mastery_level >= 0.7 THEN 1 ELSE 0 END) AS students_mastered`).
		Where("student_id IN ?", studentIDs).
		Group("concept_id, concept_name, topic").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *conceptMasteryRepo) TopicConfusionByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string, limit int) ([]TopicConfusionRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []TopicConfusionRow
	if len(studentIDs) == 0 {
		return rows, nil
	}

	q := transaction.WithContext(ctx).
		Model(&types.ConceptMastery{}).
		Select(`topic,
			AVG(mastery_level) AS avg_mastery,
			SUM(confused_count + frustrated_count) AS confusion_total`).
		Where("student_id IN ?", studentIDs).
		Group("topic").
		Order("avg_mastery ASC, confusion_total DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *conceptMasteryRepo) StudentTotals(ctx context.Context, tx *gorm.DB, studentID string) (*StudentTotalsRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row StudentTotalsRow
	err := transaction.WithContext(ctx).
		Model(&types.ConceptMastery{}).
		Select(`COUNT(*) AS concept_count,
			COALESCE(AVG(mastery_level), 0) AS avg_mastery,
			SUM(CASE WHEN mastery_level < 0.4 THEN 1 ELSE 0 END) AS concepts_struggling,
			SUM(CASE WHEN mastery_level >= 0.7 THEN 1 ELSE 0 END) AS concepts_mastered,
			COALESCE(SUM(confused_count), 0) AS total_confused,
			COALESCE(SUM(frustrated_count), 0) AS total_frustrated`).
		Where("student_id = ?", studentID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *conceptMasteryRepo) AvgMasteryByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []string) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(studentIDs) == 0 {
		return 0, nil
	}

	var avg float64
	err := transaction.WithContext(ctx).
		Model(&types.ConceptMastery{}).
		Select("COALESCE(AVG(mastery_level), 0)").
		Where("student_id IN ?", studentIDs).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg, nil
}
