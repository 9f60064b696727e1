package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
	"github.com/yungbote/braincell-backend/internal/types"
)

// joinCodeAlphabet omits the look-alike characters O, I, 0, and 1.
const (
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength   = 8
	joinCodeAttempts = 5
)

type CreateClassroomInput struct {
	TeacherID   string `json:"teacher_id" binding:"required"`
	TeacherName string `json:"teacher_name" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Subject     string `json:"subject"`
	GradeLevel  string `json:"grade_level"`
}

type JoinClassroomInput struct {
	JoinCode  string `json:"join_code" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
}

// ClassroomSummary is a classroom with its live enrollment count.
type ClassroomSummary struct {
	ClassroomID  string `json:"classroom_id"`
	Name         string `json:"name"`
	Subject      string `json:"subject,omitempty"`
	GradeLevel   string `json:"grade_level,omitempty"`
	JoinCode     string `json:"join_code"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	StudentCount int64  `json:"student_count"`
}

type ClassroomService interface {
	Create(ctx context.Context, input CreateClassroomInput) (*types.Classroom, error)
	Join(ctx context.Context, input JoinClassroomInput) (*types.Student, *types.Classroom, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]ClassroomSummary, error)
	Get(ctx context.Context, classroomID string) (*types.Classroom, error)
	Roster(ctx context.Context, classroomID string) ([]*types.Student, error)
}

type classroomService struct {
	log        *logger.Logger
	classrooms repos.ClassroomRepo
	students   repos.StudentRepo
}

func NewClassroomService(log *logger.Logger, classrooms repos.ClassroomRepo, students repos.StudentRepo) ClassroomService {
	return &classroomService{
		log:        log.With("service", "ClassroomService"),
		classrooms: classrooms,
		students:   students,
	}
}

func (s *classroomService) Create(ctx context.Context, input CreateClassroomInput) (*types.Classroom, error) {
	joinCode, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	row := &types.Classroom{
		ClassroomID: "class_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		TeacherID:   input.TeacherID,
		TeacherName: input.TeacherName,
		Name:        input.Name,
		Subject:     input.Subject,
		GradeLevel:  input.GradeLevel,
		JoinCode:    joinCode,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.classrooms.Create(ctx, nil, row); err != nil {
		return nil, &PersistenceError{Op: "classroom create", Err: err}
	}

	s.log.Info("Classroom created",
		"classroom_id", row.ClassroomID,
		"teacher_id", row.TeacherID,
	)
	return row, nil
}

func (s *classroomService) Join(ctx context.Context, input JoinClassroomInput) (*types.Student, *types.Classroom, error) {
	classroom, err := s.classrooms.GetByJoinCode(ctx, nil, input.JoinCode)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "classroom lookup", Err: err}
	}
	if classroom == nil || !classroom.IsActive {
		return nil, nil, fmt.Errorf("invalid join code")
	}

	now := time.Now().UTC()

	existing, err := s.students.GetEnrollment(ctx, nil, input.StudentID, classroom.ClassroomID)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "enrollment lookup", Err: err}
	}
	if existing != nil {
		// Re-joining reactivates a lapsed enrollment rather than duplicating it.
		existing.IsActive = true
		existing.LastActive = now
		if input.Name != "" {
			existing.Name = input.Name
		}
		if input.Email != "" {
			existing.Email = input.Email
		}
		if err := s.students.Update(ctx, nil, existing); err != nil {
			return nil, nil, &PersistenceError{Op: "enrollment update", Err: err}
		}
		return existing, classroom, nil
	}

	row := &types.Student{
		StudentID:   input.StudentID,
		ClassroomID: classroom.ClassroomID,
		Name:        input.Name,
		Email:       input.Email,
		IsActive:    true,
		JoinedAt:    now,
		LastActive:  now,
	}
	if err := s.students.Create(ctx, nil, row); err != nil {
		return nil, nil, &PersistenceError{Op: "enrollment create", Err: err}
	}

	s.log.Info("Student joined classroom",
		"student_id", row.StudentID,
		"classroom_id", classroom.ClassroomID,
	)
	return row, classroom, nil
}

func (s *classroomService) ListByTeacher(ctx context.Context, teacherID string) ([]ClassroomSummary, error) {
	rows, err := s.classrooms.ListByTeacherID(ctx, nil, teacherID)
	if err != nil {
		return nil, &PersistenceError{Op: "classroom list", Err: err}
	}

	out := make([]ClassroomSummary, 0, len(rows))
	for _, c := range rows {
		count, err := s.students.CountActiveByClassroomID(ctx, nil, c.ClassroomID)
		if err != nil {
			return nil, &PersistenceError{Op: "enrollment count", Err: err}
		}
		out = append(out, ClassroomSummary{
			ClassroomID:  c.ClassroomID,
			Name:         c.Name,
			Subject:      c.Subject,
			GradeLevel:   c.GradeLevel,
			JoinCode:     c.JoinCode,
			IsActive:     c.IsActive,
			CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
			StudentCount: count,
		})
	}
	return out, nil
}

func (s *classroomService) Get(ctx context.Context, classroomID string) (*types.Classroom, error) {
	row, err := s.classrooms.GetByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, &PersistenceError{Op: "classroom lookup", Err: err}
	}
	return row, nil
}

func (s *classroomService) Roster(ctx context.Context, classroomID string) ([]*types.Student, error) {
	rows, err := s.students.ListActiveByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, &PersistenceError{Op: "roster list", Err: err}
	}
	return rows, nil
}

func (s *classroomService) uniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return "", err
		}
		existing, err := s.classrooms.GetByJoinCode(ctx, nil, code)
		if err != nil {
			return "", &PersistenceError{Op: "join code lookup", Err: err}
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique join code")
}

func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, joinCodeLength)
	for i, b := range buf {
		out[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(out), nil
}
