package types

import (
	"time"

	"github.com/google/uuid"
)

type Classroom struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassroomID string    `gorm:"column:classroom_id;not null;uniqueIndex" json:"classroom_id"`
	TeacherID   string    `gorm:"column:teacher_id;not null;index" json:"teacher_id"`
	TeacherName string    `gorm:"column:teacher_name;not null" json:"teacher_name"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Subject     string    `gorm:"column:subject" json:"subject,omitempty"`
	GradeLevel  string    `gorm:"column:grade_level" json:"grade_level,omitempty"`
	JoinCode    string    `gorm:"column:join_code;not null;uniqueIndex" json:"join_code"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Classroom) TableName() string { return "classroom" }

// Student is one enrollment: a student can hold one row per classroom.
type Student struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   string    `gorm:"column:student_id;not null;index:idx_student_enrollment,unique,priority:1" json:"student_id"`
	ClassroomID string    `gorm:"column:classroom_id;not null;index:idx_student_enrollment,unique,priority:2" json:"classroom_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Email       string    `gorm:"column:email" json:"email,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	JoinedAt    time.Time `gorm:"not null;default:now()" json:"joined_at"`
	LastActive  time.Time `gorm:"not null;default:now()" json:"last_active"`
}

func (Student) TableName() string { return "student" }
