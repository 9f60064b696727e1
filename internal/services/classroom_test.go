package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/braincell-backend/internal/types"
)

func TestClassroomCreate_AssignsIDAndJoinCode(t *testing.T) {
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{},
		byJoinCode:    map[string]*types.Classroom{},
	}
	students := &fakeStudentRepo{}
	svc := NewClassroomService(newTestLogger(t), classrooms, students)

	created, err := svc.Create(context.Background(), CreateClassroomInput{
		TeacherID:   "t1",
		TeacherName: "Ms. Rivera",
		Name:        "Period 3 CS",
		Subject:     "Computer Science",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(created.ClassroomID, "class_") || len(created.ClassroomID) != len("class_")+12 {
		t.Fatalf("unexpected classroom id %q", created.ClassroomID)
	}
	if len(created.JoinCode) != 8 {
		t.Fatalf("expected 8-char join code, got %q", created.JoinCode)
	}
	for _, c := range created.JoinCode {
		if !strings.ContainsRune(joinCodeAlphabet, c) {
			t.Fatalf("join code %q contains %q outside the alphabet", created.JoinCode, c)
		}
	}
	if !created.IsActive {
		t.Fatal("new classroom should be active")
	}
	if len(classrooms.created) != 1 {
		t.Fatalf("expected one persisted classroom, got %d", len(classrooms.created))
	}
}

func TestGenerateJoinCode_OmitsLookAlikes(t *testing.T) {
	for _, banned := range "OI01" {
		if strings.ContainsRune(joinCodeAlphabet, banned) {
			t.Fatalf("alphabet must omit %q", banned)
		}
	}
	for i := 0; i < 100; i++ {
		code, err := generateJoinCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != joinCodeLength {
			t.Fatalf("expected length %d, got %q", joinCodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(joinCodeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestClassroomJoin_InvalidCode(t *testing.T) {
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{},
		byJoinCode:    map[string]*types.Classroom{},
	}
	svc := NewClassroomService(newTestLogger(t), classrooms, &fakeStudentRepo{})

	_, _, err := svc.Join(context.Background(), JoinClassroomInput{
		JoinCode: "NOPE2345", StudentID: "s1", Name: "Avery",
	})
	if err == nil || err.Error() != "invalid join code" {
		t.Fatalf("expected invalid join code error, got %v", err)
	}
}

func TestClassroomJoin_InactiveClassroomRejected(t *testing.T) {
	classroom := &types.Classroom{ClassroomID: "class_x", JoinCode: "ABCD2345", IsActive: false}
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{classroom.ClassroomID: classroom},
		byJoinCode:    map[string]*types.Classroom{classroom.JoinCode: classroom},
	}
	svc := NewClassroomService(newTestLogger(t), classrooms, &fakeStudentRepo{})

	_, _, err := svc.Join(context.Background(), JoinClassroomInput{
		JoinCode: "ABCD2345", StudentID: "s1", Name: "Avery",
	})
	if err == nil || err.Error() != "invalid join code" {
		t.Fatalf("expected inactive classroom to read as invalid code, got %v", err)
	}
}

func TestClassroomJoin_NewEnrollment(t *testing.T) {
	classroom := &types.Classroom{ClassroomID: "class_x", Name: "Period 3", JoinCode: "ABCD2345", IsActive: true}
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{classroom.ClassroomID: classroom},
		byJoinCode:    map[string]*types.Classroom{classroom.JoinCode: classroom},
	}
	students := &fakeStudentRepo{enrollments: map[string]*types.Student{}}
	svc := NewClassroomService(newTestLogger(t), classrooms, students)

	student, joined, err := svc.Join(context.Background(), JoinClassroomInput{
		JoinCode: "ABCD2345", StudentID: "s1", Name: "Avery", Email: "avery@school.test",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ClassroomID != "class_x" {
		t.Fatalf("joined wrong classroom %q", joined.ClassroomID)
	}
	if !student.IsActive || student.Name != "Avery" || student.ClassroomID != "class_x" {
		t.Fatalf("unexpected enrollment %+v", student)
	}
	if len(students.created) != 1 || len(students.updated) != 0 {
		t.Fatalf("expected one create and no updates, got %d/%d", len(students.created), len(students.updated))
	}
}

func TestClassroomJoin_ReactivatesLapsedEnrollment(t *testing.T) {
	classroom := &types.Classroom{ClassroomID: "class_x", JoinCode: "ABCD2345", IsActive: true}
	existing := &types.Student{
		StudentID:   "s1",
		ClassroomID: "class_x",
		Name:        "Old Name",
		IsActive:    false,
		LastActive:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{classroom.ClassroomID: classroom},
		byJoinCode:    map[string]*types.Classroom{classroom.JoinCode: classroom},
	}
	students := &fakeStudentRepo{
		enrollments: map[string]*types.Student{enrollmentKey("s1", "class_x"): existing},
	}
	svc := NewClassroomService(newTestLogger(t), classrooms, students)

	student, _, err := svc.Join(context.Background(), JoinClassroomInput{
		JoinCode: "ABCD2345", StudentID: "s1", Name: "Avery",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !student.IsActive {
		t.Fatal("re-join should reactivate the enrollment")
	}
	if student.Name != "Avery" {
		t.Fatalf("re-join should refresh the name, got %q", student.Name)
	}
	if student.LastActive.Year() != time.Now().UTC().Year() {
		t.Fatalf("last active not refreshed: %v", student.LastActive)
	}
	if len(students.created) != 0 || len(students.updated) != 1 {
		t.Fatalf("expected one update and no creates, got %d/%d", len(students.created), len(students.updated))
	}
}

func TestListByTeacher_IncludesStudentCounts(t *testing.T) {
	c1 := &types.Classroom{ClassroomID: "class_a", Name: "A", JoinCode: "AAAA2345", IsActive: true, CreatedAt: time.Now().UTC()}
	c2 := &types.Classroom{ClassroomID: "class_b", Name: "B", JoinCode: "BBBB2345", IsActive: true, CreatedAt: time.Now().UTC()}
	classrooms := &fakeClassroomRepo{
		byClassroomID: map[string]*types.Classroom{"class_a": c1, "class_b": c2},
		byJoinCode:    map[string]*types.Classroom{},
		byTeacherID:   map[string][]*types.Classroom{"t1": {c1, c2}},
	}
	students := &fakeStudentRepo{
		roster: map[string][]*types.Student{
			"class_a": {{StudentID: "s1"}, {StudentID: "s2"}},
		},
	}
	svc := NewClassroomService(newTestLogger(t), classrooms, students)

	summaries, err := svc.ListByTeacher(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 classrooms, got %d", len(summaries))
	}
	if summaries[0].StudentCount != 2 || summaries[1].StudentCount != 0 {
		t.Fatalf("unexpected counts %+v", summaries)
	}
}
