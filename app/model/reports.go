package model

import (
	"time"

	"github.com/google/uuid"
)

// Report shapes returned by the aggregation endpoints. Each caller role gets
// its own course-list shape, resolved once from the caller's role instead of
// being inspected downstream.

// StudentCourse is a course of the student's group with their own progress.
type StudentCourse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Teacher        *User     `json:"teacher"`
	Group          *Group    `json:"group"`
	CreatedAt      time.Time `json:"created_at"`
	TotalTests     int64     `json:"total_tests"`
	CompletedTests int64     `json:"completed_tests"`
	CompletionRate float64   `json:"completion_rate"`
}

// TeacherCourse is an owned course with group-wide average progress.
type TeacherCourse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Teacher         *User     `json:"teacher"`
	Group           *Group    `json:"group"`
	CreatedAt       time.Time `json:"created_at"`
	TotalTests      int64     `json:"total_tests"`
	StudentCount    int64     `json:"student_count"`
	AverageProgress float64   `json:"average_progress"`
}

// TestWithCompletion is a course test annotated with the calling student's
// completion record, when one exists.
type TestWithCompletion struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CourseID    uuid.UUID  `json:"course_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Completed   bool       `json:"completed"`
	Score       *int       `json:"score"`
	CompletedAt *time.Time `json:"completed_at"`
}

type TeacherStats struct {
	CourseCount  int64 `json:"course_count"`
	GroupCount   int64 `json:"group_count"`
	StudentCount int64 `json:"student_count"`
}

type AdminStats struct {
	CourseCount int64 `json:"course_count"`
	UserCount   int64 `json:"user_count"`
	GroupCount  int64 `json:"group_count"`
}

type StudentStats struct {
	CompletedTestsCount  int64   `json:"completed_tests_count"`
	AverageScore         float64 `json:"average_score"`
	TotalTestsCount      int64   `json:"total_tests_count"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// StudentTestDetail is one completion joined to its test, course and teacher.
type StudentTestDetail struct {
	TestName    string    `json:"test_name"`
	CourseName  string    `json:"course_name"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	CompletedAt time.Time `json:"completed_at"`
	TeacherName string    `json:"teacher_name"`
}

// StudentProgress is one student's standing within a course.
type StudentProgress struct {
	StudentID      uuid.UUID  `json:"student_id"`
	StudentName    string     `json:"student_name"`
	StudentLogin   string     `json:"student_login"`
	CompletedTests int64      `json:"completed_tests"`
	TotalTests     int64      `json:"total_tests"`
	CompletionRate float64    `json:"completion_rate"`
	AverageScore   float64    `json:"average_score"`
	LastActivity   *time.Time `json:"last_activity"`
}

// CourseStatistics aggregates per-student progress for one course.
// AverageCompletionRate averages over every student in the group while
// AverageScore averages only over students with at least one completion.
type CourseStatistics struct {
	CourseID              uuid.UUID         `json:"course_id"`
	CourseName            string            `json:"course_name"`
	GroupName             string            `json:"group_name"`
	TotalStudents         int64             `json:"total_students"`
	TotalTests            int64             `json:"total_tests"`
	AverageCompletionRate float64           `json:"average_completion_rate"`
	AverageScore          float64           `json:"average_score"`
	StudentProgress       []StudentProgress `json:"student_progress"`
}

// TestWithStatistics is a course test with group-wide completion figures.
type TestWithStatistics struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CourseID       uuid.UUID `json:"course_id"`
	CreatedAt      time.Time `json:"created_at"`
	TotalStudents  int64     `json:"total_students"`
	CompletedCount int64     `json:"completed_count"`
	AverageScore   float64   `json:"average_score"`
	CompletionRate float64   `json:"completion_rate"`
}
