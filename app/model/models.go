package model

import (
	"time"

	"github.com/google/uuid"
)

// Role values stored in users.role.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// MaxScore is the fixed ceiling for a test score, used for percentage and
// average displays. It is not configurable.
const MaxScore = 10

// User represents any account in the system (student, teacher, admin).
// Students must reference a group to reach courses; teachers and admins
// may have no group.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Login        string     `gorm:"uniqueIndex;not null" json:"login"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"not null" json:"full_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"type:varchar(50);not null;check:role IN ('student','teacher','admin')" json:"role"`
	GroupID      *uuid.UUID `gorm:"type:uuid" json:"group_id"`
	Group        *Group     `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Group is a named cohort of students. Deleting a group detaches its
// members, it never deletes them.
type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Course is owned by exactly one teacher and assigned to exactly one group.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null" json:"teacher_id"`
	Teacher   *User     `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Test belongs to exactly one course.
type Test struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CompletedTest joins one student and one test. The composite unique index
// guarantees at most one row per (student, test): a resubmission overwrites
// score and timestamp instead of inserting a duplicate.
type CompletedTest struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completed_student_test" json:"student_id"`
	TestID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completed_student_test" json:"test_id"`
	Score       int       `gorm:"not null" json:"score"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completed_at"`
}
