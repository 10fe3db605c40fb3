package service

import (
	"testing"
	"time"

	"distance-learning-backend/app/model"
	"distance-learning-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherStats(t *testing.T) {
	env := newTestEnv()
	g1 := env.store.addGroup("G-101")
	g2 := env.store.addGroup("G-102")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)

	env.store.addUser("s1", model.RoleStudent, &g1.ID)
	env.store.addUser("s2", model.RoleStudent, &g1.ID)
	env.store.addUser("s3", model.RoleStudent, &g2.ID)
	// Non-students in the group never count.
	env.store.addUser("assistant", model.RoleTeacher, &g1.ID)

	// Two courses in g1, one in g2: distinct groups = 2.
	env.store.addCourse("Math", teacher.ID, g1.ID)
	env.store.addCourse("Physics", teacher.ID, g1.ID)
	env.store.addCourse("Chemistry", teacher.ID, g2.ID)

	stats, err := env.stats.TeacherStats(teacher)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.CourseCount)
	assert.Equal(t, int64(2), stats.GroupCount)
	assert.Equal(t, int64(3), stats.StudentCount)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	env.store.addUser("student1", model.RoleStudent, &group.ID)
	env.store.addUser("admin1", model.RoleAdmin, nil)
	env.store.addCourse("Math", teacher.ID, group.ID)

	stats, err := env.stats.AdminStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CourseCount)
	assert.Equal(t, int64(3), stats.UserCount)
	assert.Equal(t, int64(1), stats.GroupCount)
}

func TestStudentStats(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	student := env.store.addUser("student1", model.RoleStudent, &group.ID)

	course := env.store.addCourse("Math", teacher.ID, group.ID)
	t1 := env.store.addTest("Algebra", course.ID)
	t2 := env.store.addTest("Geometry", course.ID)
	env.store.addTest("Trigonometry", course.ID)

	env.store.addCompletion(student.ID, t1.ID, 6, time.Now())
	env.store.addCompletion(student.ID, t2.ID, 9, time.Now())

	stats, err := env.stats.StudentStats(student)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.CompletedTestsCount)
	assert.Equal(t, 7.5, stats.AverageScore)
	assert.Equal(t, int64(3), stats.TotalTestsCount)
	assert.Equal(t, 66.7, stats.CompletionPercentage)
}

func TestStudentStatsEmpty(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	student := env.store.addUser("student1", model.RoleStudent, &group.ID)

	stats, err := env.stats.StudentStats(student)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.CompletedTestsCount)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Equal(t, int64(0), stats.TotalTestsCount)
	assert.Equal(t, 0.0, stats.CompletionPercentage)
}

func TestStudentCompletedTestsOrderedDesc(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	student := env.store.addUser("student1", model.RoleStudent, &group.ID)

	course := env.store.addCourse("Math", teacher.ID, group.ID)
	t1 := env.store.addTest("Algebra", course.ID)
	t2 := env.store.addTest("Geometry", course.ID)

	now := time.Now()
	env.store.addCompletion(student.ID, t1.ID, 6, now.Add(-2*time.Hour))
	env.store.addCompletion(student.ID, t2.ID, 9, now.Add(-time.Hour))

	details, err := env.stats.StudentCompletedTests(student)
	require.NoError(t, err)
	require.Len(t, details, 2)

	// Most recent first, always reported against the fixed max score.
	assert.Equal(t, "Geometry", details[0].TestName)
	assert.Equal(t, "Algebra", details[1].TestName)
	for _, d := range details {
		assert.Equal(t, 10, d.MaxScore)
		assert.Equal(t, "Math", d.CourseName)
		assert.Equal(t, teacher.FullName, d.TeacherName)
	}
}

// The worked scenario: 2 tests, 2 students, A scores 6 and 10, B does
// nothing. average_completion_rate averages over both students while
// average_score only averages over A.
func TestCourseStatisticsScenario(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	studentA := env.store.addUser("a", model.RoleStudent, &group.ID)
	env.store.addUser("b", model.RoleStudent, &group.ID)

	course := env.store.addCourse("Math", teacher.ID, group.ID)
	t1 := env.store.addTest("Algebra", course.ID)
	t2 := env.store.addTest("Geometry", course.ID)

	lastAt := time.Now()
	env.store.addCompletion(studentA.ID, t1.ID, 6, lastAt.Add(-time.Hour))
	env.store.addCompletion(studentA.ID, t2.ID, 10, lastAt)

	stats, err := env.stats.CourseStatistics(teacher, course.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalStudents)
	assert.Equal(t, int64(2), stats.TotalTests)
	assert.Equal(t, 50.0, stats.AverageCompletionRate)
	assert.Equal(t, 8.0, stats.AverageScore)

	require.Len(t, stats.StudentProgress, 2)
	a := stats.StudentProgress[0]
	b := stats.StudentProgress[1]

	assert.Equal(t, int64(2), a.CompletedTests)
	assert.Equal(t, 100.0, a.CompletionRate)
	assert.Equal(t, 8.0, a.AverageScore)
	require.NotNil(t, a.LastActivity)
	assert.WithinDuration(t, lastAt, *a.LastActivity, time.Second)

	assert.Equal(t, int64(0), b.CompletedTests)
	assert.Equal(t, 0.0, b.CompletionRate)
	assert.Equal(t, 0.0, b.AverageScore)
	assert.Nil(t, b.LastActivity)
}

// 3 students, one active averaging 8: the rate mean divides by 3, the score
// mean divides by the single active student.
func TestCourseStatisticsDenominatorAsymmetry(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	active := env.store.addUser("active", model.RoleStudent, &group.ID)
	env.store.addUser("idle1", model.RoleStudent, &group.ID)
	env.store.addUser("idle2", model.RoleStudent, &group.ID)

	course := env.store.addCourse("Math", teacher.ID, group.ID)
	t1 := env.store.addTest("Algebra", course.ID)
	t2 := env.store.addTest("Geometry", course.ID)

	env.store.addCompletion(active.ID, t1.ID, 6, time.Now())
	env.store.addCompletion(active.ID, t2.ID, 10, time.Now())

	stats, err := env.stats.CourseStatistics(teacher, course.ID)
	require.NoError(t, err)

	// mean(100, 0, 0) = 33.3 vs score mean over active students only = 8.0
	assert.Equal(t, 33.3, stats.AverageCompletionRate)
	assert.Equal(t, 8.0, stats.AverageScore)
}

func TestCourseStatisticsNoTestsNoStudents(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	course := env.store.addCourse("Math", teacher.ID, group.ID)

	stats, err := env.stats.CourseStatistics(teacher, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalStudents)
	assert.Equal(t, 0.0, stats.AverageCompletionRate)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Empty(t, stats.StudentProgress)
}

func TestCourseStatisticsOwnershipIs404(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	owner := env.store.addUser("owner", model.RoleTeacher, nil)
	intruder := env.store.addUser("intruder", model.RoleTeacher, nil)
	course := env.store.addCourse("Math", owner.ID, group.ID)

	_, err := env.stats.CourseStatistics(intruder, course.ID)
	require.Error(t, err)
	assert.Equal(t, 404, utils.StatusOf(err))
}

func TestCourseTestsWithStats(t *testing.T) {
	env := newTestEnv()
	group := env.store.addGroup("G-101")
	teacher := env.store.addUser("teacher1", model.RoleTeacher, nil)
	studentA := env.store.addUser("a", model.RoleStudent, &group.ID)
	studentB := env.store.addUser("b", model.RoleStudent, &group.ID)

	course := env.store.addCourse("Math", teacher.ID, group.ID)
	t1 := env.store.addTest("Algebra", course.ID)
	env.store.addTest("Geometry", course.ID)

	env.store.addCompletion(studentA.ID, t1.ID, 6, time.Now())
	env.store.addCompletion(studentB.ID, t1.ID, 9, time.Now())

	tests, err := env.stats.CourseTestsWithStats(teacher, course.ID)
	require.NoError(t, err)
	require.Len(t, tests, 2)

	assert.Equal(t, int64(2), tests[0].TotalStudents)
	assert.Equal(t, int64(2), tests[0].CompletedCount)
	assert.Equal(t, 7.5, tests[0].AverageScore)
	assert.Equal(t, 100.0, tests[0].CompletionRate)

	assert.Equal(t, int64(0), tests[1].CompletedCount)
	assert.Equal(t, 0.0, tests[1].AverageScore)
	assert.Equal(t, 0.0, tests[1].CompletionRate)
}
