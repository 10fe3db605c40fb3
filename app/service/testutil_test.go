package service

import (
	"sort"
	"time"

	"distance-learning-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the relational store. The fake
// repositories below implement the repository interfaces over it, including
// the detach and cascade semantics of the real implementations, so service
// behavior can be exercised without a database.
type memStore struct {
	users       map[uuid.UUID]*model.User
	groups      map[uuid.UUID]*model.Group
	courses     map[uuid.UUID]*model.Course
	tests       map[uuid.UUID]*model.Test
	completions map[uuid.UUID]*model.CompletedTest
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uuid.UUID]*model.User{},
		groups:      map[uuid.UUID]*model.Group{},
		courses:     map[uuid.UUID]*model.Course{},
		tests:       map[uuid.UUID]*model.Test{},
		completions: map[uuid.UUID]*model.CompletedTest{},
	}
}

func (s *memStore) addGroup(name string) *model.Group {
	g := &model.Group{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	s.groups[g.ID] = g
	return g
}

func (s *memStore) addUser(login, role string, groupID *uuid.UUID) *model.User {
	u := &model.User{
		ID:           uuid.New(),
		Login:        login,
		Email:        login + "@example.com",
		FullName:     login,
		PasswordHash: "x",
		Role:         role,
		GroupID:      groupID,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addCourse(name string, teacherID, groupID uuid.UUID) *model.Course {
	c := &model.Course{ID: uuid.New(), Name: name, TeacherID: teacherID, GroupID: groupID, CreatedAt: time.Now()}
	s.courses[c.ID] = c
	return c
}

func (s *memStore) addTest(name string, courseID uuid.UUID) *model.Test {
	t := &model.Test{ID: uuid.New(), Name: name, CourseID: courseID, CreatedAt: time.Now()}
	s.tests[t.ID] = t
	return t
}

func (s *memStore) addCompletion(studentID, testID uuid.UUID, score int, at time.Time) *model.CompletedTest {
	ct := &model.CompletedTest{ID: uuid.New(), StudentID: studentID, TestID: testID, Score: score, CompletedAt: at}
	s.completions[ct.ID] = ct
	return ct
}

// ----- user repository fake -----

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(user *model.User) error {
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(id uuid.UUID) error {
	for ctID, ct := range r.store.completions {
		if ct.StudentID == id {
			delete(r.store.completions, ctID)
		}
	}
	for courseID, course := range r.store.courses {
		if course.TeacherID == id {
			deleteCourseCascadeMem(r.store, courseID)
		}
	}
	delete(r.store.users, id)
	return nil
}

func (r *memUserRepo) FindAll() ([]model.User, error) {
	users := []model.User{}
	for _, u := range r.store.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *memUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.store.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByLogin(login string) (*model.User, error) {
	for _, u := range r.store.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsWithLoginOrEmail(login, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.store.users {
		if u.ID == excludeID {
			continue
		}
		if u.Login == login || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) FindStudentsByGroup(groupID uuid.UUID) ([]model.User, error) {
	students := []model.User{}
	for _, u := range r.store.users {
		if u.Role == model.RoleStudent && u.GroupID != nil && *u.GroupID == groupID {
			students = append(students, *u)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	return students, nil
}

func (r *memUserRepo) CountStudentsByGroup(groupID uuid.UUID) (int64, error) {
	students, _ := r.FindStudentsByGroup(groupID)
	return int64(len(students)), nil
}

func (r *memUserRepo) CountDistinctStudentsOfTeacher(teacherID uuid.UUID) (int64, error) {
	groupIDs := map[uuid.UUID]bool{}
	for _, c := range r.store.courses {
		if c.TeacherID == teacherID {
			groupIDs[c.GroupID] = true
		}
	}
	var count int64
	for _, u := range r.store.users {
		if u.Role == model.RoleStudent && u.GroupID != nil && groupIDs[*u.GroupID] {
			count++
		}
	}
	return count, nil
}

func (r *memUserRepo) Count() (int64, error) {
	return int64(len(r.store.users)), nil
}

// ----- group repository fake -----

type memGroupRepo struct{ store *memStore }

func (r *memGroupRepo) Create(group *model.Group) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	cp := *group
	r.store.groups[group.ID] = &cp
	return nil
}

func (r *memGroupRepo) Update(group *model.Group) error {
	cp := *group
	r.store.groups[group.ID] = &cp
	return nil
}

func (r *memGroupRepo) Delete(id uuid.UUID) error {
	for _, u := range r.store.users {
		if u.GroupID != nil && *u.GroupID == id {
			u.GroupID = nil
		}
	}
	delete(r.store.groups, id)
	return nil
}

func (r *memGroupRepo) FindAll() ([]model.Group, error) {
	groups := []model.Group{}
	for _, g := range r.store.groups {
		groups = append(groups, *g)
	}
	return groups, nil
}

func (r *memGroupRepo) FindByID(id uuid.UUID) (*model.Group, error) {
	if g, ok := r.store.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memGroupRepo) ExistsWithName(name string, excludeID uuid.UUID) (bool, error) {
	for _, g := range r.store.groups {
		if g.ID != excludeID && g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memGroupRepo) Count() (int64, error) {
	return int64(len(r.store.groups)), nil
}

// ----- course repository fake -----

type memCourseRepo struct{ store *memStore }

func deleteCourseCascadeMem(store *memStore, courseID uuid.UUID) {
	for testID, test := range store.tests {
		if test.CourseID != courseID {
			continue
		}
		for ctID, ct := range store.completions {
			if ct.TestID == testID {
				delete(store.completions, ctID)
			}
		}
		delete(store.tests, testID)
	}
	delete(store.courses, courseID)
}

func (r *memCourseRepo) Create(course *model.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	cp := *course
	r.store.courses[course.ID] = &cp
	return nil
}

func (r *memCourseRepo) Update(course *model.Course) error {
	cp := *course
	r.store.courses[course.ID] = &cp
	return nil
}

func (r *memCourseRepo) Delete(id uuid.UUID) error {
	deleteCourseCascadeMem(r.store, id)
	return nil
}

func (r *memCourseRepo) withDetail(c model.Course) model.Course {
	if teacher, ok := r.store.users[c.TeacherID]; ok {
		cp := *teacher
		c.Teacher = &cp
	}
	if group, ok := r.store.groups[c.GroupID]; ok {
		cp := *group
		c.Group = &cp
	}
	return c
}

func (r *memCourseRepo) FindAll() ([]model.Course, error) {
	courses := []model.Course{}
	for _, c := range r.store.courses {
		courses = append(courses, r.withDetail(*c))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (r *memCourseRepo) FindByID(id uuid.UUID) (*model.Course, error) {
	if c, ok := r.store.courses[id]; ok {
		detail := r.withDetail(*c)
		return &detail, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCourseRepo) FindByIDAndTeacher(id, teacherID uuid.UUID) (*model.Course, error) {
	c, err := r.FindByID(id)
	if err != nil || c.TeacherID != teacherID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memCourseRepo) FindByGroup(groupID uuid.UUID) ([]model.Course, error) {
	courses := []model.Course{}
	for _, c := range r.store.courses {
		if c.GroupID == groupID {
			courses = append(courses, r.withDetail(*c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (r *memCourseRepo) FindByTeacher(teacherID uuid.UUID) ([]model.Course, error) {
	courses := []model.Course{}
	for _, c := range r.store.courses {
		if c.TeacherID == teacherID {
			courses = append(courses, r.withDetail(*c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (r *memCourseRepo) CountByTeacher(teacherID uuid.UUID) (int64, error) {
	courses, _ := r.FindByTeacher(teacherID)
	return int64(len(courses)), nil
}

func (r *memCourseRepo) CountDistinctGroupsByTeacher(teacherID uuid.UUID) (int64, error) {
	groupIDs := map[uuid.UUID]bool{}
	for _, c := range r.store.courses {
		if c.TeacherID == teacherID {
			groupIDs[c.GroupID] = true
		}
	}
	return int64(len(groupIDs)), nil
}

func (r *memCourseRepo) Count() (int64, error) {
	return int64(len(r.store.courses)), nil
}

// ----- test repository fake -----

type memTestRepo struct{ store *memStore }

func (r *memTestRepo) Create(test *model.Test) error {
	if test.ID == uuid.Nil {
		test.ID = uuid.New()
	}
	cp := *test
	r.store.tests[test.ID] = &cp
	return nil
}

func (r *memTestRepo) Update(test *model.Test) error {
	cp := *test
	r.store.tests[test.ID] = &cp
	return nil
}

func (r *memTestRepo) Delete(id uuid.UUID) error {
	delete(r.store.tests, id)
	return nil
}

func (r *memTestRepo) FindAllWithDetails() ([]model.Test, error) {
	tests := []model.Test{}
	for _, t := range r.store.tests {
		tests = append(tests, *t)
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].CreatedAt.Before(tests[j].CreatedAt) })
	return tests, nil
}

func (r *memTestRepo) FindByID(id uuid.UUID) (*model.Test, error) {
	if t, ok := r.store.tests[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTestRepo) FindByCourse(courseID uuid.UUID) ([]model.Test, error) {
	tests := []model.Test{}
	for _, t := range r.store.tests {
		if t.CourseID == courseID {
			tests = append(tests, *t)
		}
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].CreatedAt.Before(tests[j].CreatedAt) })
	return tests, nil
}

func (r *memTestRepo) CountByCourse(courseID uuid.UUID) (int64, error) {
	tests, _ := r.FindByCourse(courseID)
	return int64(len(tests)), nil
}

func (r *memTestRepo) CountByGroupCourses(groupID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.store.tests {
		if c, ok := r.store.courses[t.CourseID]; ok && c.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

// ----- completed test repository fake -----

type memCompletedTestRepo struct{ store *memStore }

func (r *memCompletedTestRepo) Create(ct *model.CompletedTest) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	cp := *ct
	r.store.completions[ct.ID] = &cp
	return nil
}

func (r *memCompletedTestRepo) Update(ct *model.CompletedTest) error {
	cp := *ct
	r.store.completions[ct.ID] = &cp
	return nil
}

func (r *memCompletedTestRepo) FindByStudentAndTest(studentID, testID uuid.UUID) (*model.CompletedTest, error) {
	for _, ct := range r.store.completions {
		if ct.StudentID == studentID && ct.TestID == testID {
			cp := *ct
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompletedTestRepo) FindByStudent(studentID uuid.UUID) ([]model.CompletedTest, error) {
	cts := []model.CompletedTest{}
	for _, ct := range r.store.completions {
		if ct.StudentID == studentID {
			cts = append(cts, *ct)
		}
	}
	return cts, nil
}

func (r *memCompletedTestRepo) FindDetailsByStudent(studentID uuid.UUID) ([]model.StudentTestDetail, error) {
	details := []model.StudentTestDetail{}
	for _, ct := range r.store.completions {
		if ct.StudentID != studentID {
			continue
		}
		test := r.store.tests[ct.TestID]
		course := r.store.courses[test.CourseID]
		teacher := r.store.users[course.TeacherID]
		details = append(details, model.StudentTestDetail{
			TestName:    test.Name,
			CourseName:  course.Name,
			Score:       ct.Score,
			CompletedAt: ct.CompletedAt,
			TeacherName: teacher.FullName,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].CompletedAt.After(details[j].CompletedAt) })
	return details, nil
}

func (r *memCompletedTestRepo) FindByStudentAndCourse(studentID, courseID uuid.UUID) ([]model.CompletedTest, error) {
	cts := []model.CompletedTest{}
	for _, ct := range r.store.completions {
		if ct.StudentID != studentID {
			continue
		}
		if t, ok := r.store.tests[ct.TestID]; ok && t.CourseID == courseID {
			cts = append(cts, *ct)
		}
	}
	return cts, nil
}

func (r *memCompletedTestRepo) FindByTest(testID uuid.UUID) ([]model.CompletedTest, error) {
	cts := []model.CompletedTest{}
	for _, ct := range r.store.completions {
		if ct.TestID == testID {
			cts = append(cts, *ct)
		}
	}
	return cts, nil
}

func (r *memCompletedTestRepo) CountByTest(testID uuid.UUID) (int64, error) {
	cts, _ := r.FindByTest(testID)
	return int64(len(cts)), nil
}

func (r *memCompletedTestRepo) CountByCourse(courseID uuid.UUID) (int64, error) {
	var count int64
	for _, ct := range r.store.completions {
		if t, ok := r.store.tests[ct.TestID]; ok && t.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

// ----- wiring helpers -----

type testEnv struct {
	store   *memStore
	auth    AuthService
	courses CourseService
	stats   StatsService
	admin   AdminService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	userRepo := &memUserRepo{store}
	groupRepo := &memGroupRepo{store}
	courseRepo := &memCourseRepo{store}
	testRepo := &memTestRepo{store}
	ctRepo := &memCompletedTestRepo{store}

	return &testEnv{
		store:   store,
		auth:    NewAuthService(userRepo),
		courses: NewCourseService(courseRepo, testRepo, userRepo, ctRepo),
		stats:   NewStatsService(userRepo, groupRepo, courseRepo, testRepo, ctRepo),
		admin:   NewAdminService(userRepo, groupRepo, courseRepo, testRepo, ctRepo),
	}
}
