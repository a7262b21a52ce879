package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) codeTaken(userID, code string, excluded ...subject.Subject) bool {
	for _, subj := range repo.db.subjects {
		if subj.UserID == userID && subj.SubjectCode == code && !isExcludedSubject(subj.ID, excluded) {
			return true
		}
	}
	return false
}

func (repo *subjectRepository) CheckCodeUniqueness(_ context.Context, userID, code string, excluded []subject.Subject, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	if repo.codeTaken(userID, code, excluded...) {
		return subject.ErrCodeExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, subj subject.Subject, _ ...core.DBExecutor) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.codeTaken(subj.UserID, subj.SubjectCode) {
		return subject.Subject{}, subject.ErrCodeExists
	}
	subj.ID = uuid.New().String()
	repo.db.subjects[subj.ID] = &subj
	return subj, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, id string, _ ...core.DBExecutor) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if subj, ok := repo.db.subjects[id]; ok {
		return *subj, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) GetSubjectCounts(_ context.Context, id string, now time.Time, _ ...core.DBExecutor) (subject.Counts, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return countsOf(repo.db, id, now), nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, userID string, filter subject.QueryFilter, ordering []core.DBOrdering, page core.PageRequest, now time.Time, _ ...core.DBExecutor) ([]subject.WithCounts, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	isActive := filter.IsActive()

	var subjects []subject.Subject
	for _, subj := range repo.db.subjects {
		if subj.UserID != userID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(subj.Name), search) &&
			!strings.Contains(strings.ToLower(subj.SubjectCode), search) &&
			!strings.Contains(strings.ToLower(subj.TeacherName), search) {
			continue
		}
		if filter.Difficulty != "" && subj.DifficultyLevel != filter.Difficulty {
			continue
		}
		if filter.Period != "" && subj.PeriodOfStudy != filter.Period {
			continue
		}
		if isActive != nil && subj.IsActive != *isActive {
			continue
		}
		subjects = append(subjects, *subj)
	}
	sortSubjects(subjects, ordering)

	start, end := page.Paginate(len(subjects))
	list := make([]subject.WithCounts, 0, end-start)
	for _, subj := range subjects[start:end] {
		list = append(list, subject.WithCounts{Subject: subj, Counts: countsOf(repo.db, subj.ID, now)})
	}
	return list, len(subjects), nil
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, subj subject.Subject, _ ...core.DBExecutor) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.subjects[subj.ID]
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	if repo.codeTaken(orig.UserID, subj.SubjectCode, *orig) {
		return subject.Subject{}, subject.ErrCodeExists
	}
	subj.UserID = orig.UserID
	subj.CreatedAt = orig.CreatedAt
	*orig = subj
	return subj, nil
}

func (repo *subjectRepository) ToggleSubjectActive(_ context.Context, id, userID string, now time.Time, _ ...core.DBExecutor) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	subj, ok := repo.db.subjects[id]
	if !ok || subj.UserID != userID {
		return subject.Subject{}, subject.ErrNotFound
	}
	subj.IsActive = !subj.IsActive
	subj.UpdatedAt = now
	return *subj, nil
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id, userID string, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if subj, ok := repo.db.subjects[id]; ok && subj.UserID == userID {
		repo.db.deleteSubject(id)
	}
	return nil
}

// countsOf must be called with the lock held.
func countsOf(db *DB, subjectID string, now time.Time) subject.Counts {
	var list []assignment.Assignment
	for _, a := range db.assignments {
		if a.SubjectID == subjectID {
			list = append(list, *a)
		}
	}
	return assignment.Tally(list, now)
}

func isExcludedSubject(id string, excluded []subject.Subject) bool {
	for _, s := range excluded {
		if s.ID == id {
			return true
		}
	}
	return false
}

// compareSubjects orders a and b on field: -1, 0 or 1.
func compareSubjects(a, b subject.Subject, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "subject_code":
		return strings.Compare(a.SubjectCode, b.SubjectCode)
	case "teacher_name":
		return strings.Compare(a.TeacherName, b.TeacherName)
	case "period_of_study":
		return strings.Compare(a.PeriodOfStudy, b.PeriodOfStudy)
	case "difficulty_level":
		return strings.Compare(a.DifficultyLevel, b.DifficultyLevel)
	case "credit_hours":
		return compareInts(a.CreditHours, b.CreditHours)
	case "is_active":
		return compareBools(a.IsActive, b.IsActive)
	case "created_at":
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case "updated_at":
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	}
	return 0
}

func sortSubjects(subjects []subject.Subject, ordering []core.DBOrdering) {
	sort.SliceStable(subjects, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareSubjects(subjects[i], subjects[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return subjects[i].ID < subjects[j].ID
	})
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
