package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment, _ ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if subj, ok := repo.db.subjects[a.SubjectID]; !ok || subj.UserID != a.UserID {
		return assignment.Assignment{}, assignment.ErrSubjectMismatch
	}
	a.ID = uuid.New().String()
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string, _ ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

// matchStatus applies the status filter. due_soon uses the upcoming window.
func matchStatus(a assignment.Assignment, status string, now time.Time) bool {
	switch status {
	case assignment.StatusCompleted:
		return a.IsCompleted
	case assignment.StatusPending:
		return !a.IsCompleted
	case assignment.StatusOverdue:
		return a.IsOverdue(now)
	case assignment.StatusDueSoon:
		return !a.IsCompleted && !a.DueDate.Before(now) && !a.DueDate.After(now.Add(assignment.UpcomingWindow))
	}
	return true
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, userID, subjectID string, filter assignment.QueryFilter, page core.PageRequest, now time.Time, _ ...core.DBExecutor) ([]assignment.Assignment, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var list []assignment.Assignment
	for _, a := range repo.db.assignments {
		if a.UserID != userID || a.SubjectID != subjectID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if !matchStatus(*a, filter.Status, now) {
			continue
		}
		list = append(list, *a)
	}
	sortByDueDate(list)

	start, end := page.Paginate(len(list))
	return list[start:end], len(list), nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment, _ ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.assignments[a.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	a.SubjectID = orig.SubjectID
	a.UserID = orig.UserID
	a.CreatedAt = orig.CreatedAt
	*orig = a
	return a, nil
}

func (repo *assignmentRepository) ToggleAssignmentComplete(_ context.Context, id, subjectID, userID string, now time.Time, _ ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a, ok := repo.db.assignments[id]
	if !ok || a.SubjectID != subjectID || a.UserID != userID {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	a.IsCompleted = !a.IsCompleted
	a.UpdatedAt = now
	return *a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id, subjectID, userID string, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if a, ok := repo.db.assignments[id]; ok && a.SubjectID == subjectID && a.UserID == userID {
		delete(repo.db.assignments, id)
	}
	return nil
}

// sortByDueDate orders due_date ASC, created_at DESC.
func sortByDueDate(list []assignment.Assignment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
