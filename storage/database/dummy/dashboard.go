package dummydb

import (
	"context"
	"time"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/subject"
)

type dashboardRepository struct {
	db *DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *DB) dashboard.Repository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) CountSubjects(_ context.Context, userID string, _ ...core.DBExecutor) (total, active int, err error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, subj := range repo.db.subjects {
		if subj.UserID != userID {
			continue
		}
		total++
		if subj.IsActive {
			active++
		}
	}
	return total, active, nil
}

func (repo *dashboardRepository) userAssignments(userID string) []assignment.Assignment {
	var list []assignment.Assignment
	for _, a := range repo.db.assignments {
		if a.UserID == userID {
			list = append(list, *a)
		}
	}
	sortByDueDate(list)
	return list
}

func (repo *dashboardRepository) CountAssignments(_ context.Context, userID string, now time.Time, _ ...core.DBExecutor) (subject.Counts, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return assignment.Tally(repo.userAssignments(userID), now), nil
}

func (repo *dashboardRepository) LatestSubjects(_ context.Context, userID string, limit int, now time.Time, _ ...core.DBExecutor) ([]subject.WithCounts, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subjects []subject.Subject
	for _, subj := range repo.db.subjects {
		if subj.UserID == userID {
			subjects = append(subjects, *subj)
		}
	}
	sortSubjects(subjects, []core.DBOrdering{{Field: "created_at", Ascending: false}})
	if len(subjects) > limit {
		subjects = subjects[:limit]
	}

	list := make([]subject.WithCounts, 0, len(subjects))
	for _, subj := range subjects {
		list = append(list, subject.WithCounts{Subject: subj, Counts: countsOf(repo.db, subj.ID, now)})
	}
	return list, nil
}

func (repo *dashboardRepository) rows(list []assignment.Assignment) []dashboard.Row {
	rows := make([]dashboard.Row, 0, len(list))
	for _, a := range list {
		row := dashboard.Row{Assignment: a}
		if subj, ok := repo.db.subjects[a.SubjectID]; ok {
			row.Subject = *subj
		}
		rows = append(rows, row)
	}
	return rows
}

func (repo *dashboardRepository) EarliestDue(_ context.Context, userID string, limit int, _ ...core.DBExecutor) ([]dashboard.Row, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	list := repo.userAssignments(userID)
	if len(list) > limit {
		list = list[:limit]
	}
	return repo.rows(list), nil
}

func (repo *dashboardRepository) PendingDueBetween(_ context.Context, userID string, from, to time.Time, _ ...core.DBExecutor) ([]dashboard.Row, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var list []assignment.Assignment
	for _, a := range repo.userAssignments(userID) {
		if !a.IsCompleted && !a.DueDate.Before(from) && !a.DueDate.After(to) {
			list = append(list, a)
		}
	}
	return repo.rows(list), nil
}
