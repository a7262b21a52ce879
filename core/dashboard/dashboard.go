package dashboard

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
)

// Length is the size of the latest subjects and "recent" assignments lists.
const Length = 5

type (
	Stats struct {
		TotalSubjects        int `json:"totalSubjects"`
		ActiveSubjects       int `json:"activeSubjects"`
		TotalAssignments     int `json:"totalAssignments"`
		CompletedAssignments int `json:"completedAssignments"`
		PendingAssignments   int `json:"pendingAssignments"`
		OverdueAssignments   int `json:"overdueAssignments"`
	}

	// Item is a listed assignment along with its subject.
	Item struct {
		assignment.View
		Subject subject.Subject `json:"subject"`
	}

	Dashboard struct {
		Subjects            []subject.WithCounts `json:"subjects"`
		RecentAssignments   []Item               `json:"recent_assignments"`
		UpcomingAssignments []Item               `json:"upcoming_assignments"`
		Stats               Stats                `json:"stats"`
	}

	// Row is an assignment joined with its subject.
	Row struct {
		Assignment assignment.Assignment
		Subject    subject.Subject
	}

	// Repository reads a user's aggregates. Every query is scoped to the given owner.
	Repository interface {
		CountSubjects(ctx context.Context, userID string, exec ...core.DBExecutor) (total, active int, err error)
		CountAssignments(ctx context.Context, userID string, now time.Time, exec ...core.DBExecutor) (subject.Counts, error)
		// LatestSubjects lists the newest subjects (created_at DESC) with their counts.
		LatestSubjects(ctx context.Context, userID string, limit int, now time.Time, exec ...core.DBExecutor) ([]subject.WithCounts, error)
		// EarliestDue lists assignments (completed or not) by due_date ASC.
		EarliestDue(ctx context.Context, userID string, limit int, exec ...core.DBExecutor) ([]Row, error)
		// PendingDueBetween lists pending assignments due within [from, to] by due_date ASC.
		PendingDueBetween(ctx context.Context, userID string, from, to time.Time, exec ...core.DBExecutor) ([]Row, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{repo: repo}
}

// Stats computes userID's totals. Pending includes overdue assignments.
func (svc *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	total, active, err := svc.repo.CountSubjects(ctx, userID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting subjects")
	}
	counts, err := svc.repo.CountAssignments(ctx, userID, core.NowFunc())
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting assignments")
	}
	return Stats{
		TotalSubjects:        total,
		ActiveSubjects:       active,
		TotalAssignments:     counts.Total,
		CompletedAssignments: counts.Completed,
		PendingAssignments:   counts.Pending,
		OverdueAssignments:   counts.Overdue,
	}, nil
}

// Get builds userID's dashboard.
// "recent" assignments are the Length ones with the earliest due date, whatever their status.
// "upcoming" assignments are pending and due within assignment.UpcomingWindow.
func (svc *Service) Get(ctx context.Context, userID string) (Dashboard, error) {
	now := core.NowFunc()

	subjects, err := svc.repo.LatestSubjects(ctx, userID, Length, now)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying latest subjects")
	}
	if subjects == nil {
		subjects = []subject.WithCounts{}
	}

	recent, err := svc.repo.EarliestDue(ctx, userID, Length)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying recent assignments")
	}

	upcoming, err := svc.repo.PendingDueBetween(ctx, userID, now, now.Add(assignment.UpcomingWindow))
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying upcoming assignments")
	}

	stats, err := svc.Stats(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Subjects:            subjects,
		RecentAssignments:   items(recent, now),
		UpcomingAssignments: items(upcoming, now),
		Stats:               stats,
	}, nil
}

// Upcoming lists userID's pending assignments due within assignment.UpcomingWindow, due_date ASC.
func (svc *Service) Upcoming(ctx context.Context, userID string) ([]Item, error) {
	now := core.NowFunc()
	rows, err := svc.repo.PendingDueBetween(ctx, userID, now, now.Add(assignment.UpcomingWindow))
	if err != nil {
		return nil, errors.Wrap(err, "querying upcoming assignments")
	}
	return items(rows, now), nil
}

func items(rows []Row, now time.Time) []Item {
	list := make([]Item, 0, len(rows))
	for _, row := range rows {
		list = append(list, Item{View: row.Assignment.View(now), Subject: row.Subject})
	}
	return list
}
