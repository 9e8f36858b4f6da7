package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/task"
	"golang.org/x/sync/errgroup"
)

type RepositoryAPI interface {
	StatusCounts(ctx context.Context, businessID int64) (map[string]int64, error)
	EmployeeStats(ctx context.Context, businessID int64) ([]EmployeeStats, error)
	CompletedSince(ctx context.Context, businessID int64, since time.Time) ([]Completion, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Report builds the analytics of the manager's own business.
func (s *Service) Report(ctx context.Context, session *auth.Session) (*Report, error) {
	if !auth.IsAuthenticated(session) {
		return nil, internal.ErrAuthenticationRequired
	}
	if !auth.HasRole(session, auth.RoleManager) {
		return nil, internal.ErrRoleRequired
	}
	if !session.HasBusiness() {
		return nil, internal.ErrNoBusiness
	}
	businessID := *session.BusinessID

	var (
		counts      map[string]int64
		employees   []EmployeeStats
		completions []Completion
	)
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.StatusCounts(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = s.repo.EmployeeStats(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		completions, err = s.repo.CompletedSince(gctx, businessID, TrendStart(now, TrendDays))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to build analytics", "business_id", businessID, "error", err)
		return nil, internal.NewInternalError("failed to build analytics", err)
	}

	report := &Report{
		BusinessID: businessID,
		Employees:  employees,
		Trend:      BuildTrend(completions, now, TrendDays),
	}
	for _, status := range task.StatusNames() {
		report.StatusCounts = append(report.StatusCounts, StatusCount{Status: status, Count: counts[status]})
		report.TotalTasks += counts[status]
	}
	for i := range report.Employees {
		e := &report.Employees[i]
		e.CompletionRate = CompletionRate(e.CompletedTasks, e.TotalTasks)
	}
	if report.Employees == nil {
		report.Employees = []EmployeeStats{}
	}
	return report, nil
}
