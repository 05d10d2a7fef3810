package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/training-management/internal/reporting"
)

// Dashboard is the role-shaped summary returned to callers. Exactly one
// of Employee and Management is set, according to View.
type Dashboard struct {
	View       reporting.View
	Employee   *reporting.EmployeeDashboard
	Management *reporting.ManagementDashboard
}

// DashboardService assembles role-sensitive summaries from the entity
// collections. Summaries are recomputed on every call so mutations are
// visible immediately.
type DashboardService struct {
	store  ReportStore
	now    func() time.Time
	logger *slog.Logger
}

// NewDashboardService wires dependencies for dashboard generation.
func NewDashboardService(store ReportStore, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(store, now, nil)
}

// NewDashboardServiceWithLogger constructs a DashboardService with a specified logger.
func NewDashboardServiceWithLogger(store ReportStore, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		store:  store,
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// GetDashboard builds the summary for a role. Employee-shaped roles need
// a user id; every other role, recognised or not, receives the
// management view.
func (s *DashboardService) GetDashboard(ctx context.Context, role string, userID *int) (dashboard Dashboard, err error) {
	if s == nil || s.store == nil {
		err = fmt.Errorf("report store not configured")
		return
	}

	logger := s.loggerWith(ctx, "GetDashboard", "role", role)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "dashboard generation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("view", string(dashboard.View)).InfoContext(ctx, "dashboard generated")
	}()

	view := reporting.ResolveView(role)
	if view == reporting.ViewEmployee && userID == nil {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required for the employee dashboard")
		err = vErr
		return
	}

	requests, listErr := s.store.ListRequests(ctx)
	if listErr != nil {
		err = listErr
		return
	}
	sessions, listErr := s.store.ListSessions(ctx)
	if listErr != nil {
		err = listErr
		return
	}
	participants, listErr := s.store.ListParticipants(ctx)
	if listErr != nil {
		err = listErr
		return
	}

	now := s.now()
	if view == reporting.ViewEmployee {
		employee := reporting.BuildEmployeeDashboard(*userID,
			toReportingRequests(requests),
			toReportingSessions(sessions),
			toReportingParticipants(participants),
			now)
		dashboard = Dashboard{View: view, Employee: &employee}
		return dashboard, nil
	}

	users, listErr := s.store.ListUsers(ctx)
	if listErr != nil {
		err = listErr
		return
	}
	management := reporting.BuildManagementDashboard(
		toReportingUsers(users),
		toReportingRequests(requests),
		toReportingSessions(sessions),
		toReportingParticipants(participants),
		now)
	dashboard = Dashboard{View: view, Management: &management}
	return dashboard, nil
}
