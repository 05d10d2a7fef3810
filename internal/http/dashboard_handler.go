package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/reporting"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, role string, userID *int) (application.Dashboard, error)
}

type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

// Get renders the dashboard variant selected by the role path segment.
// Employee dashboards additionally require a userId query parameter.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	role := strings.TrimSpace(r.PathValue("role"))

	var userID *int
	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
			return
		}
		userID = &id
	}

	logger := h.log(r.Context(), "Get", "role", role)

	dashboard, err := h.service.GetDashboard(r.Context(), role, userID)
	if err != nil {
		logger.ErrorContext(r.Context(), "dashboard build failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("view", string(dashboard.View)).InfoContext(r.Context(), "dashboard produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDashboardDTO(dashboard))
}

type dashboardDTO struct {
	View       string                  `json:"view"`
	Employee   *employeeDashboardDTO   `json:"employee,omitempty"`
	Management *managementDashboardDTO `json:"management,omitempty"`
}

type employeeDashboardDTO struct {
	MyTrainingRequests   int `json:"my_training_requests"`
	MySessionsRegistered int `json:"my_sessions_registered"`
	MySessionsAttended   int `json:"my_sessions_attended"`
	MyUpcomingSessions   int `json:"my_upcoming_sessions"`
}

type managementDashboardDTO struct {
	ActiveUsers           int `json:"active_users"`
	TotalTrainingRequests int `json:"total_training_requests"`
	TotalTrainingSessions int `json:"total_training_sessions"`
	PendingRequests       int `json:"pending_requests"`
	UpcomingSessions      int `json:"upcoming_sessions"`
	ActiveParticipants    int `json:"active_participants"`
}

func toDashboardDTO(dashboard application.Dashboard) dashboardDTO {
	dto := dashboardDTO{View: string(dashboard.View)}
	if dashboard.Employee != nil {
		dto.Employee = toEmployeeDashboardDTO(*dashboard.Employee)
	}
	if dashboard.Management != nil {
		dto.Management = toManagementDashboardDTO(*dashboard.Management)
	}
	return dto
}

func toEmployeeDashboardDTO(d reporting.EmployeeDashboard) *employeeDashboardDTO {
	return &employeeDashboardDTO{
		MyTrainingRequests:   d.MyTrainingRequests,
		MySessionsRegistered: d.MySessionsRegistered,
		MySessionsAttended:   d.MySessionsAttended,
		MyUpcomingSessions:   d.MyUpcomingSessions,
	}
}

func toManagementDashboardDTO(d reporting.ManagementDashboard) *managementDashboardDTO {
	return &managementDashboardDTO{
		ActiveUsers:           d.ActiveUsers,
		TotalTrainingRequests: d.TotalTrainingRequests,
		TotalTrainingSessions: d.TotalTrainingSessions,
		PendingRequests:       d.PendingRequests,
		UpcomingSessions:      d.UpcomingSessions,
		ActiveParticipants:    d.ActiveParticipants,
	}
}
