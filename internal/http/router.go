package http

import "net/http"

type RouterConfig struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Requests      *RequestHandler
	Sessions      *SessionHandler
	Registrations *RegistrationHandler
	Dashboard     *DashboardHandler
	Reports       *ReportHandler
	Middleware    []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("POST /api/auth/login", cfg.Auth.Login)
		mux.HandleFunc("POST /api/auth/logout", cfg.Auth.Logout)
	}

	if cfg.Users != nil {
		mux.HandleFunc("GET /api/users", cfg.Users.List)
		mux.HandleFunc("POST /api/users", cfg.Users.Create)
		mux.HandleFunc("GET /api/users/roles", cfg.Users.ListRoles)
		mux.HandleFunc("GET /api/users/email/{email}", cfg.Users.GetByEmail)
		mux.HandleFunc("GET /api/users/role/{role}", cfg.Users.ListByRole)
		mux.HandleFunc("GET /api/users/{id}", cfg.Users.Get)
		mux.HandleFunc("PUT /api/users/{id}", cfg.Users.Update)
		mux.HandleFunc("DELETE /api/users/{id}", cfg.Users.Delete)
		mux.HandleFunc("PUT /api/users/{id}/deactivate", cfg.Users.Deactivate)
	}

	if cfg.Requests != nil {
		mux.HandleFunc("GET /api/training/requests", cfg.Requests.List)
		mux.HandleFunc("POST /api/training/requests", cfg.Requests.Create)
		mux.HandleFunc("GET /api/training/requests/user/{userId}", cfg.Requests.ListByUser)
		mux.HandleFunc("GET /api/training/requests/status/{status}", cfg.Requests.ListByStatus)
		mux.HandleFunc("GET /api/training/requests/{id}", cfg.Requests.Get)
		mux.HandleFunc("DELETE /api/training/requests/{id}", cfg.Requests.Delete)
		mux.HandleFunc("PUT /api/training/requests/{id}/status", cfg.Requests.UpdateStatus)
		mux.HandleFunc("PUT /api/training/requests/{id}/session", cfg.Requests.LinkSession)
	}

	if cfg.Sessions != nil {
		mux.HandleFunc("GET /api/training/sessions", cfg.Sessions.List)
		mux.HandleFunc("POST /api/training/sessions", cfg.Sessions.Create)
		mux.HandleFunc("GET /api/training/sessions/request/{requestId}", cfg.Sessions.ListByRequest)
		mux.HandleFunc("GET /api/training/sessions/registered/{userId}", cfg.Sessions.ListRegisteredByUser)
		mux.HandleFunc("GET /api/training/sessions/{id}", cfg.Sessions.Get)
		mux.HandleFunc("PUT /api/training/sessions/{id}", cfg.Sessions.Update)
		mux.HandleFunc("DELETE /api/training/sessions/{id}", cfg.Sessions.Delete)
	}

	if cfg.Registrations != nil {
		mux.HandleFunc("GET /api/training/sessions/{sessionId}/participants", cfg.Registrations.ListParticipants)
		mux.HandleFunc("POST /api/training/sessions/{sessionId}/register/{userId}", cfg.Registrations.Register)
		mux.HandleFunc("DELETE /api/training/sessions/{sessionId}/unregister/{userId}", cfg.Registrations.Unregister)
		mux.HandleFunc("PUT /api/training/sessions/{sessionId}/participants/{userId}/status", cfg.Registrations.UpdateParticipantStatus)
		mux.HandleFunc("POST /api/training/sessions/{sessionId}/attendance", cfg.Registrations.RecordAttendance)
		mux.HandleFunc("GET /api/training/sessions/{sessionId}/attendance", cfg.Registrations.ListAttendance)
	}

	if cfg.Dashboard != nil {
		mux.HandleFunc("GET /api/training/dashboard/{role}", cfg.Dashboard.Get)
	}

	if cfg.Reports != nil {
		mux.HandleFunc("GET /api/reports/training-requests", cfg.Reports.TrainingRequests)
		mux.HandleFunc("GET /api/reports/departments", cfg.Reports.Departments)
		mux.HandleFunc("GET /api/reports/training-sessions", cfg.Reports.TrainingSessions)
		mux.HandleFunc("GET /api/reports/participation", cfg.Reports.Participation)
		mux.HandleFunc("GET /api/reports/attendance", cfg.Reports.Attendance)
		mux.HandleFunc("GET /api/reports/trainer-performance", cfg.Reports.TrainerPerformance)
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}
