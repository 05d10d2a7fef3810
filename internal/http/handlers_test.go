package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/reporting"
)

type stubAuthService struct {
	result       application.AuthenticateResult
	authErr      error
	revokeErr    error
	revokedToken string
}

func (s *stubAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authErr != nil {
		return application.AuthenticateResult{}, s.authErr
	}
	return s.result, nil
}

func (s *stubAuthService) RevokeSession(ctx context.Context, token string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revokedToken = token
	return nil
}

type stubRegistrationService struct {
	participant  application.Participant
	participants []application.Participant
	removed      bool
	err          error
}

func (s *stubRegistrationService) Register(ctx context.Context, userID, sessionID int) (application.Participant, error) {
	if s.err != nil {
		return application.Participant{}, s.err
	}
	return s.participant, nil
}

func (s *stubRegistrationService) Unregister(ctx context.Context, userID, sessionID int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.removed, nil
}

func (s *stubRegistrationService) UpdateParticipantStatus(ctx context.Context, userID, sessionID int, status string) (application.Participant, error) {
	if s.err != nil {
		return application.Participant{}, s.err
	}
	return s.participant, nil
}

func (s *stubRegistrationService) ListSessionParticipants(ctx context.Context, sessionID int) ([]application.Participant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.participants, nil
}

func (s *stubRegistrationService) ListUserRegistrations(ctx context.Context, userID int) ([]application.Participant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.participants, nil
}

type stubAttendanceService struct {
	record  application.AttendanceRecord
	records []application.AttendanceRecord
	err     error
}

func (s *stubAttendanceService) RecordAttendance(ctx context.Context, sessionID, userID int, status string) (application.AttendanceRecord, error) {
	if s.err != nil {
		return application.AttendanceRecord{}, s.err
	}
	return s.record, nil
}

func (s *stubAttendanceService) ListSessionAttendance(ctx context.Context, sessionID int) ([]application.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type stubUserService struct {
	user  application.User
	users []application.User
	roles []application.Role
	err   error
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]application.User, error) {
	return s.users, s.err
}

func (s *stubUserService) GetUser(ctx context.Context, id int) (application.User, error) {
	return s.user, s.err
}

func (s *stubUserService) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	return s.user, s.err
}

func (s *stubUserService) ListUsersByRole(ctx context.Context, roleName string) ([]application.User, error) {
	return s.users, s.err
}

func (s *stubUserService) ListRoles(ctx context.Context) ([]application.Role, error) {
	return s.roles, s.err
}

func (s *stubUserService) CreateUser(ctx context.Context, input application.UserInput) (application.User, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int, input application.UserInput) (application.User, error) {
	return s.user, s.err
}

func (s *stubUserService) DeactivateUser(ctx context.Context, id int) error {
	return s.err
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int) error {
	return s.err
}

type stubRequestService struct {
	request  application.TrainingRequest
	requests []application.TrainingRequest
	err      error
}

func (s *stubRequestService) ListRequests(ctx context.Context) ([]application.TrainingRequest, error) {
	return s.requests, s.err
}

func (s *stubRequestService) ListRequestsByUser(ctx context.Context, userID int) ([]application.TrainingRequest, error) {
	return s.requests, s.err
}

func (s *stubRequestService) ListRequestsByStatus(ctx context.Context, status string) ([]application.TrainingRequest, error) {
	return s.requests, s.err
}

func (s *stubRequestService) GetRequest(ctx context.Context, id int) (application.TrainingRequest, error) {
	return s.request, s.err
}

func (s *stubRequestService) CreateRequest(ctx context.Context, input application.RequestInput) (application.TrainingRequest, error) {
	return s.request, s.err
}

func (s *stubRequestService) UpdateRequestStatus(ctx context.Context, id int, status string) (application.TrainingRequest, error) {
	return s.request, s.err
}

func (s *stubRequestService) LinkSession(ctx context.Context, requestID, sessionID int) (application.TrainingRequest, error) {
	return s.request, s.err
}

func (s *stubRequestService) DeleteRequest(ctx context.Context, id int) error {
	return s.err
}

type stubDashboardService struct {
	dashboard application.Dashboard
	err       error
	role      string
	userID    *int
}

func (s *stubDashboardService) GetDashboard(ctx context.Context, role string, userID *int) (application.Dashboard, error) {
	s.role = role
	s.userID = userID
	if s.err != nil {
		return application.Dashboard{}, s.err
	}
	return s.dashboard, nil
}

type stubReportService struct {
	requestRows []reporting.RequestReportRow
	err         error
}

func (s *stubReportService) TrainingRequestReport(ctx context.Context, from, to *time.Time) ([]reporting.RequestReportRow, error) {
	return s.requestRows, s.err
}

func (s *stubReportService) DepartmentReport(ctx context.Context) ([]reporting.DepartmentReportRow, error) {
	return nil, s.err
}

func (s *stubReportService) TrainingSessionReport(ctx context.Context, from, to *time.Time) ([]reporting.SessionReportRow, error) {
	return nil, s.err
}

func (s *stubReportService) UserParticipationReport(ctx context.Context, userID *int) ([]reporting.ParticipationReportRow, error) {
	return nil, s.err
}

func (s *stubReportService) AttendanceReport(ctx context.Context, from, to *time.Time) ([]reporting.AttendanceReportRow, error) {
	return nil, s.err
}

func (s *stubReportService) TrainerPerformanceReport(ctx context.Context) ([]reporting.TrainerReportRow, error) {
	return nil, s.err
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}

func TestAuthHandler_Login_IssuesTokenViaCookieAndHeader(t *testing.T) {
	t.Parallel()

	expires := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	service := &stubAuthService{result: application.AuthenticateResult{
		User: application.User{ID: 1, Name: "Aiko", Email: "aiko@example.com", IsActive: true},
		Session: application.AuthSession{
			ID:        1,
			UserID:    1,
			Token:     "token-1",
			ExpiresAt: expires,
		},
	}}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"aiko@example.com","password":"secret"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("X-Session-Token"); got != "token-1" {
		t.Fatalf("expected token header, got %q", got)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "session_token" {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "token-1" {
		t.Fatalf("expected session cookie, got %v", sessionCookie)
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie")
	}

	var body loginResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if body.Token != "token-1" || body.User.ID != 1 {
		t.Fatalf("unexpected login payload: %+v", body)
	}
}

func TestAuthHandler_Login_MapsInvalidCredentials(t *testing.T) {
	t.Parallel()

	service := &stubAuthService{authErr: application.ErrInvalidCredentials}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"aiko@example.com","password":"wrong"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if body := decodeErrorResponse(t, recorder); body.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
		t.Fatalf("unexpected error payload: %+v", body)
	}
}

func TestAuthHandler_Logout_RevokesBearerToken(t *testing.T) {
	t.Parallel()

	service := &stubAuthService{}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", recorder.Code)
	}
	if service.revokedToken != "token-1" {
		t.Fatalf("expected token to be revoked, got %q", service.revokedToken)
	}
}

func TestAuthHandler_Logout_RequiresToken(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Auth: NewAuthHandler(&stubAuthService{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestRegistrationHandler_Register_MapsCapacityToSessionFull(t *testing.T) {
	t.Parallel()

	service := &stubRegistrationService{err: application.ErrCapacityExceeded}
	router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, &stubAttendanceService{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/training/sessions/1/register/2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
	if body := decodeErrorResponse(t, recorder); body.ErrorCode != "SESSION_FULL" {
		t.Fatalf("unexpected error payload: %+v", body)
	}
}

func TestRegistrationHandler_Register_MapsDuplicateToConflict(t *testing.T) {
	t.Parallel()

	service := &stubRegistrationService{err: application.ErrConflict}
	router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, &stubAttendanceService{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/training/sessions/1/register/2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
	if body := decodeErrorResponse(t, recorder); body.ErrorCode != "REGISTRATION_DUPLICATE" {
		t.Fatalf("unexpected error payload: %+v", body)
	}
}

func TestRegistrationHandler_Register_ReturnsCreatedParticipant(t *testing.T) {
	t.Parallel()

	registeredAt := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	service := &stubRegistrationService{participant: application.Participant{
		ID: 7, UserID: 2, SessionID: 1, Status: "registered", RegisteredAt: registeredAt,
	}}
	router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, &stubAttendanceService{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/training/sessions/1/register/2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body participantResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Participant.ID != 7 || body.Participant.Status != "registered" {
		t.Fatalf("unexpected participant payload: %+v", body.Participant)
	}
}

func TestRegistrationHandler_Register_RejectsMalformedIdentifiers(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(&stubRegistrationService{}, &stubAttendanceService{}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/training/sessions/abc/register/2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric session id, got %d", recorder.Code)
	}
}

func TestRegistrationHandler_Unregister_ReportsRemoval(t *testing.T) {
	t.Parallel()

	service := &stubRegistrationService{removed: true}
	router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, &stubAttendanceService{}, nil)})

	req := httptest.NewRequest(http.MethodDelete, "/api/training/sessions/1/unregister/2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var body unregisterResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Removed {
		t.Fatalf("expected removed=true, got %+v", body)
	}
}

func TestUserHandler_Create_MapsValidationErrors(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{"email": "email is invalid"}}
	router := NewRouter(RouterConfig{Users: NewUserHandler(&stubUserService{err: vErr}, nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Aiko","email":"broken"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
	body := decodeErrorResponse(t, recorder)
	if body.Errors["email"] != "email is invalid" {
		t.Fatalf("expected field errors in payload, got %+v", body)
	}
}

func TestRequestHandler_Get_MapsNotFound(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Requests: NewRequestHandler(&stubRequestService{err: application.ErrNotFound}, nil)})

	req := httptest.NewRequest(http.MethodGet, "/api/training/requests/42", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestRequestHandler_LinkSession_ReturnsUpdatedRequest(t *testing.T) {
	t.Parallel()

	sessionID := 5
	service := &stubRequestService{request: application.TrainingRequest{ID: 1, Title: "Advanced SQL", Status: "approved", SessionID: &sessionID}}
	router := NewRouter(RouterConfig{Requests: NewRequestHandler(service, nil)})

	req := httptest.NewRequest(http.MethodPut, "/api/training/requests/1/session", strings.NewReader(`{"session_id":5}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body requestResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Request.SessionID == nil || *body.Request.SessionID != 5 {
		t.Fatalf("expected the linked session in the response, got %+v", body.Request)
	}
}

func TestRequestHandler_LinkSession_RejectsMissingSessionID(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Requests: NewRequestHandler(&stubRequestService{}, nil)})

	req := httptest.NewRequest(http.MethodPut, "/api/training/requests/1/session", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestDashboardHandler_Get_PassesRoleAndUser(t *testing.T) {
	t.Parallel()

	employee := reporting.EmployeeDashboard{MyTrainingRequests: 3}
	service := &stubDashboardService{dashboard: application.Dashboard{
		View:     reporting.ViewEmployee,
		Employee: &employee,
	}}
	router := NewRouter(RouterConfig{Dashboard: NewDashboardHandler(service, nil)})

	req := httptest.NewRequest(http.MethodGet, "/api/training/dashboard/employee?userId=10", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if service.role != "employee" || service.userID == nil || *service.userID != 10 {
		t.Fatalf("expected role and user to reach the service, got role=%q userID=%v", service.role, service.userID)
	}

	var body dashboardDTO
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.View != "employee" || body.Employee == nil || body.Employee.MyTrainingRequests != 3 {
		t.Fatalf("unexpected dashboard payload: %+v", body)
	}
}

func TestDashboardHandler_Get_RejectsMalformedUserID(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Dashboard: NewDashboardHandler(&stubDashboardService{}, nil)})

	req := httptest.NewRequest(http.MethodGet, "/api/training/dashboard/employee?userId=zero", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestReportHandler_TrainingRequests_ReturnsRows(t *testing.T) {
	t.Parallel()

	service := &stubReportService{requestRows: []reporting.RequestReportRow{
		{Status: "pending", Department: "Engineering", TrainingType: "technical", Month: "2025-03", TotalRequests: 2},
	}}
	router := NewRouter(RouterConfig{Reports: NewReportHandler(service, nil)})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/training-requests?startDate=2025-03-01&endDate=2025-03-31", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if !strings.Contains(recorder.Body.String(), `"total_requests":2`) {
		t.Fatalf("expected aggregated rows in payload, got %s", recorder.Body.String())
	}
}
