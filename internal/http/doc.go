// Package http provides HTTP handlers and middleware for the training
// management API.
//
// The router exposes the following endpoints:
//   - POST /api/auth/login: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - POST /api/auth/logout: revokes the current session token extracted from
//     the Authorization header or session cookie. Returns 204 No Content and
//     clears the cookie.
//   - GET/POST /api/users, GET /api/users/roles, GET /api/users/email/{email},
//     GET /api/users/role/{role}, GET/PUT/DELETE /api/users/{id},
//     PUT /api/users/{id}/deactivate: user account management endpoints
//     exchanging the `userDTO` payload defined in user_handler.go.
//   - GET/POST /api/training/requests, GET /api/training/requests/user/{userId},
//     GET /api/training/requests/status/{status},
//     GET/DELETE /api/training/requests/{id},
//     PUT /api/training/requests/{id}/status: training request endpoints
//     exchanging the `requestDTO` payload defined in request_handler.go.
//   - GET/POST /api/training/sessions, GET /api/training/sessions/request/{requestId},
//     GET /api/training/sessions/registered/{userId},
//     GET/PUT/DELETE /api/training/sessions/{id}: training session endpoints
//     exchanging the `sessionDTO` payload defined in session_handler.go.
//   - GET /api/training/sessions/{sessionId}/participants,
//     POST /api/training/sessions/{sessionId}/register/{userId},
//     DELETE /api/training/sessions/{sessionId}/unregister/{userId},
//     PUT /api/training/sessions/{sessionId}/participants/{userId}/status,
//     GET/POST /api/training/sessions/{sessionId}/attendance: registration and
//     attendance endpoints. Registration enforces the session capacity limit
//     and rejects duplicate registrations with 409.
//   - GET /api/training/dashboard/{role}?userId=: the role sensitive dashboard.
//     Role names containing "employee" select the personal view and require
//     the userId parameter; every other role gets the management view.
//   - GET /api/reports/training-requests, /api/reports/departments,
//     /api/reports/training-sessions, /api/reports/participation,
//     /api/reports/attendance, /api/reports/trainer-performance: aggregation
//     reports. Date-bounded reports accept optional startDate and endDate
//     query parameters as RFC 3339 timestamps or plain dates.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
