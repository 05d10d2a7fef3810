package reporting

import (
	"strings"
	"time"
)

// View selects which dashboard shape a role receives.
type View string

const (
	// ViewEmployee is the personal dashboard for regular employees.
	ViewEmployee View = "employee"
	// ViewManagement is the organisation-wide dashboard for L&D and
	// administrative roles.
	ViewManagement View = "management"
)

// ResolveView maps a role name onto a dashboard view. Matching is a
// case-insensitive substring check; unrecognised roles fall through to
// the management view.
func ResolveView(role string) View {
	if strings.Contains(strings.ToLower(role), "employee") {
		return ViewEmployee
	}
	return ViewManagement
}

// EmployeeDashboard summarises one user's own training activity.
type EmployeeDashboard struct {
	MyTrainingRequests   int
	MySessionsRegistered int
	MySessionsAttended   int
	MyUpcomingSessions   int
}

// ManagementDashboard summarises training activity across the
// organisation.
type ManagementDashboard struct {
	ActiveUsers           int
	TotalTrainingRequests int
	TotalTrainingSessions int
	PendingRequests       int
	UpcomingSessions      int
	ActiveParticipants    int
}

// BuildEmployeeDashboard derives a user's personal dashboard from the
// entity collections. Upcoming counts only sessions the user is still
// registered for that are scheduled and start after now.
func BuildEmployeeDashboard(userID int, requests []Request, sessions []Session, participants []Participant, now time.Time) EmployeeDashboard {
	byID := make(map[int]Session, len(sessions))
	for _, session := range sessions {
		byID[session.ID] = session
	}

	var dashboard EmployeeDashboard
	for _, request := range requests {
		if request.RequesterID == userID {
			dashboard.MyTrainingRequests++
		}
	}
	for _, participant := range participants {
		if participant.UserID != userID {
			continue
		}
		switch participant.Status {
		case statusRegistered:
			dashboard.MySessionsRegistered++
		case statusAttended:
			dashboard.MySessionsAttended++
		}
		if participant.Status != statusRegistered {
			continue
		}
		session, ok := byID[participant.SessionID]
		if ok && session.Status == statusScheduled && session.Start.After(now) {
			dashboard.MyUpcomingSessions++
		}
	}
	return dashboard
}

// BuildManagementDashboard derives the organisation-wide dashboard from
// the entity collections.
func BuildManagementDashboard(users []User, requests []Request, sessions []Session, participants []Participant, now time.Time) ManagementDashboard {
	var dashboard ManagementDashboard
	for _, user := range users {
		if user.IsActive {
			dashboard.ActiveUsers++
		}
	}
	dashboard.TotalTrainingRequests = len(requests)
	for _, request := range requests {
		if request.Status == statusPending {
			dashboard.PendingRequests++
		}
	}
	dashboard.TotalTrainingSessions = len(sessions)
	for _, session := range sessions {
		if session.Status == statusScheduled && session.Start.After(now) {
			dashboard.UpcomingSessions++
		}
	}
	for _, participant := range participants {
		if participant.Status == statusRegistered {
			dashboard.ActiveParticipants++
		}
	}
	return dashboard
}
