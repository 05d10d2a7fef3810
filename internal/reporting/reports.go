package reporting

import (
	"math"
	"sort"
	"time"
)

// Request is the slice of a training request the reports read.
type Request struct {
	ID           int
	Department   string
	TrainingType string
	Status       string
	CreatedAt    time.Time
	RequesterID  int
}

// Session is the slice of a training session the reports read.
type Session struct {
	ID                  int
	Title               string
	Start               time.Time
	End                 time.Time
	Trainer             string
	Status              string
	MaxParticipants     int
	CurrentParticipants int
}

// User is the slice of a user the reports read.
type User struct {
	ID         int
	Name       string
	Department string
	IsActive   bool
}

// Participant is the join record between a user and a session.
type Participant struct {
	ID        int
	UserID    int
	SessionID int
	Status    string
}

// Attendance is a per-session, per-user attendance record.
type Attendance struct {
	ID        int
	SessionID int
	UserID    int
	Status    string
}

// DateRange bounds a report to an inclusive window. A nil bound leaves
// that side unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) containsRequest(request Request) bool {
	if r.From != nil && request.CreatedAt.Before(*r.From) {
		return false
	}
	if r.To != nil && request.CreatedAt.After(*r.To) {
		return false
	}
	return true
}

func (r DateRange) containsSession(session Session) bool {
	if r.From != nil && session.Start.Before(*r.From) {
		return false
	}
	if r.To != nil && session.End.After(*r.To) {
		return false
	}
	return true
}

const (
	statusPending    = "pending"
	statusScheduled  = "scheduled"
	statusCompleted  = "completed"
	statusRegistered = "registered"
	statusAttended   = "attended"
	statusPresent    = "present"
	statusAbsent     = "absent"
)

// monthKey renders the grouping key for a request's creation month.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// RequestReportRow is one group of the training-request report.
type RequestReportRow struct {
	Status        string
	Department    string
	TrainingType  string
	Month         string
	TotalRequests int
}

// RequestReport groups training requests by status, department, training
// type and creation month, counting each group. The window bounds filter
// on creation time.
func RequestReport(requests []Request, window DateRange) []RequestReportRow {
	type key struct {
		status       string
		department   string
		trainingType string
		month        string
	}
	groups := make(map[key]int)
	for _, request := range requests {
		if !window.containsRequest(request) {
			continue
		}
		groups[key{
			status:       request.Status,
			department:   request.Department,
			trainingType: request.TrainingType,
			month:        monthKey(request.CreatedAt),
		}]++
	}

	rows := make([]RequestReportRow, 0, len(groups))
	for k, count := range groups {
		rows = append(rows, RequestReportRow{
			Status:        k.status,
			Department:    k.department,
			TrainingType:  k.trainingType,
			Month:         k.month,
			TotalRequests: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		if rows[i].Department != rows[j].Department {
			return rows[i].Department < rows[j].Department
		}
		if rows[i].TrainingType != rows[j].TrainingType {
			return rows[i].TrainingType < rows[j].TrainingType
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}

// DepartmentReportRow is one department group of the department report.
type DepartmentReportRow struct {
	Department    string
	UserCount     int
	ActiveUsers   int
	RequestCount  int
	TrainingTypes int
}

// DepartmentReport groups users by department and annotates each group
// with the requests filed under the same department name.
func DepartmentReport(users []User, requests []Request) []DepartmentReportRow {
	byDepartment := make(map[string]*DepartmentReportRow)
	for _, user := range users {
		row, ok := byDepartment[user.Department]
		if !ok {
			row = &DepartmentReportRow{Department: user.Department}
			byDepartment[user.Department] = row
		}
		row.UserCount++
		if user.IsActive {
			row.ActiveUsers++
		}
	}

	types := make(map[string]map[string]struct{})
	for _, request := range requests {
		row, ok := byDepartment[request.Department]
		if !ok {
			continue
		}
		row.RequestCount++
		if types[request.Department] == nil {
			types[request.Department] = make(map[string]struct{})
		}
		types[request.Department][request.TrainingType] = struct{}{}
	}

	rows := make([]DepartmentReportRow, 0, len(byDepartment))
	for department, row := range byDepartment {
		row.TrainingTypes = len(types[department])
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Department < rows[j].Department })
	return rows
}

// SessionReportRow is one (status, trainer) group of the session report.
type SessionReportRow struct {
	Status              string
	Trainer             string
	TotalSessions       int
	AverageParticipants float64
	TotalParticipants   int
	UpcomingSessions    int
	CompletedSessions   int
}

// SessionReport groups sessions by status and trainer. Upcoming and
// completed counts are purely time based and independent of the status
// field. The window bounds require the whole session to fall inside it.
func SessionReport(sessions []Session, now time.Time, window DateRange) []SessionReportRow {
	type key struct {
		status  string
		trainer string
	}
	groups := make(map[key]*SessionReportRow)
	for _, session := range sessions {
		if !window.containsSession(session) {
			continue
		}
		k := key{status: session.Status, trainer: session.Trainer}
		row, ok := groups[k]
		if !ok {
			row = &SessionReportRow{Status: session.Status, Trainer: session.Trainer}
			groups[k] = row
		}
		row.TotalSessions++
		row.TotalParticipants += session.CurrentParticipants
		if session.Start.After(now) {
			row.UpcomingSessions++
		}
		if session.End.Before(now) {
			row.CompletedSessions++
		}
	}

	rows := make([]SessionReportRow, 0, len(groups))
	for _, row := range groups {
		row.AverageParticipants = round2(float64(row.TotalParticipants) / float64(row.TotalSessions))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Trainer != rows[j].Trainer {
			return rows[i].Trainer < rows[j].Trainer
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}

// ParticipationReportRow is one (status, user) group of the participation
// report, annotated with the user's name and department.
type ParticipationReportRow struct {
	Status            string
	UserID            int
	UserName          string
	Department        string
	RegistrationCount int
	AttendedCount     int
	RegisteredCount   int
}

// ParticipationReport groups participant rows by status and user. A
// non-nil userID narrows the report to that user. Rows whose user no
// longer exists are dropped.
func ParticipationReport(participants []Participant, users []User, userID *int) []ParticipationReportRow {
	byID := make(map[int]User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	type key struct {
		status string
		userID int
	}
	groups := make(map[key]*ParticipationReportRow)
	for _, participant := range participants {
		if userID != nil && participant.UserID != *userID {
			continue
		}
		user, ok := byID[participant.UserID]
		if !ok {
			continue
		}
		k := key{status: participant.Status, userID: participant.UserID}
		row, ok := groups[k]
		if !ok {
			row = &ParticipationReportRow{
				Status:     participant.Status,
				UserID:     participant.UserID,
				UserName:   user.Name,
				Department: user.Department,
			}
			groups[k] = row
		}
		row.RegistrationCount++
		switch participant.Status {
		case statusAttended:
			row.AttendedCount++
		case statusRegistered:
			row.RegisteredCount++
		}
	}

	rows := make([]ParticipationReportRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RegistrationCount != rows[j].RegistrationCount {
			return rows[i].RegistrationCount > rows[j].RegistrationCount
		}
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID < rows[j].UserID
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}

// AttendanceReportRow is one session of the attendance report.
type AttendanceReportRow struct {
	SessionID       int
	SessionTitle    string
	Trainer         string
	TotalAttendance int
	PresentCount    int
	AbsentCount     int
	AttendanceRate  float64
}

// AttendanceReport produces one row per session with its attendance
// tallies. Sessions without attendance records still appear, with a rate
// of zero. The window bounds require the whole session to fall inside it.
func AttendanceReport(sessions []Session, attendance []Attendance, window DateRange) []AttendanceReportRow {
	bySession := make(map[int][]Attendance)
	for _, record := range attendance {
		bySession[record.SessionID] = append(bySession[record.SessionID], record)
	}

	filtered := sessions[:0:0]
	for _, session := range sessions {
		if window.containsSession(session) {
			filtered = append(filtered, session)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Start.Equal(filtered[j].Start) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].Start.After(filtered[j].Start)
	})

	rows := make([]AttendanceReportRow, 0, len(filtered))
	for _, session := range filtered {
		row := AttendanceReportRow{
			SessionID:    session.ID,
			SessionTitle: session.Title,
			Trainer:      session.Trainer,
		}
		for _, record := range bySession[session.ID] {
			row.TotalAttendance++
			switch record.Status {
			case statusPresent:
				row.PresentCount++
			case statusAbsent:
				row.AbsentCount++
			}
		}
		if row.TotalAttendance > 0 {
			row.AttendanceRate = round2(float64(row.PresentCount) * 100 / float64(row.TotalAttendance))
		}
		rows = append(rows, row)
	}
	return rows
}

// TrainerReportRow is one trainer group of the trainer performance report.
type TrainerReportRow struct {
	Trainer             string
	TotalSessions       int
	CompletedSessions   int
	AverageParticipants float64
	TotalParticipants   int
}

// TrainerReport groups sessions by their trainer name. The trainer field
// is free text, so differently spelled names form distinct groups.
func TrainerReport(sessions []Session) []TrainerReportRow {
	groups := make(map[string]*TrainerReportRow)
	for _, session := range sessions {
		row, ok := groups[session.Trainer]
		if !ok {
			row = &TrainerReportRow{Trainer: session.Trainer}
			groups[session.Trainer] = row
		}
		row.TotalSessions++
		row.TotalParticipants += session.CurrentParticipants
		if session.Status == statusCompleted {
			row.CompletedSessions++
		}
	}

	rows := make([]TrainerReportRow, 0, len(groups))
	for _, row := range groups {
		row.AverageParticipants = round2(float64(row.TotalParticipants) / float64(row.TotalSessions))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalSessions != rows[j].TotalSessions {
			return rows[i].TotalSessions > rows[j].TotalSessions
		}
		return rows[i].Trainer < rows[j].Trainer
	})
	return rows
}
