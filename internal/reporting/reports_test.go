package reporting

import (
	"testing"
	"time"
)

func day(t *testing.T, month, dayOfMonth, hour int) time.Time {
	t.Helper()
	return time.Date(2025, time.Month(month), dayOfMonth, hour, 0, 0, 0, time.UTC)
}

func TestRequestReport_GroupsByMonthAndFiltersWindow(t *testing.T) {
	t.Parallel()

	requests := []Request{
		{ID: 1, Department: "Engineering", TrainingType: "technical", Status: "pending", CreatedAt: day(t, 1, 10, 9)},
		{ID: 2, Department: "Engineering", TrainingType: "technical", Status: "pending", CreatedAt: day(t, 1, 20, 9)},
		{ID: 3, Department: "Engineering", TrainingType: "technical", Status: "approved", CreatedAt: day(t, 2, 5, 9)},
		{ID: 4, Department: "Sales", TrainingType: "soft-skills", Status: "pending", CreatedAt: day(t, 2, 6, 9)},
		{ID: 5, Department: "Sales", TrainingType: "soft-skills", Status: "pending", CreatedAt: day(t, 6, 1, 9)},
	}

	from := day(t, 1, 1, 0)
	to := day(t, 3, 1, 0)
	rows := RequestReport(requests, DateRange{From: &from, To: &to})

	if len(rows) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(rows), rows)
	}

	if rows[0].Month != "2025-01" || rows[0].TotalRequests != 2 {
		t.Fatalf("expected two January requests first, got %+v", rows[0])
	}
	if rows[1].Department != "Engineering" || rows[1].Status != "approved" {
		t.Fatalf("expected February Engineering approved group, got %+v", rows[1])
	}
	for _, row := range rows {
		if row.Month == "2025-06" {
			t.Fatalf("expected June request to be filtered out, got %+v", rows)
		}
	}
}

func TestDepartmentReport_CountsUsersAndRequests(t *testing.T) {
	t.Parallel()

	users := []User{
		{ID: 1, Name: "Aiko", Department: "Engineering", IsActive: true},
		{ID: 2, Name: "Benjiro", Department: "Engineering", IsActive: false},
		{ID: 3, Name: "Chiyo", Department: "Sales", IsActive: true},
	}
	requests := []Request{
		{ID: 1, Department: "Engineering", TrainingType: "technical", Status: "pending"},
		{ID: 2, Department: "Marketing", TrainingType: "soft-skills", Status: "pending"},
	}

	rows := DepartmentReport(users, requests)

	if len(rows) != 2 {
		t.Fatalf("expected 2 department rows, got %d: %+v", len(rows), rows)
	}

	engineering := rows[0]
	if engineering.Department != "Engineering" {
		t.Fatalf("expected Engineering first, got %+v", rows)
	}
	if engineering.UserCount != 2 || engineering.ActiveUsers != 1 {
		t.Fatalf("unexpected user counts: %+v", engineering)
	}
	if engineering.RequestCount != 1 || engineering.TrainingTypes != 1 {
		t.Fatalf("unexpected request counts: %+v", engineering)
	}

	sales := rows[1]
	if sales.RequestCount != 0 || sales.TrainingTypes != 0 {
		t.Fatalf("expected no requests attributed to Sales, got %+v", sales)
	}
}

func TestSessionReport_TimeBasedCountsAreStatusIndependent(t *testing.T) {
	t.Parallel()

	now := day(t, 3, 15, 12)
	sessions := []Session{
		{ID: 1, Trainer: "Aiko", Status: "scheduled", Start: day(t, 3, 20, 9), End: day(t, 3, 20, 11), CurrentParticipants: 10},
		{ID: 2, Trainer: "Aiko", Status: "scheduled", Start: day(t, 3, 1, 9), End: day(t, 3, 1, 11), CurrentParticipants: 5},
		{ID: 3, Trainer: "Benjiro", Status: "completed", Start: day(t, 3, 2, 9), End: day(t, 3, 2, 11), CurrentParticipants: 8},
	}

	rows := SessionReport(sessions, now, DateRange{})

	if len(rows) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(rows), rows)
	}

	aiko := rows[0]
	if aiko.Trainer != "Aiko" || aiko.TotalSessions != 2 {
		t.Fatalf("unexpected first group: %+v", aiko)
	}
	if aiko.UpcomingSessions != 1 || aiko.CompletedSessions != 1 {
		t.Fatalf("time based counts must ignore the status field, got %+v", aiko)
	}
	if aiko.AverageParticipants != 7.5 || aiko.TotalParticipants != 15 {
		t.Fatalf("unexpected participant aggregates: %+v", aiko)
	}
}

func TestParticipationReport_OrdersByRegistrationCount(t *testing.T) {
	t.Parallel()

	users := []User{
		{ID: 1, Name: "Aiko", Department: "Engineering"},
		{ID: 2, Name: "Benjiro", Department: "Sales"},
	}
	participants := []Participant{
		{ID: 1, UserID: 1, SessionID: 1, Status: "attended"},
		{ID: 2, UserID: 1, SessionID: 2, Status: "attended"},
		{ID: 3, UserID: 2, SessionID: 1, Status: "registered"},
		{ID: 4, UserID: 99, SessionID: 1, Status: "registered"},
	}

	rows := ParticipationReport(participants, users, nil)

	if len(rows) != 2 {
		t.Fatalf("expected orphaned records to be dropped, got %d rows: %+v", len(rows), rows)
	}
	if rows[0].UserID != 1 || rows[0].RegistrationCount != 2 || rows[0].AttendedCount != 2 {
		t.Fatalf("expected the busiest user first, got %+v", rows[0])
	}
	if rows[1].UserID != 2 || rows[1].RegisteredCount != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestParticipationReport_NarrowsToOneUser(t *testing.T) {
	t.Parallel()

	users := []User{{ID: 1, Name: "Aiko"}, {ID: 2, Name: "Benjiro"}}
	participants := []Participant{
		{ID: 1, UserID: 1, SessionID: 1, Status: "registered"},
		{ID: 2, UserID: 2, SessionID: 1, Status: "registered"},
	}

	userID := 2
	rows := ParticipationReport(participants, users, &userID)

	if len(rows) != 1 || rows[0].UserID != 2 {
		t.Fatalf("expected only user 2, got %+v", rows)
	}
}

func TestAttendanceReport_IncludesSessionsWithoutRecords(t *testing.T) {
	t.Parallel()

	sessions := []Session{
		{ID: 1, Title: "Go fundamentals", Trainer: "Aiko", Start: day(t, 3, 1, 9), End: day(t, 3, 1, 11)},
		{ID: 2, Title: "Advanced SQL", Trainer: "Benjiro", Start: day(t, 3, 5, 9), End: day(t, 3, 5, 11)},
	}
	attendance := []Attendance{
		{ID: 1, SessionID: 2, UserID: 1, Status: "present"},
		{ID: 2, SessionID: 2, UserID: 2, Status: "present"},
		{ID: 3, SessionID: 2, UserID: 3, Status: "absent"},
	}

	rows := AttendanceReport(sessions, attendance, DateRange{})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].SessionID != 2 {
		t.Fatalf("expected newest session first, got %+v", rows[0])
	}
	if rows[0].PresentCount != 2 || rows[0].AbsentCount != 1 || rows[0].AttendanceRate != 66.67 {
		t.Fatalf("unexpected tallies: %+v", rows[0])
	}
	if rows[1].TotalAttendance != 0 || rows[1].AttendanceRate != 0 {
		t.Fatalf("expected zero rate for a session without records, got %+v", rows[1])
	}
}

func TestTrainerReport_TreatsSpellingsAsDistinctTrainers(t *testing.T) {
	t.Parallel()

	sessions := []Session{
		{ID: 1, Trainer: "Aiko Tanaka", Status: "completed", CurrentParticipants: 10},
		{ID: 2, Trainer: "Aiko Tanaka", Status: "scheduled", CurrentParticipants: 6},
		{ID: 3, Trainer: "aiko tanaka", Status: "completed", CurrentParticipants: 4},
	}

	rows := TrainerReport(sessions)

	if len(rows) != 2 {
		t.Fatalf("trainer names are free text, expected distinct groups, got %+v", rows)
	}
	if rows[0].Trainer != "Aiko Tanaka" || rows[0].TotalSessions != 2 {
		t.Fatalf("expected the busier spelling first, got %+v", rows[0])
	}
	if rows[0].CompletedSessions != 1 || rows[0].AverageParticipants != 8 {
		t.Fatalf("unexpected aggregates: %+v", rows[0])
	}
}
