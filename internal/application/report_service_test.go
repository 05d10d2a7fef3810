package application

import (
	"context"
	"testing"
	"time"
)

func TestReportService_TrainingRequestReport_AppliesWindow(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	store := &reportStoreStub{
		requests: []TrainingRequest{
			{ID: 1, Department: "Engineering", TrainingType: "technical", Status: RequestStatusPending, CreatedAt: now()},
			{ID: 2, Department: "Engineering", TrainingType: "technical", Status: RequestStatusPending, CreatedAt: now().Add(-90 * 24 * time.Hour)},
		},
	}
	svc := NewReportService(store, now)

	from := now().Add(-24 * time.Hour)
	rows, err := svc.TrainingRequestReport(context.Background(), &from, nil)
	if err != nil {
		t.Fatalf("TrainingRequestReport returned error: %v", err)
	}

	if len(rows) != 1 || rows[0].TotalRequests != 1 {
		t.Fatalf("expected the old request to be filtered out, got %+v", rows)
	}
}

func TestReportService_UserParticipationReport_NarrowsToUser(t *testing.T) {
	t.Parallel()

	store := &reportStoreStub{
		users: []User{
			{ID: 10, Name: "Aiko", Department: "Engineering"},
			{ID: 11, Name: "Benjiro", Department: "Sales"},
		},
		participants: []Participant{
			{ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusAttended},
			{ID: 2, UserID: 11, SessionID: 1, Status: ParticipantStatusRegistered},
		},
	}
	svc := NewReportService(store, fixedClock(t, 9))

	userID := 10
	rows, err := svc.UserParticipationReport(context.Background(), &userID)
	if err != nil {
		t.Fatalf("UserParticipationReport returned error: %v", err)
	}

	if len(rows) != 1 || rows[0].UserID != 10 || rows[0].UserName != "Aiko" {
		t.Fatalf("expected only user 10, got %+v", rows)
	}
}

func TestReportService_AttendanceReport_JoinsSessionsAndRecords(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	store := &reportStoreStub{
		sessions: []TrainingSession{
			{ID: 1, Title: "Go fundamentals", Trainer: "Aiko", Start: now().Add(-2 * time.Hour), End: now().Add(-time.Hour)},
		},
		attendance: []AttendanceRecord{
			{ID: 1, SessionID: 1, UserID: 10, Status: AttendanceStatusPresent},
			{ID: 2, SessionID: 1, UserID: 11, Status: AttendanceStatusAbsent},
		},
	}
	svc := NewReportService(store, now)

	rows, err := svc.AttendanceReport(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("AttendanceReport returned error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected one session row, got %+v", rows)
	}
	if rows[0].PresentCount != 1 || rows[0].AbsentCount != 1 || rows[0].AttendanceRate != 50 {
		t.Fatalf("unexpected tallies: %+v", rows[0])
	}
}
