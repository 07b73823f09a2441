package digest

import (
	"testing"
	"time"

	"techdigest/app/database"
)

func testUser() database.User {
	return database.User{
		ID:                  "user-1",
		Email:               "user@example.com",
		IsActive:            true,
		DailyDigestEnabled:  true,
		WeeklyDigestEnabled: true,
	}
}

func TestShouldSend_DisabledPreference(t *testing.T) {
	gate := NewGate(&MockDigestLogRepository{})
	user := testUser()
	user.DailyDigestEnabled = false

	due, err := gate.ShouldSend(user, TypeDaily)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if due {
		t.Error("Expected gate closed when preference is disabled")
	}
}

func TestShouldSend_UnknownType(t *testing.T) {
	gate := NewGate(&MockDigestLogRepository{})

	if _, err := gate.ShouldSend(testUser(), "hourly"); err == nil {
		t.Error("Expected error for unknown digest type")
	}
}

func TestShouldSend_DailyDayRollover(t *testing.T) {
	logRepo := &MockDigestLogRepository{}
	gate := NewGate(logRepo)

	sendTime := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return sendTime }

	due, err := gate.ShouldSend(testUser(), TypeDaily)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if !due {
		t.Fatal("Expected first daily digest of the day to be due")
	}

	logRepo.digestLogs = append(logRepo.digestLogs, database.DigestLog{
		UserID:      "user-1",
		DigestType:  TypeDaily,
		SentAt:      sendTime,
		EmailStatus: "sent",
	})

	// Later the same day the gate stays closed
	gate.now = func() time.Time { return sendTime.Add(10 * time.Hour) }
	due, err = gate.ShouldSend(testUser(), TypeDaily)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if due {
		t.Error("Expected gate closed after a sent digest the same day")
	}

	// After midnight it reopens
	gate.now = func() time.Time { return time.Date(2026, 8, 28, 0, 30, 0, 0, time.UTC) }
	due, err = gate.ShouldSend(testUser(), TypeDaily)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if !due {
		t.Error("Expected gate open after the calendar day rolled over")
	}
}

func TestShouldSend_WeeklyRollingWindow(t *testing.T) {
	logRepo := &MockDigestLogRepository{}
	gate := NewGate(logRepo)

	sendTime := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	logRepo.digestLogs = append(logRepo.digestLogs, database.DigestLog{
		UserID:      "user-1",
		DigestType:  TypeWeekly,
		SentAt:      sendTime,
		EmailStatus: "sent",
	})

	// 3 days later the send is still inside the 7-day window
	gate.now = func() time.Time { return sendTime.Add(3 * 24 * time.Hour) }
	due, err := gate.ShouldSend(testUser(), TypeWeekly)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if due {
		t.Error("Expected gate closed 3 days after a weekly send")
	}

	// 8 days later it has aged out
	gate.now = func() time.Time { return sendTime.Add(8 * 24 * time.Hour) }
	due, err = gate.ShouldSend(testUser(), TypeWeekly)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if !due {
		t.Error("Expected gate open once the weekly send left the rolling window")
	}
}

func TestShouldSend_FailedSendDoesNotCloseGate(t *testing.T) {
	logRepo := &MockDigestLogRepository{}
	gate := NewGate(logRepo)

	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return now }

	logRepo.digestLogs = append(logRepo.digestLogs, database.DigestLog{
		UserID:      "user-1",
		DigestType:  TypeDaily,
		SentAt:      now.Add(-time.Hour),
		EmailStatus: "failed",
	})

	due, err := gate.ShouldSend(testUser(), TypeDaily)
	if err != nil {
		t.Fatalf("ShouldSend failed: %v", err)
	}
	if !due {
		t.Error("Expected failed send to leave the gate open for a retry")
	}
}
