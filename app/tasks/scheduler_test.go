package tasks

import (
	"testing"
	"time"
)

func TestDailyDigestDue(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		digestHour  int
		lastEnqueue time.Time
		expected    bool
	}{
		{
			name:       "before delivery hour",
			now:        time.Date(2026, 8, 27, 7, 0, 0, 0, time.UTC),
			digestHour: 9,
			expected:   false,
		},
		{
			name:       "at delivery hour, never enqueued",
			now:        time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
			digestHour: 9,
			expected:   true,
		},
		{
			name:        "already enqueued today",
			now:         time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC),
			digestHour:  9,
			lastEnqueue: time.Date(2026, 8, 27, 9, 1, 0, 0, time.UTC),
			expected:    false,
		},
		{
			name:        "enqueued yesterday",
			now:         time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC),
			digestHour:  9,
			lastEnqueue: time.Date(2026, 8, 26, 9, 1, 0, 0, time.UTC),
			expected:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dailyDigestDue(tt.now, tt.digestHour, tt.lastEnqueue)
			if got != tt.expected {
				t.Errorf("dailyDigestDue(%v, %d, %v) = %v, expected %v",
					tt.now, tt.digestHour, tt.lastEnqueue, got, tt.expected)
			}
		})
	}
}

func TestWeeklyDigestDue(t *testing.T) {
	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	thursday := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	if !weeklyDigestDue(monday, 9, time.Time{}) {
		t.Error("Expected weekly digest due on Monday past the delivery hour")
	}
	if weeklyDigestDue(thursday, 9, time.Time{}) {
		t.Error("Weekly digest must only run on Mondays")
	}
	if weeklyDigestDue(monday, 9, monday.Add(-time.Hour)) {
		t.Error("Weekly digest must not run twice the same Monday")
	}
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeFetchSource, "techcrunch")

	if task.GetSubject() != "techcrunch" {
		t.Errorf("Unexpected subject: %s", task.GetSubject())
	}
	if !task.CanRetry() {
		t.Error("Fresh task should be retryable")
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Task at max retries must not retry again")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}
