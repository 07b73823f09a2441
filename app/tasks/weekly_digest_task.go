package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"techdigest/app/digest"
)

type WeeklyDigestTask struct {
	Task
	orchestrator *digest.Orchestrator
}

func NewWeeklyDigestTask(orchestrator *digest.Orchestrator) *WeeklyDigestTask {
	return &WeeklyDigestTask{
		Task:         NewTask(TaskTypeWeeklyDigest, digest.TypeWeekly),
		orchestrator: orchestrator,
	}
}

func (t *WeeklyDigestTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sent, err := t.orchestrator.SendWeeklyDigests()
	if err != nil {
		return fmt.Errorf("weekly digest run failed: %w", err)
	}

	slog.Info("Task completed",
		"type", "WeeklyDigest",
		"duration", t.GetDuration(),
		"sent", sent)

	return nil
}
