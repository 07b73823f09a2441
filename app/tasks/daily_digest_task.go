package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"techdigest/app/digest"
)

type DailyDigestTask struct {
	Task
	orchestrator *digest.Orchestrator
}

func NewDailyDigestTask(orchestrator *digest.Orchestrator) *DailyDigestTask {
	return &DailyDigestTask{
		Task:         NewTask(TaskTypeDailyDigest, digest.TypeDaily),
		orchestrator: orchestrator,
	}
}

func (t *DailyDigestTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sent, err := t.orchestrator.SendDailyDigests()
	if err != nil {
		return fmt.Errorf("daily digest run failed: %w", err)
	}

	slog.Info("Task completed",
		"type", "DailyDigest",
		"duration", t.GetDuration(),
		"sent", sent)

	return nil
}
