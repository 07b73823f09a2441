package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application to manage the worker pool.
// Example usage:
//
//	scheduler := NewScheduler(configCache, articleRepo, syncer, orchestrator, llmClient, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
