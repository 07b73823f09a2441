package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"techdigest/app/cfg"
	"techdigest/app/database"
	"techdigest/app/digest"
	"techdigest/app/ingest"
	"techdigest/app/llm"
	"techdigest/app/sources"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache  *sources.ConfigCache
	articleRepo  database.ArticleRepository
	syncer       *ingest.Syncer
	orchestrator *digest.Orchestrator
	llmClient    *llm.Client
	httpClient   *http.Client
	parser       *ingest.Parser
	userAgent    string
	interval     time.Duration
	workerCount  int
	digestHour   int

	nextFetchAt       map[string]time.Time
	lastDailyEnqueue  time.Time
	lastWeeklyEnqueue time.Time
	scheduleMu        sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
	now       func() time.Time
}

func NewScheduler(configCache *sources.ConfigCache, articleRepo database.ArticleRepository,
	syncer *ingest.Syncer, orchestrator *digest.Orchestrator, llmClient *llm.Client,
	httpClient *http.Client) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	appCfg := cfg.Get()

	return &Scheduler{
		configCache:  configCache,
		articleRepo:  articleRepo,
		syncer:       syncer,
		orchestrator: orchestrator,
		llmClient:    llmClient,
		httpClient:   httpClient,
		parser:       ingest.NewParser(),
		userAgent:    appCfg.UserAgent,
		interval:     time.Duration(appCfg.SchedulerInterval) * time.Second,
		workerCount:  appCfg.WorkerCount,
		digestHour:   appCfg.DigestHour,
		nextFetchAt:  make(map[string]time.Time),
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
		now:          time.Now,
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueFetchTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueFetchTasks()
				s.enqueueDigestTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueFetchTasks() {
	enabled := s.configCache.GetEnabledSources()
	if len(enabled) == 0 {
		slog.Debug("No enabled sources found")
		return
	}

	now := s.now()

	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()

	for name, source := range enabled {
		if next, ok := s.nextFetchAt[name]; ok && next.After(now) {
			slog.Debug("Source not due for refresh yet", "source", name, "next_fetch_at", next)
			continue
		}

		task := NewFetchSourceTask(name, source, s.httpClient, s.parser, s.syncer,
			s.articleRepo, s.orchestrator, s.llmClient, s.userAgent)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue FetchSourceTask", "source", name, "error", err)
			continue
		}

		s.nextFetchAt[name] = now.Add(time.Duration(source.Settings.RefreshInterval) * time.Second)
	}
}

func (s *Scheduler) enqueueDigestTasks() {
	now := s.now()

	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()

	if dailyDigestDue(now, s.digestHour, s.lastDailyEnqueue) {
		if err := s.EnqueueTask(NewDailyDigestTask(s.orchestrator)); err != nil {
			slog.Warn("Failed to enqueue DailyDigestTask", "error", err)
		} else {
			s.lastDailyEnqueue = now
		}
	}

	if weeklyDigestDue(now, s.digestHour, s.lastWeeklyEnqueue) {
		if err := s.EnqueueTask(NewWeeklyDigestTask(s.orchestrator)); err != nil {
			slog.Warn("Failed to enqueue WeeklyDigestTask", "error", err)
		} else {
			s.lastWeeklyEnqueue = now
		}
	}
}

// dailyDigestDue reports whether a daily digest run should be enqueued: the
// delivery hour has been reached and no run was enqueued today. The digest
// gate provides per-user dedup; this only limits queue churn.
func dailyDigestDue(now time.Time, digestHour int, lastEnqueue time.Time) bool {
	if now.Hour() < digestHour {
		return false
	}
	return !sameDay(now, lastEnqueue)
}

// weeklyDigestDue is the weekly counterpart: Mondays only, once per day.
func weeklyDigestDue(now time.Time, digestHour int, lastEnqueue time.Time) bool {
	if now.Weekday() != time.Monday {
		return false
	}
	return dailyDigestDue(now, digestHour, lastEnqueue)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
