package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmoret/travelwire/app/cfg"
	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/report"
	"github.com/dmoret/travelwire/app/scrape"
	"github.com/dmoret/travelwire/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache      *source.ConfigCache
	itemRepo         database.ItemRepository
	snapshotRepo     database.SnapshotRepository
	fetcher          *scrape.Fetcher
	rssScraper       *scrape.RSSScraper
	htmlScraper      *scrape.HTMLScraper
	summaryExtractor *scrape.SummaryExtractor
	aggregator       *metrics.Aggregator
	markdownGen      *report.MarkdownGenerator
	dashboardGen     *report.DashboardGenerator
	dataDir          string
	interval         time.Duration
	metricsInterval  time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface

	mu          sync.Mutex
	nextScrape  map[string]time.Time
	nextMetrics time.Time
}

func NewScheduler(configCache *source.ConfigCache, itemRepo database.ItemRepository,
	snapshotRepo database.SnapshotRepository, fetcher *scrape.Fetcher, rssScraper *scrape.RSSScraper,
	htmlScraper *scrape.HTMLScraper, summaryExtractor *scrape.SummaryExtractor,
	aggregator *metrics.Aggregator, markdownGen *report.MarkdownGenerator,
	dashboardGen *report.DashboardGenerator) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		configCache:      configCache,
		itemRepo:         itemRepo,
		snapshotRepo:     snapshotRepo,
		fetcher:          fetcher,
		rssScraper:       rssScraper,
		htmlScraper:      htmlScraper,
		summaryExtractor: summaryExtractor,
		aggregator:       aggregator,
		markdownGen:      markdownGen,
		dashboardGen:     dashboardGen,
		dataDir:          c.DataDir,
		interval:         time.Duration(c.SchedulerInterval) * time.Second,
		metricsInterval:  time.Duration(c.MetricsInterval) * time.Second,
		workerCount:      c.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
		nextScrape:       make(map[string]time.Time),
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

		if err := s.EnqueueFullRun(); err != nil {
			slog.Warn("Failed to enqueue startup tasks", "error", err)
		}

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
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

// EnqueueFullRun schedules a scrape of every enabled source followed by a
// metrics computation, regardless of per-source refresh intervals.
func (s *Scheduler) EnqueueFullRun() error {
	sourceConfigs := s.configCache.GetEnabledConfigs()

	now := time.Now().UTC()

	for _, sourceConfig := range sourceConfigs {
		if err := s.enqueueSourceTasks(sourceConfig, now); err != nil {
			return err
		}
	}

	metricsTask := NewComputeMetricsTask(s.aggregator, s.itemRepo, s.snapshotRepo, s.markdownGen, s.dashboardGen, s.dataDir)
	if err := s.EnqueueTask(metricsTask); err != nil {
		return fmt.Errorf("failed to enqueue ComputeMetricsTask: %w", err)
	}

	s.mu.Lock()
	s.nextMetrics = now.Add(s.metricsInterval)
	s.mu.Unlock()

	return nil
}

func (s *Scheduler) enqueueDueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	now := time.Now().UTC()

	for _, sourceConfig := range sourceConfigs {
		s.mu.Lock()
		next, ok := s.nextScrape[sourceConfig.Name]
		s.mu.Unlock()

		if ok && next.After(now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name, "next_scrape_at", next)
			continue
		}

		if err := s.enqueueSourceTasks(sourceConfig, now); err != nil {
			slog.Warn("Failed to enqueue source tasks", "source", sourceConfig.Name, "error", err)
		}
	}

	s.mu.Lock()
	metricsDue := s.nextMetrics.IsZero() || !s.nextMetrics.After(now)
	if metricsDue {
		s.nextMetrics = now.Add(s.metricsInterval)
	}
	s.mu.Unlock()

	if metricsDue {
		metricsTask := NewComputeMetricsTask(s.aggregator, s.itemRepo, s.snapshotRepo, s.markdownGen, s.dashboardGen, s.dataDir)
		if err := s.EnqueueTask(metricsTask); err != nil {
			slog.Warn("Failed to enqueue ComputeMetricsTask", "error", err)
		}
	}
}

func (s *Scheduler) enqueueSourceTasks(sourceConfig *source.Config, now time.Time) error {
	scrapeTask := NewScrapeSourceTask(sourceConfig.Name, sourceConfig, s.fetcher, s.rssScraper, s.htmlScraper, s.itemRepo)
	if err := s.EnqueueTask(scrapeTask); err != nil {
		return fmt.Errorf("failed to enqueue ScrapeSourceTask: %w", err)
	}

	s.mu.Lock()
	s.nextScrape[sourceConfig.Name] = now.Add(time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second)
	s.mu.Unlock()

	if sourceConfig.Settings.ExtractSummaries {
		extractTask := NewExtractSummariesTask(sourceConfig.Name, sourceConfig, s.fetcher, s.summaryExtractor, s.itemRepo)
		if err := s.EnqueueTask(extractTask); err != nil {
			return fmt.Errorf("failed to enqueue ExtractSummariesTask: %w", err)
		}
	}

	return nil
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

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

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
