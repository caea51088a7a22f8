package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/news"
	"github.com/deusflow/newsmon/internal/report"
)

// Runner runs one search request end to end.
type Runner interface {
	Run(ctx context.Context, req news.SearchRequest) (report.Summary, error)
}

// Scheduler repeats a fixed watch request on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	req     news.SearchRequest
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

func New(spec string, runner Runner, req news.SearchRequest, timeout time.Duration) (*Scheduler, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := cron.New()

	s := &Scheduler{
		cron:    c,
		runner:  runner,
		req:     req,
		timeout: timeout,
	}

	_, err := c.AddFunc(spec, s.RunOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("watch scheduled", "keywords", len(s.req.Keywords), "days", s.req.Days)
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce runs the watch request now. A tick that fires while the previous
// run is still going is skipped.
func (s *Scheduler) RunOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("previous watch run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := logger.With("job", "watch")
	log.Info("start watch job...")
	sum, err := s.runner.Run(ctx, s.req)
	if err != nil {
		log.Error("watch job failed", "error", err)
		return
	}
	log.Info("watch job done", "keywords", sum.Keywords, "count", sum.Count)
}
