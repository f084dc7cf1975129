package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportJob produces the nightly report
type ReportJob interface {
	NightlyReport(ctx context.Context) (*models.Report, error)
}

// Scheduler runs the report job on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	job     ReportJob
	log     *logrus.Logger
	timeout time.Duration
}

// NewScheduler registers job under the standard five-field cron spec
func NewScheduler(spec string, job ReportJob, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		job:     job,
		log:     log,
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule report job %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	rep, err := s.job.NightlyReport(ctx)
	if err != nil {
		s.log.Errorf("Nightly report failed: %v", err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"report_id": rep.ID,
		"duration":  time.Since(start).String(),
	}).Info("Nightly report completed")
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Report scheduler started, next run at %s", s.Next().Format(time.RFC3339))
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next returns the next scheduled run time
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().UTC())
}
