package jobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fuomag9/apitray/internal/config"
)

// Scheduler fires the check job on a fixed period. It has a single cron
// entry; reconfiguring replaces that entry. Overlapping ticks are skipped.
type Scheduler struct {
	cron     *cron.Cron
	job      cron.Job
	mu       sync.Mutex
	entry    cron.EntryID
	interval int // effective seconds, 0 while stopped
	every    func(time.Duration) cron.Schedule
}

// NewScheduler creates a stopped scheduler that will run job on every tick
func NewScheduler(job func()) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
		job: cron.FuncJob(job),
		every: func(d time.Duration) cron.Schedule {
			return cron.Every(d)
		},
	}
}

// Start begins firing every intervalSeconds (clamped to the minimum).
// The first tick happens one full interval after Start, not immediately.
func (s *Scheduler) Start(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval != 0 {
		return fmt.Errorf("scheduler already running every %ds", s.interval)
	}

	s.schedule(intervalSeconds)
	s.cron.Start()
	log.Printf("Check scheduler started (interval: %ds)", s.interval)
	return nil
}

// Reconfigure replaces the running timer when the interval changes.
// The new period applies from the next tick.
func (s *Scheduler) Reconfigure(intervalSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := config.ClampInterval(intervalSeconds)
	if s.interval == 0 || seconds == s.interval {
		return
	}

	s.cron.Remove(s.entry)
	s.schedule(seconds)
	log.Printf("Check scheduler interval changed to %ds", s.interval)
}

// Interval returns the effective interval in seconds, or 0 when stopped
func (s *Scheduler) Interval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Next returns the time of the next tick, or the zero time when stopped
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Stop stops the scheduler and waits for a running tick to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.interval = 0
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Println("Check scheduler stopped")
}

// schedule must be called with mu held
func (s *Scheduler) schedule(intervalSeconds int) {
	s.interval = config.ClampInterval(intervalSeconds)
	s.entry = s.cron.Schedule(s.every(time.Duration(s.interval)*time.Second), s.job)
}
