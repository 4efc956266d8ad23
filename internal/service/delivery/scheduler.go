package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/postwind/postwind/pkg/logger"
)

// Scheduler drives the periodic dispatch tick. Within a tick the
// processors run serially in a fixed order: sequences, then the A/B
// test phase, then the A/B winner phase, then scheduled campaigns.
// Per-processor failures are logged and do not abort the tick.
type Scheduler struct {
	sequences    *SequenceProcessor
	orchestrator *ABOrchestrator
	dispatcher   *CampaignDispatcher
	interval     time.Duration
	logger       logger.Logger

	mu          sync.Mutex
	running     bool
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

func NewScheduler(
	sequences *SequenceProcessor,
	orchestrator *ABOrchestrator,
	dispatcher *CampaignDispatcher,
	interval time.Duration,
	log logger.Logger,
) *Scheduler {
	return &Scheduler{
		sequences:    sequences,
		orchestrator: orchestrator,
		dispatcher:   dispatcher,
		interval:     interval,
		logger:       log,
	}
}

// Start launches the ticker loop. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.stoppedChan = make(chan struct{})
	go s.run()
	s.logger.WithField("interval", s.interval.String()).Info("Scheduler started")
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	stopped := s.stoppedChan
	s.mu.Unlock()

	<-stopped
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.stoppedChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunTick(context.Background())
		}
	}
}

// RunTick executes one full dispatch pass. Exposed so a cron-style
// deployment can invoke it directly.
func (s *Scheduler) RunTick(ctx context.Context) {
	if err := s.sequences.ProcessDue(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("Sequence processing failed")
	}
	if err := s.orchestrator.ProcessTestPhase(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("A/B test phase processing failed")
	}
	if err := s.orchestrator.ProcessWinnerPhase(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("A/B winner phase processing failed")
	}
	if err := s.dispatcher.ProcessDue(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("Scheduled campaign processing failed")
	}
}
