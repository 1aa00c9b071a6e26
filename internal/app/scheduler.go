package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// JobRunner один проход очереди задач
type JobRunner interface {
	Tick(ctx context.Context) (int, error)
}

// Scheduler управляет фоновым опросом очереди задач
type Scheduler struct {
	runner   JobRunner
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(runner JobRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновый опрос
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает опрос и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Scheduler cancelled")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.runner.Tick(ctx)
	if err != nil {
		s.logger.Error("Failed to process scheduled jobs", zap.Error(err))
		return
	}

	if n > 0 {
		s.logger.Debug("Scheduled jobs processed", zap.Int("count", n))
	}
}
