package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
)

// SessionJanitorConfig holds configuration for the session janitor
type SessionJanitorConfig struct {
	Interval time.Duration
	// IdleTTL is how long a conversation may sit untouched before it is dropped
	IdleTTL time.Duration
}

// DefaultSessionJanitorConfig returns default configuration
func DefaultSessionJanitorConfig() SessionJanitorConfig {
	return SessionJanitorConfig{
		Interval: 10 * time.Minute,
		IdleTTL:  24 * time.Hour,
	}
}

// SessionJanitor periodically drops abandoned conversations
type SessionJanitor struct {
	config SessionJanitorConfig
	purger port.SessionPurger
	clock  port.Clock
	logger *zap.Logger

	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	isRunning   bool
	purgedTotal int64
}

// NewSessionJanitor creates a new session janitor
func NewSessionJanitor(config SessionJanitorConfig, purger port.SessionPurger, clock port.Clock, logger *zap.Logger) *SessionJanitor {
	if clock == nil {
		clock = port.SystemClock{}
	}
	return &SessionJanitor{
		config: config,
		purger: purger,
		clock:  clock,
		logger: logger,
	}
}

// Start begins the sweep loop
func (j *SessionJanitor) Start(ctx context.Context) error {
	if j.config.Interval <= 0 || j.config.IdleTTL <= 0 {
		return fmt.Errorf("session janitor needs a positive interval and idle ttl")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.isRunning {
		return fmt.Errorf("session janitor already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})
	j.isRunning = true

	j.logger.Info("SessionJanitor started",
		zap.Duration("interval", j.config.Interval),
		zap.Duration("idle_ttl", j.config.IdleTTL))

	go j.loop(loopCtx, j.done)
	return nil
}

// Stop terminates the loop and waits for an in-flight sweep
func (j *SessionJanitor) Stop() error {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return nil
	}
	j.isRunning = false
	cancel, done := j.cancel, j.done
	j.mu.Unlock()

	cancel()
	<-done

	j.logger.Info("SessionJanitor stopped", zap.Int64("purged_total", j.PurgedTotal()))
	return nil
}

// Name returns the worker name for identification
func (j *SessionJanitor) Name() string {
	return "SessionJanitor"
}

// PurgedTotal returns how many sessions were dropped since start
func (j *SessionJanitor) PurgedTotal() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.purgedTotal
}

// Sweep runs one purge pass
func (j *SessionJanitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := j.clock.Now().Add(-j.config.IdleTTL)

	purged, err := j.purger.PurgeIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge idle sessions: %w", err)
	}

	j.mu.Lock()
	j.purgedTotal += purged
	j.mu.Unlock()

	if purged > 0 {
		j.logger.Info("Dropped abandoned conversations",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff))
	}
	return purged, nil
}

func (j *SessionJanitor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Debug("Janitor loop context cancelled")
			return

		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error("Session sweep failed", zap.Error(err))
			}
		}
	}
}
