// Package app provides application lifecycle management including graceful
// startup and shutdown with signal handling.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start begins the service. It should block until the service is stopped
	// or an error occurs.
	Start() error
	// Stop gracefully stops the service.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order. Unlike a
// daemon supervisor, a Lifecycle also ends the process cleanly when every
// service finishes on its own: an interactive console that reads EOF is a
// normal exit, not a hang.
type Lifecycle struct {
	logger  *zap.Logger
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	name string
	svc  Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service for lifecycle management.
// Services are started in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
	l.mu.Unlock()
}

// Run starts every registered service and blocks until one of four wake-up
// sources fires: all services finish, a service fails, a termination signal
// arrives (SIGINT or SIGTERM), or ctx is cancelled. Services are then
// stopped in reverse registration order.
//
// Postcondition: All services are stopped when this method returns. Returns
// the first service error, if any.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.entries))
	finished := l.startAll(failures, cancel)

	l.logger.Info("all services started",
		zap.Int("count", len(l.entries)),
		zap.Duration("startup", time.Since(began)),
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	var runErr error
	select {
	case <-finished:
		l.logger.Info("all services finished")
	case sig := <-signals:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-failures:
		l.logger.Error("service error, shutting down", zap.Error(err))
		runErr = err
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	// A failure may have landed while waiting on another wake-up source.
	if runErr == nil {
		select {
		case runErr = <-failures:
		default:
		}
	}

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(began)))
	return runErr
}

// startAll launches each service in its own goroutine. The returned channel
// closes once every Start has returned; a failed Start reports on failures
// and cancels the run.
func (l *Lifecycle) startAll(failures chan<- error, cancel context.CancelFunc) <-chan struct{} {
	var wg sync.WaitGroup
	for _, e := range l.entries {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", e.name))
			began := time.Now()
			if err := e.svc.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", e.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(began)),
				)
				failures <- fmt.Errorf("service %s: %w", e.name, err)
				cancel()
				return
			}
			l.logger.Info("service finished",
				zap.String("service", e.name),
				zap.Duration("uptime", time.Since(began)),
			)
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	return finished
}

// stopAll stops services in reverse registration order.
func (l *Lifecycle) stopAll() {
	began := time.Now()
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		stopBegan := time.Now()
		l.logger.Info("stopping service", zap.String("service", e.name))
		e.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", time.Since(stopBegan)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(began)))
}
