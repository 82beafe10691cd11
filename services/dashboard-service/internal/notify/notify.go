// Package notify carries user-facing success/error events out of the engine.
// Rendering (toasts etc.) belongs to the presentation collaborator.
package notify

import (
	"log/slog"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Log writes notification events to the service logger. It is the default
// sink when no presentation collaborator is attached.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Success(msg string) {
	l.logger.Info("notification", "kind", "success", "message", msg)
}

func (l *Log) Error(msg string) {
	l.logger.Warn("notification", "kind", "error", "message", msg)
}

// Recorder buffers events in memory. Used by tests and by the dashboard API
// to hand recent events to the presentation layer.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Drain returns buffered events and clears the buffer.
func (r *Recorder) Drain() (successes, errors []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	successes, errors = r.successes, r.errors
	r.successes, r.errors = nil, nil
	return successes, errors
}

// Fanout forwards each event to every attached notifier.
type Fanout []Notifier

func (f Fanout) Success(msg string) {
	for _, n := range f {
		n.Success(msg)
	}
}

func (f Fanout) Error(msg string) {
	for _, n := range f {
		n.Error(msg)
	}
}
