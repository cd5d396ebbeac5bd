// Package notify carries user-facing toast events from the fetch and write
// paths to whatever presentation layer renders them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Event struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives opaque user-facing messages. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Success(message string)
	Info(message string)
	Error(message string)
}

// Recorder buffers the most recent events so the HTTP layer can drain them
// for display. Oldest events are dropped once the buffer is full.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

var _ Notifier = (*Recorder)(nil)

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Success(message string) { r.record(LevelSuccess, message) }
func (r *Recorder) Info(message string)    { r.record(LevelInfo, message) }
func (r *Recorder) Error(message string)   { r.record(LevelError, message) }

func (r *Recorder) record(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Message: message, At: time.Now()})
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Drain returns the buffered events and clears the buffer.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

// Events returns a copy of the buffer without clearing it.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Logger mirrors every event into the structured log.
type Logger struct {
	log *zap.Logger
}

var _ Notifier = (*Logger)(nil)

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Success(message string) { l.log.Info(message, zap.String("toast", "success")) }
func (l *Logger) Info(message string)    { l.log.Info(message, zap.String("toast", "info")) }
func (l *Logger) Error(message string)   { l.log.Warn(message, zap.String("toast", "error")) }

// Multi fans an event out to several notifiers.
type Multi []Notifier

var _ Notifier = (Multi)(nil)

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}
