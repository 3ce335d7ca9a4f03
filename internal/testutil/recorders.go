package testutil

import (
	"slices"
	"sync"
	"time"
)

// LifecycleEvent is one notification captured by RecordingListener.
type LifecycleEvent struct {
	Kind      string // "start" or "end"
	SessionID string
}

// RecordingListener is a core.SessionListener that records every call.
// It is safe for concurrent use.
type RecordingListener struct {
	mu     sync.Mutex
	events []LifecycleEvent
}

// OnSessionStart records a start notification.
func (r *RecordingListener) OnSessionStart(sessionID string) { r.record("start", sessionID) }

// OnSessionEnd records an end notification.
func (r *RecordingListener) OnSessionEnd(sessionID string) { r.record("end", sessionID) }

func (r *RecordingListener) record(kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, LifecycleEvent{Kind: kind, SessionID: id})
}

// Events returns a copy of the recorded notifications in call order.
func (r *RecordingListener) Events() []LifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Started returns the ids passed to OnSessionStart in call order.
func (r *RecordingListener) Started() []string { return r.ids("start") }

// Ended returns the ids passed to OnSessionEnd in call order.
func (r *RecordingListener) Ended() []string { return r.ids("end") }

func (r *RecordingListener) ids(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev.SessionID)
		}
	}
	return out
}

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger is a logging.Logger that keeps every entry in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.add("DEBUG", msg, args) }

// Info records an info entry.
func (l *RecordingLogger) Info(msg string, args ...any) { l.add("INFO", msg, args) }

// Warn records a warning entry.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.add("WARN", msg, args) }

// Error records an error entry.
func (l *RecordingLogger) Error(msg string, args ...any) { l.add("ERROR", msg, args) }

func (l *RecordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: slices.Clone(args)})
}

// Entries returns the entries recorded at level ("" for all levels).
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// FakeClock is a manually advanced time source.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock frozen at start.
func NewFakeClock(start time.Time) *FakeClock { return &FakeClock{now: start} }

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
