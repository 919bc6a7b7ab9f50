// Package logging provides structured JSON logging for l5ktune components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/l5ktune/l5ktune/internal/config"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Event represents a structured log event
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Event     string         `json:"event"`
	RunID     string         `json:"run_id,omitempty"`
	Source    string         `json:"source,omitempty"`
	Duration  int64          `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

var (
	runID     string
	runIDOnce sync.Once
)

// RunID identifies this process invocation. Generated once per process so
// events from one CLI run can be correlated in a shared log file.
func RunID() string {
	runIDOnce.Do(func() {
		runID = ulid.Make().String()
	})
	return runID
}

// Logger provides structured logging
type Logger struct {
	component string
	source    string
	min       Level
	out       io.Writer
}

// New creates a new logger for a component. Output goes to stderr, or to
// L5KTUNE_LOG_FILE when set; L5KTUNE_LOG_LEVEL sets the minimum level.
func New(component string) *Logger {
	e := config.Env()
	var out io.Writer = os.Stderr
	if e.LogFile != "" {
		if f, err := os.OpenFile(e.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			out = f
		}
	}
	min := Level(e.LogLevel)
	if _, ok := levelRank[min]; !ok {
		min = LevelInfo
	}
	return &Logger{component: component, min: min, out: out}
}

// WithSource sets the source file context carried on every event.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{component: l.component, source: source, min: l.min, out: l.out}
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]any, err error) {
	if levelRank[level] < levelRank[l.min] {
		return
	}
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		RunID:     RunID(),
		Source:    l.source,
		Extra:     extra,
	}
	if err != nil {
		e.Error = err.Error()
	}
	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]any) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]any) {
	if levelRank[LevelInfo] < levelRank[l.min] {
		return
	}
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		RunID:     RunID(),
		Source:    l.source,
		Duration:  time.Since(start).Milliseconds(),
		Extra:     extra,
	}
	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
