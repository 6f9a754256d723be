// Package audit records environment lifecycle events as JSON Lines, one file
// per environment, so `dev-tools info --history` can show what happened to a
// project and when.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventUp      EventType = "up"
	EventAttach  EventType = "attach"
	EventDetach  EventType = "detach"
	EventDown    EventType = "down"
	EventRestart EventType = "restart"
	EventExec    EventType = "exec"
	EventDump    EventType = "dump"
	EventRestore EventType = "restore"
	EventPHP     EventType = "php"
	EventError   EventType = "error"
)

// Event is a single audit log entry.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	Environment string    `json:"environment"`
	Details     string    `json:"details,omitempty"`
}

// Logger writes and reads lifecycle events.
// Events are stored in {dir}/{environment}.jsonl.
type Logger struct {
	dir string
	now func() time.Time
}

// NewLogger creates a logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// Dir returns the directory holding the event logs.
func (l *Logger) Dir() string {
	return l.dir
}

func (l *Logger) eventPath(env string) string {
	return filepath.Join(l.dir, env+".jsonl")
}

// Log appends an event to the environment's log.
func (l *Logger) Log(event Event) error {
	if event.Environment == "" {
		return fmt.Errorf("audit event has no environment")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create events directory: %w", err)
	}

	f, err := os.OpenFile(l.eventPath(event.Environment), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent creates and logs an event stamped with the current time.
func (l *Logger) LogEvent(eventType EventType, env, details string) error {
	return l.Log(Event{
		Timestamp:   l.now(),
		Type:        eventType,
		Environment: env,
		Details:     details,
	})
}

// Events reads all events for an environment in the order they were written.
// A missing log yields no events and no error.
func (l *Logger) Events(env string) ([]Event, error) {
	f, err := os.Open(l.eventPath(env))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading event log: %w", err)
	}

	return events, nil
}

// Last returns the n most recent events for an environment.
func (l *Logger) Last(env string, n int) ([]Event, error) {
	events, err := l.Events(env)
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// Environments lists the environments that have an event log, sorted.
func (l *Logger) Environments() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the event log for an environment.
func (l *Logger) Remove(env string) error {
	if err := os.Remove(l.eventPath(env)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// String renders an event as a single human-readable line.
func (e Event) String() string {
	s := fmt.Sprintf("%s  %-8s %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Type, e.Environment)
	if e.Details != "" {
		s += "  " + e.Details
	}
	return s
}
