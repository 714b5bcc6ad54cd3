// Package toast keeps a stack of short-lived notifications.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a toast stays visible
const DefaultDuration = 3500 * time.Millisecond

// Level is the severity of a toast
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "info"
}

// Toast is a single notification
type Toast struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Stack is an additive set of toasts. Pushing never replaces or blocks on
// existing entries. Safe for concurrent use.
type Stack struct {
	mu       sync.Mutex
	toasts   []Toast
	duration time.Duration
	now      func() time.Time
	notify   func(Toast)
}

// NewStack creates a stack whose toasts live for d (DefaultDuration when d <= 0)
func NewStack(d time.Duration) *Stack {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Stack{
		duration: d,
		now:      time.Now,
	}
}

// OnPush registers a callback invoked after every push, outside the lock
func (s *Stack) OnPush(fn func(Toast)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Duration returns the lifetime of new toasts
func (s *Stack) Duration() time.Duration {
	return s.duration
}

// Push adds a toast and returns it
func (s *Stack) Push(level Level, message string) Toast {
	s.mu.Lock()
	now := s.now()
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}
	s.toasts = append(s.toasts, t)
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify(t)
	}
	return t
}

// Info pushes an informational toast
func (s *Stack) Info(msg string) Toast { return s.Push(LevelInfo, msg) }

// Success pushes a success toast
func (s *Stack) Success(msg string) Toast { return s.Push(LevelSuccess, msg) }

// Warn pushes a warning toast
func (s *Stack) Warn(msg string) Toast { return s.Push(LevelWarning, msg) }

// Error pushes an error toast
func (s *Stack) Error(msg string) Toast { return s.Push(LevelError, msg) }

// Dismiss removes a toast by ID and reports whether it was present
func (s *Stack) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the unexpired toasts, oldest first, and drops expired ones
func (s *Stack) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	s.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Len returns the number of unexpired toasts
func (s *Stack) Len() int {
	return len(s.Active())
}
