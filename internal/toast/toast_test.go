package toast

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStack(t *testing.T) (*Stack, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStack(0)
	s.now = clock.Now
	return s, clock
}

func TestNewStack_DefaultDuration(t *testing.T) {
	if got := NewStack(0).Duration(); got != DefaultDuration {
		t.Errorf("Duration() = %v, want %v", got, DefaultDuration)
	}
	if got := NewStack(time.Second).Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
}

func TestStack_PushIsAdditive(t *testing.T) {
	s, _ := newTestStack(t)

	a := s.Error("Download failed.")
	b := s.Success("✓ Copied to clipboard.")

	active := s.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active toasts, got %d", len(active))
	}
	if active[0].ID != a.ID || active[1].ID != b.ID {
		t.Error("toasts should be kept oldest first")
	}
	if a.ID == b.ID {
		t.Error("toast IDs must be unique")
	}
	if active[0].Level != LevelError || active[1].Level != LevelSuccess {
		t.Errorf("unexpected levels: %v, %v", active[0].Level, active[1].Level)
	}
}

func TestStack_Expiry(t *testing.T) {
	s, clock := newTestStack(t)

	s.Info("first")
	clock.Advance(2 * time.Second)
	s.Info("second")

	clock.Advance(1600 * time.Millisecond)
	active := s.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Fatalf("expected only 'second' after 3.6s, got %+v", active)
	}

	clock.Advance(2 * time.Second)
	if s.Len() != 0 {
		t.Errorf("expected all toasts expired, got %d", s.Len())
	}
}

func TestStack_Dismiss(t *testing.T) {
	s, _ := newTestStack(t)

	a := s.Warn("a")
	s.Warn("b")

	if !s.Dismiss(a.ID) {
		t.Error("Dismiss should report the toast was present")
	}
	if s.Dismiss(a.ID) {
		t.Error("second Dismiss should report nothing removed")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 toast left, got %d", s.Len())
	}
}

func TestStack_OnPush(t *testing.T) {
	s, _ := newTestStack(t)

	var got []string
	s.OnPush(func(t Toast) {
		got = append(got, t.Message)
	})
	s.Info("hello")

	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("OnPush callback got %v", got)
	}
}

func TestStack_ConcurrentPush(t *testing.T) {
	s, _ := newTestStack(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Info("x")
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 toasts, got %d", s.Len())
	}
}

func TestLevel_String(t *testing.T) {
	tests := map[Level]string{
		LevelInfo:    "info",
		LevelSuccess: "success",
		LevelWarning: "warning",
		LevelError:   "error",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
