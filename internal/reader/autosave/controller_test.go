package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock drives timers manually so tests never sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and fires every timer whose deadline
// has passed, in scheduling order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// recordingPersister collects persist calls and can fail on demand.
type recordingPersister struct {
	mu    sync.Mutex
	calls []persistCall
	err   error
}

type persistCall struct {
	paperId string
	content string
}

func (p *recordingPersister) PersistNote(_ context.Context, paperId, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, persistCall{paperId: paperId, content: content})
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *recordingPersister) last() persistCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

func newTestController(t *testing.T) (*Controller, *fakeClock, *recordingPersister) {
	t.Helper()
	clock := newFakeClock()
	persister := &recordingPersister{}
	ctrl := NewController(persister, WithClock(clock))
	return ctrl, clock, persister
}

func TestDebounceCollapsesRapidEdits(t *testing.T) {
	ctrl, clock, persister := newTestController(t)

	ctrl.OnContentChange("p1", "draft A")
	clock.Advance(500 * time.Millisecond)
	ctrl.OnContentChange("p1", "draft B")

	// First window would have fired here; it must have been superseded.
	clock.Advance(1100 * time.Millisecond)
	if persister.count() != 0 {
		t.Fatalf("persist fired before quiet period elapsed: %d calls", persister.count())
	}

	clock.Advance(400 * time.Millisecond)
	if persister.count() != 1 {
		t.Fatalf("persist count = %d, want exactly 1", persister.count())
	}
	if got := persister.last(); got.content != "draft B" {
		t.Fatalf("persisted %q, want \"draft B\"", got.content)
	}
}

func TestManualSaveCancelsPendingDebounce(t *testing.T) {
	ctrl, clock, persister := newTestController(t)

	ctrl.OnContentChange("p1", "draft B")
	clock.Advance(300 * time.Millisecond)

	if err := ctrl.Save(context.Background(), "p1", "final"); err != nil {
		t.Fatalf("manual save: %v", err)
	}
	if persister.count() != 1 || persister.last().content != "final" {
		t.Fatalf("manual save wrote %+v", persister.calls)
	}

	// The superseded debounce window must not fire later.
	clock.Advance(2 * time.Second)
	if persister.count() != 1 {
		t.Fatalf("cancelled debounce still fired: %d calls", persister.count())
	}
}

func TestDebounceIsPerPaper(t *testing.T) {
	ctrl, clock, persister := newTestController(t)

	ctrl.OnContentChange("p1", "notes for p1")
	clock.Advance(700 * time.Millisecond)
	ctrl.OnContentChange("p2", "notes for p2")

	// p1's window elapses first even though p2 changed later.
	clock.Advance(800 * time.Millisecond)
	if persister.count() != 1 || persister.last().paperId != "p1" {
		t.Fatalf("expected p1 persisted first, got %+v", persister.calls)
	}

	clock.Advance(700 * time.Millisecond)
	if persister.count() != 2 || persister.last().paperId != "p2" {
		t.Fatalf("expected p2 persisted second, got %+v", persister.calls)
	}
}

func TestContentVisibleImmediately(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	ctrl.OnContentChange("p1", "typed text")

	got, ok := ctrl.Content("p1")
	if !ok || got != "typed text" {
		t.Fatalf("Content = %q, %v; want the in-memory draft", got, ok)
	}
	if _, ok := ctrl.Content("unknown"); ok {
		t.Fatal("unknown paper should have no content")
	}
}

func TestLastSavedAtRecordedOnSuccess(t *testing.T) {
	ctrl, clock, _ := newTestController(t)

	if _, ok := ctrl.LastSavedAt("p1"); ok {
		t.Fatal("LastSavedAt set before any save")
	}

	if err := ctrl.Save(context.Background(), "p1", "content"); err != nil {
		t.Fatal(err)
	}

	at, ok := ctrl.LastSavedAt("p1")
	if !ok {
		t.Fatal("LastSavedAt missing after successful save")
	}
	if !at.Equal(clock.Now()) {
		t.Fatalf("LastSavedAt = %v, want clock time %v", at, clock.Now())
	}
}

func TestPersistFailureReportedNotRetried(t *testing.T) {
	clock := newFakeClock()
	persister := &recordingPersister{err: errors.New("backend down")}

	var failures []string
	ctrl := NewController(persister, WithClock(clock),
		WithFailureHandler(func(paperId string, err error) {
			failures = append(failures, paperId)
		}))

	ctrl.OnContentChange("p1", "unsaved draft")
	clock.Advance(2 * time.Second)

	if len(failures) != 1 || failures[0] != "p1" {
		t.Fatalf("failure handler calls = %v, want one for p1", failures)
	}
	if _, ok := ctrl.LastSavedAt("p1"); ok {
		t.Fatal("failed save must not record LastSavedAt")
	}
	if got, _ := ctrl.Content("p1"); got != "unsaved draft" {
		t.Fatalf("in-memory content lost on failure: %q", got)
	}

	// No automatic retry: the clock can run forever without a new write.
	clock.Advance(time.Minute)
	if len(failures) != 1 {
		t.Fatalf("persist retried automatically: %d failures", len(failures))
	}

	// The next manual save re-attempts.
	persister.err = nil
	if err := ctrl.Save(context.Background(), "p1", "unsaved draft"); err != nil {
		t.Fatal(err)
	}
	if persister.count() != 1 {
		t.Fatalf("re-attempt did not persist: %d calls", persister.count())
	}
}

func TestManualSaveSurfacesError(t *testing.T) {
	clock := newFakeClock()
	wantErr := errors.New("write failed")
	persister := &recordingPersister{err: wantErr}
	ctrl := NewController(persister, WithClock(clock))

	if err := ctrl.Save(context.Background(), "p1", "x"); !errors.Is(err, wantErr) {
		t.Fatalf("Save error = %v, want %v", err, wantErr)
	}
}

func TestForgetCancelsPendingPersist(t *testing.T) {
	ctrl, clock, persister := newTestController(t)

	ctrl.OnContentChange("p1", "draft")
	ctrl.Forget("p1")

	clock.Advance(2 * time.Second)
	if persister.count() != 0 {
		t.Fatalf("persist fired after Forget: %d calls", persister.count())
	}
	if _, ok := ctrl.Content("p1"); ok {
		t.Fatal("content survived Forget")
	}
}

func TestSetContentDoesNotSchedule(t *testing.T) {
	ctrl, clock, persister := newTestController(t)

	ctrl.SetContent("p1", "loaded from backend")
	clock.Advance(5 * time.Second)

	if persister.count() != 0 {
		t.Fatal("SetContent scheduled a persist")
	}
	if got, _ := ctrl.Content("p1"); got != "loaded from backend" {
		t.Fatalf("Content = %q", got)
	}
}
