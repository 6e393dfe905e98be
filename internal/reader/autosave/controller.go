package autosave

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last edit before a
// persist fires.
const DefaultDebounce = 1500 * time.Millisecond

// Persister writes note content to durable storage.
type Persister interface {
	PersistNote(ctx context.Context, paperId, content string) error
}

// Controller debounces note edits per paper and persists the latest
// content after a quiet period. A manual Save bypasses the window and
// cancels any pending write. Failed persists are reported through the
// failure callback and never retried; the next edit or manual save
// re-attempts.
type Controller struct {
	mu        sync.Mutex
	papers    map[string]*paperState
	persister Persister
	clock     Clock
	debounce  time.Duration
	onFailure func(paperId string, err error)
}

type paperState struct {
	content     string
	timer       Timer
	lastSavedAt time.Time
	saved       bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock swaps the wall clock for a virtual one.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(ctrl *Controller) {
		ctrl.debounce = d
	}
}

// WithFailureHandler registers a callback for persist failures. The
// callback runs outside the controller lock.
func WithFailureHandler(f func(paperId string, err error)) Option {
	return func(ctrl *Controller) {
		ctrl.onFailure = f
	}
}

func NewController(persister Persister, opts ...Option) *Controller {
	ctrl := &Controller{
		papers:    make(map[string]*paperState),
		persister: persister,
		clock:     NewClock(),
		debounce:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// OnContentChange records the new content immediately and schedules a
// persist after the quiet period. A change arriving before the period
// elapses supersedes the pending persist; only the latest content is
// ever written.
func (c *Controller) OnContentChange(paperId, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.state(paperId)
	state.content = content

	if state.timer != nil {
		state.timer.Stop()
	}
	state.timer = c.clock.AfterFunc(c.debounce, func() {
		c.flush(paperId)
	})
}

// Save cancels any pending debounced persist for the paper and writes
// content immediately.
func (c *Controller) Save(ctx context.Context, paperId, content string) error {
	c.mu.Lock()
	state := c.state(paperId)
	state.content = content
	if state.timer != nil {
		state.timer.Stop()
		state.timer = nil
	}
	c.mu.Unlock()

	return c.persist(ctx, paperId, content)
}

// Content returns the in-memory content for the paper. It may be ahead
// of durable storage while a persist is pending.
func (c *Controller) Content(paperId string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.papers[paperId]
	if !ok {
		return "", false
	}
	return state.content, true
}

// SetContent seeds the in-memory content without scheduling a persist.
// Used when a paper view mounts with freshly loaded notes.
func (c *Controller) SetContent(paperId, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state(paperId).content = content
}

// LastSavedAt returns when the paper's notes last persisted successfully.
func (c *Controller) LastSavedAt(paperId string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.papers[paperId]
	if !ok || !state.saved {
		return time.Time{}, false
	}
	return state.lastSavedAt, true
}

// Forget drops all debounce state for a paper, cancelling any pending
// persist. Called when the paper view unmounts.
func (c *Controller) Forget(paperId string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state, ok := c.papers[paperId]; ok && state.timer != nil {
		state.timer.Stop()
	}
	delete(c.papers, paperId)
}

// flush runs when a debounce timer fires.
func (c *Controller) flush(paperId string) {
	c.mu.Lock()
	state, ok := c.papers[paperId]
	if !ok {
		c.mu.Unlock()
		return
	}
	state.timer = nil
	content := state.content
	c.mu.Unlock()

	// Debounced writes have no caller to report to; failures go through
	// the failure handler only.
	_ = c.persist(context.Background(), paperId, content)
}

func (c *Controller) persist(ctx context.Context, paperId, content string) error {
	err := c.persister.PersistNote(ctx, paperId, content)
	if err != nil {
		if c.onFailure != nil {
			c.onFailure(paperId, err)
		}
		return err
	}

	c.mu.Lock()
	state := c.state(paperId)
	state.lastSavedAt = c.clock.Now()
	state.saved = true
	c.mu.Unlock()

	return nil
}

// state returns the paper's entry, creating it if needed. Caller holds
// the lock.
func (c *Controller) state(paperId string) *paperState {
	s, ok := c.papers[paperId]
	if !ok {
		s = &paperState{}
		c.papers[paperId] = s
	}
	return s
}
