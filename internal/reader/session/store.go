package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Message is one turn of a chat conversation. Immutable once appended.
type Message struct {
	Id        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // ms epoch
}

// ChatSession is the ordered message log for one paper-reading session.
type ChatSession struct {
	Id       string    `json:"id"`
	PaperId  string    `json:"paper_id"`
	Messages []Message `json:"messages"`
}

// Store keeps chat sessions in memory for the lifetime of the process.
// Sessions are never persisted and never expire; they disappear with the
// process, matching the per-tab lifecycle of the reader UI.
type Store struct {
	mu        sync.Mutex
	cache     *cache.Cache
	counter   uint64
	currentId string
	hasActive bool
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, cache.NoExpiration),
		now:   time.Now,
	}
}

// CreateSession allocates a new empty session for the paper, makes it the
// current session and returns its id. Ids combine the creation timestamp
// with a counter so two calls in the same instant still get distinct ids.
func (s *Store) CreateSession(paperId string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	id := fmt.Sprintf("%d-%d", s.now().UnixMilli(), s.counter)

	s.cache.Set(id, &ChatSession{
		Id:       id,
		PaperId:  paperId,
		Messages: []Message{},
	}, cache.NoExpiration)

	s.currentId = id
	s.hasActive = true

	return id
}

// AddMessage appends a message to the session's log, preserving call
// order. A missing session id is silently ignored: the UI may race a
// session teardown with an in-flight assistant response, and dropping the
// late message is the intended outcome.
func (s *Store) AddMessage(sessionId string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, found := s.cache.Get(sessionId)
	if !found {
		return
	}

	sess := x.(*ChatSession)
	sess.Messages = append(sess.Messages, msg)
}

// GetSession returns a snapshot of the session, or ok=false if it does
// not exist. The snapshot's message slice is a copy; mutating it does not
// affect the store.
func (s *Store) GetSession(sessionId string) (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(sessionId)
}

// CurrentSession returns the session matching the active pointer, or
// ok=false when no session is active or the pointer is stale.
func (s *Store) CurrentSession() (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasActive {
		return ChatSession{}, false
	}
	return s.snapshot(s.currentId)
}

// SetCurrent switches the active session pointer. Existence is not
// validated; callers own consistency.
func (s *Store) SetCurrent(sessionId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentId = sessionId
	s.hasActive = true
}

// ClearCurrent unsets the active session pointer.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentId = ""
	s.hasActive = false
}

// SessionsForPaper returns snapshots of every session created for the
// paper, in no particular order.
func (s *Store) SessionsForPaper(paperId string) []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]ChatSession, 0)
	for _, item := range s.cache.Items() {
		sess := item.Object.(*ChatSession)
		if sess.PaperId == paperId {
			result = append(result, copySession(sess))
		}
	}
	return result
}

func (s *Store) snapshot(sessionId string) (ChatSession, bool) {
	x, found := s.cache.Get(sessionId)
	if !found {
		return ChatSession{}, false
	}
	return copySession(x.(*ChatSession)), true
}

func copySession(sess *ChatSession) ChatSession {
	messages := make([]Message, len(sess.Messages))
	copy(messages, sess.Messages)
	return ChatSession{
		Id:       sess.Id,
		PaperId:  sess.PaperId,
		Messages: messages,
	}
}
