package reader

import (
	"context"
	"sync"

	"ai-paper-reader-be/internal/reader/autosave"
	"ai-paper-reader-be/internal/reader/highlight"
	"ai-paper-reader-be/internal/reader/session"
)

// NoteLoader fetches existing note content for a paper. A missing note
// is reported as (content="", err=nil), never as an error.
type NoteLoader interface {
	LoadNoteContent(ctx context.Context, paperId string) (string, error)
}

// View is the state handed to the UI when a paper opens: the seeded note
// content plus the chat session created for this view.
type View struct {
	PaperId     string `json:"paper_id"`
	SessionId   string `json:"session_id"`
	NoteContent string `json:"note_content"`
}

// Reader wires the note autosave controller, the chat session store and
// the per-paper highlight history together for paper views. It owns the
// highlight histories; sessions and autosave state live in their
// injected containers.
type Reader struct {
	mu        sync.Mutex
	sessions  *session.Store
	autosave  *autosave.Controller
	notes     NoteLoader
	histories map[string]*highlight.History
}

func NewReader(sessions *session.Store, saver *autosave.Controller, notes NoteLoader) *Reader {
	return &Reader{
		sessions:  sessions,
		autosave:  saver,
		notes:     notes,
		histories: make(map[string]*highlight.History),
	}
}

// Open mounts a paper view: loads the paper's notes (absent notes mean
// empty content), seeds the autosave controller, creates exactly one
// chat session and a fresh highlight history. Called once per mount.
func (r *Reader) Open(ctx context.Context, paperId string) (View, error) {
	content, err := r.notes.LoadNoteContent(ctx, paperId)
	if err != nil {
		return View{}, err
	}

	r.autosave.SetContent(paperId, content)
	sessionId := r.sessions.CreateSession(paperId)

	r.mu.Lock()
	r.histories[paperId] = highlight.NewHistory()
	r.mu.Unlock()

	return View{
		PaperId:     paperId,
		SessionId:   sessionId,
		NoteContent: content,
	}, nil
}

// History returns the highlight history for an open paper view.
func (r *Reader) History(paperId string) (*highlight.History, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histories[paperId]
	return h, ok
}

// Close unmounts a paper view, dropping its highlight history and any
// pending autosave. The chat session stays in the store; a late
// assistant reply may still be appended to it.
func (r *Reader) Close(paperId string) {
	r.mu.Lock()
	delete(r.histories, paperId)
	r.mu.Unlock()

	r.autosave.Forget(paperId)
}
