package reader

import (
	"context"
	"errors"
	"testing"

	"ai-paper-reader-be/internal/reader/autosave"
	"ai-paper-reader-be/internal/reader/session"
)

type stubNotes struct {
	contents map[string]string
	err      error
}

func (s *stubNotes) LoadNoteContent(_ context.Context, paperId string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	// Missing notes are empty content, not an error.
	return s.contents[paperId], nil
}

type nopPersister struct{}

func (nopPersister) PersistNote(context.Context, string, string) error { return nil }

func newTestReader(notes *stubNotes) (*Reader, *session.Store, *autosave.Controller) {
	sessions := session.NewStore()
	saver := autosave.NewController(nopPersister{})
	return NewReader(sessions, saver, notes), sessions, saver
}

func TestOpenSeedsNoteContentAndSession(t *testing.T) {
	notes := &stubNotes{contents: map[string]string{"p1": "existing notes"}}
	r, sessions, saver := newTestReader(notes)

	view, err := r.Open(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if view.PaperId != "p1" {
		t.Fatalf("view paper = %q", view.PaperId)
	}
	if view.NoteContent != "existing notes" {
		t.Fatalf("view content = %q", view.NoteContent)
	}

	sess, ok := sessions.GetSession(view.SessionId)
	if !ok {
		t.Fatal("session was not created")
	}
	if sess.PaperId != "p1" || len(sess.Messages) != 0 {
		t.Fatalf("unexpected session %+v", sess)
	}

	current, ok := sessions.CurrentSession()
	if !ok || current.Id != view.SessionId {
		t.Fatal("new session is not current")
	}

	if got, _ := saver.Content("p1"); got != "existing notes" {
		t.Fatalf("autosave seeded with %q", got)
	}
}

func TestOpenMissingNotesMeansEmpty(t *testing.T) {
	r, _, saver := newTestReader(&stubNotes{contents: map[string]string{}})

	view, err := r.Open(context.Background(), "p-new")
	if err != nil {
		t.Fatal(err)
	}
	if view.NoteContent != "" {
		t.Fatalf("content = %q, want empty", view.NoteContent)
	}
	if got, ok := saver.Content("p-new"); !ok || got != "" {
		t.Fatalf("autosave content = %q, %v", got, ok)
	}
}

func TestOpenCreatesFreshHistory(t *testing.T) {
	r, _, _ := newTestReader(&stubNotes{})

	if _, ok := r.History("p1"); ok {
		t.Fatal("history exists before Open")
	}

	if _, err := r.Open(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}

	h, ok := r.History("p1")
	if !ok {
		t.Fatal("history missing after Open")
	}
	if len(h.Highlights()) != 0 {
		t.Fatal("history not empty on mount")
	}
}

func TestOpenPropagatesLoadError(t *testing.T) {
	wantErr := errors.New("backend unreachable")
	r, sessions, _ := newTestReader(&stubNotes{err: wantErr})

	if _, err := r.Open(context.Background(), "p1"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if _, ok := sessions.CurrentSession(); ok {
		t.Fatal("session created despite failed load")
	}
	if _, ok := r.History("p1"); ok {
		t.Fatal("history created despite failed load")
	}
}

func TestCloseDropsHistoryKeepsSession(t *testing.T) {
	r, sessions, _ := newTestReader(&stubNotes{})

	view, err := r.Open(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}

	r.Close("p1")

	if _, ok := r.History("p1"); ok {
		t.Fatal("history survived Close")
	}

	// A late assistant reply still lands in the surviving session.
	sessions.AddMessage(view.SessionId, session.Message{Id: "m1", Role: "assistant", Content: "late"})
	sess, ok := sessions.GetSession(view.SessionId)
	if !ok || len(sess.Messages) != 1 {
		t.Fatal("session should outlive the view")
	}
}

func TestEachOpenGetsOwnSession(t *testing.T) {
	r, _, _ := newTestReader(&stubNotes{})

	v1, _ := r.Open(context.Background(), "p1")
	v2, _ := r.Open(context.Background(), "p2")

	if v1.SessionId == v2.SessionId {
		t.Fatal("distinct views share a session id")
	}
}
