package session

import (
	"fmt"
	"testing"
	"time"
)

func TestCreateSessionDistinctIdsSameInstant(t *testing.T) {
	store := NewStore()
	fixed := time.UnixMilli(1700000000000)
	store.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.CreateSession("p1")
		if seen[id] {
			t.Fatalf("duplicate session id %q on iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestCreateSessionSetsCurrent(t *testing.T) {
	store := NewStore()

	id := store.CreateSession("p1")

	current, ok := store.CurrentSession()
	if !ok {
		t.Fatal("expected a current session after CreateSession")
	}
	if current.Id != id {
		t.Fatalf("current session id = %q, want %q", current.Id, id)
	}
	if current.PaperId != "p1" {
		t.Fatalf("current session paper = %q, want p1", current.PaperId)
	}
	if len(current.Messages) != 0 {
		t.Fatalf("new session has %d messages, want 0", len(current.Messages))
	}
}

func TestAddMessagePreservesOrder(t *testing.T) {
	store := NewStore()
	id := store.CreateSession("p1")

	store.AddMessage(id, Message{Id: "m1", Role: "user", Content: "Summarize"})
	store.AddMessage(id, Message{Id: "m2", Role: "assistant", Content: "This paper is about..."})

	current, ok := store.CurrentSession()
	if !ok {
		t.Fatal("expected a current session")
	}
	if current.PaperId != "p1" {
		t.Fatalf("paper id = %q, want p1", current.PaperId)
	}
	if len(current.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(current.Messages))
	}
	if current.Messages[0].Content != "Summarize" || current.Messages[1].Content != "This paper is about..." {
		t.Fatalf("messages out of order: %+v", current.Messages)
	}
}

func TestAddMessageMissingSessionIsNoOp(t *testing.T) {
	store := NewStore()
	id := store.CreateSession("p1")
	store.AddMessage(id, Message{Id: "m1", Role: "user", Content: "hello"})

	store.AddMessage("nope", Message{Id: "m2", Role: "assistant", Content: "late reply"})

	sess, ok := store.GetSession(id)
	if !ok {
		t.Fatal("existing session vanished")
	}
	if len(sess.Messages) != 1 {
		t.Fatalf("existing session mutated: %d messages, want 1", len(sess.Messages))
	}
	if _, ok := store.GetSession("nope"); ok {
		t.Fatal("nonexistent session was created by AddMessage")
	}
}

func TestCurrentSessionAbsent(t *testing.T) {
	store := NewStore()

	if _, ok := store.CurrentSession(); ok {
		t.Fatal("fresh store should have no current session")
	}

	store.CreateSession("p1")
	store.ClearCurrent()

	if _, ok := store.CurrentSession(); ok {
		t.Fatal("current session should be absent after ClearCurrent")
	}
}

func TestSetCurrentDoesNotValidate(t *testing.T) {
	store := NewStore()
	store.CreateSession("p1")

	store.SetCurrent("stale-id")

	if _, ok := store.CurrentSession(); ok {
		t.Fatal("stale current pointer should resolve to absent")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore()
	id := store.CreateSession("p1")
	store.AddMessage(id, Message{Id: "m1", Role: "user", Content: "original"})

	snap, _ := store.GetSession(id)
	snap.Messages[0].Content = "mutated"
	snap.Messages = append(snap.Messages, Message{Id: "mx"})

	again, _ := store.GetSession(id)
	if len(again.Messages) != 1 || again.Messages[0].Content != "original" {
		t.Fatalf("store state leaked through snapshot: %+v", again.Messages)
	}
}

func TestSessionsForPaper(t *testing.T) {
	store := NewStore()
	store.CreateSession("p1")
	store.CreateSession("p1")
	store.CreateSession("p2")

	got := store.SessionsForPaper("p1")
	if len(got) != 2 {
		t.Fatalf("sessions for p1 = %d, want 2", len(got))
	}
	for _, sess := range got {
		if sess.PaperId != "p1" {
			t.Fatalf("unexpected paper id %q", sess.PaperId)
		}
	}
}

func TestAddMessageManyAppendOnly(t *testing.T) {
	store := NewStore()
	id := store.CreateSession("p1")

	for i := 0; i < 50; i++ {
		store.AddMessage(id, Message{Id: fmt.Sprintf("m%d", i), Content: fmt.Sprintf("turn %d", i)})
	}

	sess, _ := store.GetSession(id)
	if len(sess.Messages) != 50 {
		t.Fatalf("message count = %d, want 50", len(sess.Messages))
	}
	for i, msg := range sess.Messages {
		if msg.Id != fmt.Sprintf("m%d", i) {
			t.Fatalf("message %d out of order: %q", i, msg.Id)
		}
	}
}
