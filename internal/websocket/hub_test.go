package websocket

import (
	"path/filepath"
	"testing"
	"time"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log := logger.NewZapLogger(filepath.Join(t.TempDir(), "hub.log"), false)
	hub := NewHub(nil, log)
	go hub.Run()
	return hub
}

// waitRegistered blocks until Run has inserted the client into hub.clients;
// the send on hub.register returns at channel handoff, before that happens.
func waitRegistered(t *testing.T, hub *Hub, clientID string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		hub.mu.RLock()
		_, ok := hub.clients[clientID]
		hub.mu.RUnlock()
		if ok {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client %s was never registered", clientID)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestBroadcastFullBufferDoesNotBlock(t *testing.T) {
	hub := newTestHub(t)

	// A client whose buffer is already full cannot take the broadcast.
	full := &Client{Hub: hub, ClientID: "tab-1", Send: make(chan []byte, 1)}
	full.Send <- []byte("occupied")
	hub.register <- full
	waitRegistered(t, hub, "tab-1")

	healthy := &Client{Hub: hub, ClientID: "tab-2", Send: make(chan []byte, 4)}
	hub.register <- healthy
	waitRegistered(t, hub, "tab-2")

	done := make(chan struct{})
	go func() {
		hub.Broadcast(dto.Notification{Type: "NOTE_SAVE_FAILED", Message: "disk full"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a client with a full send buffer")
	}

	select {
	case <-healthy.Send:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy client did not receive the broadcast")
	}

	// The stale client is dropped once Run drains the unregister queue.
	deadline := time.After(2 * time.Second)
	for {
		hub.mu.RLock()
		_, ok := hub.clients["tab-1"]
		hub.mu.RUnlock()
		if !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("stale client was never unregistered")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestSendTargetsOneTab(t *testing.T) {
	hub := newTestHub(t)

	target := &Client{Hub: hub, ClientID: "tab-1", Send: make(chan []byte, 4)}
	hub.register <- target
	waitRegistered(t, hub, "tab-1")

	other := &Client{Hub: hub, ClientID: "tab-2", Send: make(chan []byte, 4)}
	hub.register <- other
	waitRegistered(t, hub, "tab-2")

	hub.Send("tab-1", dto.Notification{Type: "PAPER_UPLOADED"})

	select {
	case <-target.Send:
	case <-time.After(2 * time.Second):
		t.Fatal("targeted client did not receive the notification")
	}

	select {
	case <-other.Send:
		t.Fatal("notification leaked to another tab")
	default:
	}
}
