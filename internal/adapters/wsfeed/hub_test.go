package wsfeed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedClients() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ConnectedClients() != 1 {
		t.Fatalf("ConnectedClients() = %d, want 1", hub.ConnectedClients())
	}

	hub.Broadcast([]byte(`{"hello":"world"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("ReadMessage() = %q, want it to contain the broadcast payload", data)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedClients() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for hub.ConnectedClients() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ConnectedClients() != 0 {
		t.Errorf("ConnectedClients() = %d, want 0 after disconnect", hub.ConnectedClients())
	}
}

func TestBroadcastDropsWhenChannelFull(t *testing.T) {
	hub := NewHub(testLogger())
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- []byte("x")
	}
	hub.Broadcast([]byte("overflow"))
}
