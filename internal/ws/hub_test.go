package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestWS returns both ends of a live WebSocket connection.
func dialTestWS(t *testing.T) (*httptest.Server, *websocket.Conn, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		connCh <- c
	}))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}

	select {
	case serverConn := <-connCh:
		return srv, serverConn, clientConn
	case <-time.After(2 * time.Second):
		srv.Close()
		t.Fatal("timed out waiting for server-side connection")
		return nil, nil, nil
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return msg
}

func TestBroadcastReachesAllClients(t *testing.T) {
	srv, serverConn, clientConn := dialTestWS(t)
	defer srv.Close()
	defer clientConn.Close()

	h := NewHub(0)
	c := h.AddClient(serverConn, "")
	if c == nil {
		t.Fatal("AddClient returned nil")
	}
	defer h.RemoveClient(c)

	h.Broadcast(Message{Type: "stats_updated", UserID: "u1", Payload: map[string]int{"shots": 40}})

	msg := readMessage(t, clientConn)
	if msg.Type != "stats_updated" || msg.UserID != "u1" {
		t.Errorf("got %+v", msg)
	}
}

func TestBroadcastUserFilter(t *testing.T) {
	srv, serverConn, clientConn := dialTestWS(t)
	defer srv.Close()
	defer clientConn.Close()

	h := NewHub(0)
	c := h.AddClient(serverConn, "u2")
	defer h.RemoveClient(c)

	// An event for another user never reaches this client, so only the
	// second broadcast shows up on the wire.
	h.Broadcast(Message{Type: "achievement_completed", UserID: "u1"})
	h.Broadcast(Message{Type: "achievement_completed", UserID: "u2"})

	msg := readMessage(t, clientConn)
	if msg.UserID != "u2" {
		t.Errorf("filtered client received event for %q", msg.UserID)
	}
}

func TestBroadcastUnscopedEventPassesFilter(t *testing.T) {
	srv, serverConn, clientConn := dialTestWS(t)
	defer srv.Close()
	defer clientConn.Close()

	h := NewHub(0)
	c := h.AddClient(serverConn, "u2")
	defer h.RemoveClient(c)

	h.Broadcast(Message{Type: "announcement"})

	if msg := readMessage(t, clientConn); msg.Type != "announcement" {
		t.Errorf("got %+v", msg)
	}
}

func TestAddClientConnectionLimit(t *testing.T) {
	srv1, serverConn1, clientConn1 := dialTestWS(t)
	defer srv1.Close()
	defer clientConn1.Close()
	srv2, serverConn2, clientConn2 := dialTestWS(t)
	defer srv2.Close()
	defer clientConn2.Close()

	h := NewHub(1)
	c1 := h.AddClient(serverConn1, "")
	if c1 == nil {
		t.Fatal("first client rejected")
	}
	defer h.RemoveClient(c1)

	if c2 := h.AddClient(serverConn2, ""); c2 != nil {
		t.Error("second client accepted past the limit")
	}
	if got := h.ClientCount(); got != 1 {
		t.Errorf("client count = %d, want 1", got)
	}
}

func TestWritePumpRemovesDeadClient(t *testing.T) {
	srv, serverConn, clientConn := dialTestWS(t)
	defer srv.Close()

	h := NewHub(0)
	c := h.AddClient(serverConn, "")
	if c == nil {
		t.Fatal("AddClient returned nil")
	}

	// Kill the connection so the next write fails and the pump evicts
	// the client.
	clientConn.Close()
	serverConn.Close()

	h.Broadcast(Message{Type: "stats_updated"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("dead client not removed; count = %d", h.ClientCount())
}
