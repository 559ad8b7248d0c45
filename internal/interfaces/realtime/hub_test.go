package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/padelista/padel-stats/internal/domain/user"
	"github.com/padelista/padel-stats/internal/platform/logging"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "valid-token" {
		return user.Principal{}, errors.New("invalid token")
	}
	return user.Principal{UserID: "u1", Username: "nico"}, nil
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub, err := NewHub(stubVerifier{}, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /v1/matches/{matchID}/live", hub)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, server
}

func dialRoom(t *testing.T, server *httptest.Server, matchID, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/matches/" + matchID + "/live?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial room: %v (resp=%+v)", err, resp)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_RejectsMissingAndInvalidToken(t *testing.T) {
	_, server := newTestHub(t)

	resp, err := http.Get(server.URL + "/v1/matches/m1/live")
	if err != nil {
		t.Fatalf("request without token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/matches/m1/live?token=wrong"
	_, dialResp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail with an invalid token")
	}
	if dialResp == nil || dialResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", dialResp)
	}
	_ = dialResp.Body.Close()
}

func TestHub_BroadcastsToMatchRoomOnly(t *testing.T) {
	hub, server := newTestHub(t)

	viewer := dialRoom(t, server, "m1", "valid-token")
	otherRoom := dialRoom(t, server, "m2", "valid-token")

	// Joins happen on the server after the handshake returns.
	waitForViewers(t, hub, 2)

	hub.Publish(context.Background(), "m1", map[string]any{
		"kind":    "event-recorded",
		"matchId": "m1",
	})

	_ = viewer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := viewer.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var message map[string]any
	if err := sonic.Unmarshal(raw, &message); err != nil {
		t.Fatalf("unmarshal broadcast: %v", err)
	}
	if message["kind"] != "event-recorded" || message["matchId"] != "m1" {
		t.Fatalf("unexpected broadcast: %+v", message)
	}

	_ = otherRoom.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := otherRoom.ReadMessage(); err == nil {
		t.Fatal("viewer of another match must not receive the broadcast")
	}
}

func waitForViewers(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		total := 0
		for _, room := range hub.rooms {
			total += len(room)
		}
		hub.mu.RUnlock()
		if total >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("viewers did not join in time")
}
