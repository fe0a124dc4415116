package hostevents

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phanxgames/linkframe"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/frame/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer("", 0, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestEventAcceptedAndDelivered(t *testing.T) {
	srv := NewServer("", 4, nil)
	h := srv.Handler()

	w := post(t, h, `{"event":"notifications_enabled","notificationDetails":{"url":"https://api.example/n","token":"abc"}}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] == "" {
		t.Error("response has no event id")
	}

	select {
	case ev := <-srv.Events():
		if ev.Type != linkframe.HostNotificationsEnabled {
			t.Errorf("event = %q", ev.Type)
		}
		if ev.Notification == nil || ev.Notification.Token != "abc" {
			t.Errorf("notification = %+v", ev.Notification)
		}
	default:
		t.Fatal("event not delivered")
	}
}

func TestEventRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"event":`},
		{"unknown event", `{"event":"frame_exploded"}`},
		{"missing event", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer("", 1, nil)
			w := post(t, srv.Handler(), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if len(srv.Events()) != 0 {
				t.Error("rejected event was queued")
			}
		})
	}
}

func TestEventQueueFull(t *testing.T) {
	srv := NewServer("", 1, nil)
	h := srv.Handler()
	if w := post(t, h, `{"event":"frame_added"}`); w.Code != http.StatusAccepted {
		t.Fatalf("first status = %d", w.Code)
	}
	if w := post(t, h, `{"event":"frame_removed"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("second status = %d, want 503", w.Code)
	}
	if srv.dropped.Load() != 1 || srv.accepted.Load() != 1 {
		t.Errorf("accepted=%d dropped=%d", srv.accepted.Load(), srv.dropped.Load())
	}
}

func TestWebhookDrivesSession(t *testing.T) {
	srv := NewServer("", 4, nil)
	sess, err := linkframe.NewSession(linkframe.SessionConfig{
		Clock: linkframe.ClockFunc(func() int64 { return 100 }),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	sess.SetHostEvents(srv.Events())
	sess.HandleKey(linkframe.KeyArrowRight)

	if w := post(t, srv.Handler(), `{"event":"frame_removed"}`); w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	sess.Update(200)

	got := sess.Snapshot()
	if got.CurrentView != linkframe.ViewMain || got.TransitionDirection != linkframe.DirectionBack {
		t.Errorf("state = %+v, want main/back", got)
	}
}

func TestStopWithoutStart(t *testing.T) {
	srv := NewServer("", 0, nil)
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestStartServesAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := NewServer("127.0.0.1:0", 1, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if mode := gin.Mode(); mode != gin.TestMode {
		t.Errorf("gin mode = %q after Start, want %q", mode, gin.TestMode)
	}

	transport := &http.Transport{}
	client := &http.Client{Transport: transport}
	resp, err := client.Post("http://"+srv.Addr()+"/api/frame/events", "application/json",
		bytes.NewBufferString(`{"event":"frame_added"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
	if ev := <-srv.Events(); ev.Type != linkframe.HostFrameAdded {
		t.Errorf("event = %+v", ev)
	}

	transport.CloseIdleConnections()
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
