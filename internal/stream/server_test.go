package stream

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/olivier-w/lineminimap/internal/motion"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(motion.DefaultOptions(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func TestNewServerRejectsSingleLine(t *testing.T) {
	opts := motion.DefaultOptions()
	opts.Layout.ElementCount = 1
	if _, err := NewServer(opts, nil); !errors.Is(err, motion.ErrTooFewElements) {
		t.Fatalf("NewServer() error = %v, want ErrTooFewElements", err)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestClosedServerRefusesSessions(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		ws.Close()
		t.Fatal("expected dial to fail after Close")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("response = %v, want 503", resp)
	}
	resp.Body.Close()
}

func TestWebsocketSessionStreamsFrames(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Hello
	if err := ws.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "hello" || hello.Session == "" || hello.Count != 40 {
		t.Fatalf("unexpected hello %+v", hello)
	}

	for _, msg := range []inbound{
		{Type: msgMeasure, Origin: 0},
		{Type: msgScroll, Offset: 500},
	} {
		if err := ws.WriteJSON(msg); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
	}

	for {
		var f Frame
		if err := ws.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if f.Scroll != 390 {
			t.Fatalf("frame scroll = %v, want clamped 390", f.Scroll)
		}
		if len(f.Elements) != 40 {
			t.Fatalf("len(elements) = %d, want 40", len(f.Elements))
		}
		if f.Marker > 389 {
			break
		}
	}
}

func TestMetricsEndpointCountsSessions(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	var hello Hello
	if err := ws.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	ws.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "lineminimap_sessions_total 1") {
		t.Fatalf("metrics missing session count:\n%s", body)
	}
}
