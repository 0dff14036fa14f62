package stream

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/olivier-w/lineminimap/internal/motion"
)

type fakeConn struct {
	in  chan []byte
	out chan any
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 16), out: make(chan any, 256)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.in
	if !ok {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	return websocket.TextMessage, data, nil
}

func (c *fakeConn) WriteJSON(v any) error {
	c.out <- v
	return nil
}

func ptr(v float64) *float64 { return &v }

func newTestSession(t *testing.T, c conn) *session {
	t.Helper()
	s, err := newSession("test", c, motion.DefaultOptions(), log.New(io.Discard), NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	return s
}

func TestSessionApplyDrivesSurface(t *testing.T) {
	s := newTestSession(t, newFakeConn())
	s.surface.Mount()
	defer s.surface.Close()

	for _, ev := range []inbound{
		{Type: msgMeasure, Origin: 100},
		{Type: msgPointer, X: ptr(151)},
		{Type: msgScroll, Offset: 900},
	} {
		if err := s.apply(ev); err != nil {
			t.Fatalf("apply(%+v) error = %v", ev, err)
		}
	}
	if got := s.surface.Scroll().Target(); got != 390 {
		t.Fatalf("scroll target = %v, want 390", got)
	}
	if len(s.awake) == 0 {
		t.Fatal("expected pointer to wake element springs")
	}

	for i := 0; len(s.awake) > 0; i++ {
		if i > 600 {
			t.Fatal("springs never settled")
		}
		s.stepSprings()
	}
	frame := s.snapshot()
	if got := frame.Elements[5].Scale; got != 2 {
		t.Fatalf("line 5 scale = %v, want 2", got)
	}
	if got := frame.Elements[30].Scale; got != 1 {
		t.Fatalf("line 30 scale = %v, want 1", got)
	}
	if frame.Seq != 1 || frame.Type != "frame" {
		t.Fatalf("unexpected frame header %+v", frame)
	}
}

func TestSessionApplyRejectsUnknownType(t *testing.T) {
	s := newTestSession(t, newFakeConn())
	if err := s.apply(inbound{Type: "teleport"}); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}

func TestSessionApplyRejectsBadPointer(t *testing.T) {
	s := newTestSession(t, newFakeConn())
	s.surface.Mount()
	defer s.surface.Close()
	s.surface.Measure(0)

	tests := []struct {
		name string
		raw  string
	}{
		{"missing x", `{"type":"pointer"}`},
		{"idle sentinel", `{"type":"pointer","x":-1}`},
		{"negative", `{"type":"pointer","x":-40.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev inbound
			if err := json.Unmarshal([]byte(tt.raw), &ev); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if err := s.apply(ev); err == nil {
				t.Fatal("expected error")
			}
			if got := s.surface.Pointer().X(); got != motion.PointerIdle {
				t.Fatalf("pointer x = %v, want untouched idle", got)
			}
		})
	}

	var ev inbound
	if err := json.Unmarshal([]byte(`{"type":"pointer","x":0}`), &ev); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := s.apply(ev); err != nil {
		t.Fatalf("apply(x=0) error = %v", err)
	}
	if got := s.surface.Pointer().X(); got != 0 {
		t.Fatalf("pointer x = %v, want 0", got)
	}
}

func TestSessionFlushOnlyWhenDirty(t *testing.T) {
	c := newFakeConn()
	s := newTestSession(t, c)
	s.surface.Mount()
	defer s.surface.Close()

	if err := s.flush(); err != nil {
		t.Fatalf("flush() error = %v", err)
	}
	if len(c.out) != 0 {
		t.Fatal("expected no frame for a clean session")
	}
	s.apply(inbound{Type: msgScroll, Offset: 50})
	s.frame(0)
	if err := s.flush(); err != nil {
		t.Fatalf("flush() error = %v", err)
	}
	if len(c.out) != 1 {
		t.Fatalf("frames written = %d, want 1", len(c.out))
	}
	if got := testutil.ToFloat64(s.metrics.framesSent); got != 1 {
		t.Fatalf("frames_sent_total = %v, want 1", got)
	}
}

func TestSessionRunStreamsFramesUntilClose(t *testing.T) {
	c := newFakeConn()
	s := newTestSession(t, c)

	done := make(chan error, 1)
	go func() { done <- s.run(context.Background()) }()

	hello, ok := (<-c.out).(Hello)
	if !ok || hello.Count != 40 || hello.TravelRange != 390 {
		t.Fatalf("unexpected hello %+v", hello)
	}

	c.in <- []byte(`{"type":"measure","origin":0}`)
	c.in <- []byte(`not json`)
	c.in <- []byte(`{"type":"pointer","x":51}`)

	deadline := time.After(5 * time.Second)
	for grown := false; !grown; {
		select {
		case v := <-c.out:
			if f, ok := v.(Frame); ok && f.Elements[5].Scale > 1.5 {
				grown = true
			}
		case <-deadline:
			t.Fatal("line under pointer never grew")
		}
	}

	close(c.in)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after close")
	}
	if s.surface.Driver().Running() {
		t.Fatal("expected frame loop released after run")
	}
	if got := testutil.ToFloat64(s.metrics.clientMessages.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid messages = %v, want 1", got)
	}
}

func TestSessionRunStopsOnContextCancel(t *testing.T) {
	c := newFakeConn()
	s := newTestSession(t, c)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()
	<-c.out
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	if s.surface.Pointer().Subscribers() != 0 {
		t.Fatal("expected bindings released after cancel")
	}
}
