package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/olivier-w/lineminimap/internal/motion"
)

// conn is the part of *websocket.Conn a session uses.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
}

// session runs one surface for one client. Everything that touches the
// surface happens on the run goroutine; the reader only decodes.
type session struct {
	id      string
	conn    conn
	surface *motion.Surface
	logger  *log.Logger
	metrics *Metrics

	frameEvery  time.Duration
	springEvery time.Duration

	awake map[*motion.Value]struct{}
	seq   uint64
	dirty bool
}

func newSession(id string, c conn, opts motion.Options, logger *log.Logger, m *Metrics) (*session, error) {
	s := &session{
		id:          id,
		conn:        c,
		logger:      logger.With("session", id),
		metrics:     m,
		springEvery: opts.Spring.Interval(),
		awake:       make(map[*motion.Value]struct{}),
	}
	surface, err := motion.NewSurface(opts, s)
	if err != nil {
		return nil, err
	}
	s.surface = surface
	s.frameEvery = surface.Driver().Interval()
	return s, nil
}

// Wake queues v for spring steps on the session's spring ticker.
func (s *session) Wake(v *motion.Value) {
	s.awake[v] = struct{}{}
}

func (s *session) hello() Hello {
	l := s.surface.Layout()
	return Hello{
		Type:        "hello",
		Session:     s.id,
		Count:       l.ElementCount,
		Pitch:       l.Pitch(),
		Width:       l.ElementWidth,
		TravelRange: l.TravelRange(),
	}
}

// apply feeds one decoded client event into the surface.
func (s *session) apply(ev inbound) error {
	switch ev.Type {
	case msgMeasure:
		s.surface.Measure(ev.Origin)
	case msgPointer:
		if ev.X == nil {
			return errors.New("pointer message without x")
		}
		if *ev.X < 0 {
			return fmt.Errorf("pointer x %v is negative", *ev.X)
		}
		s.surface.PointerMove(*ev.X)
	case msgLeave:
		s.surface.PointerLeave()
	case msgScroll:
		s.surface.ScrollTo(ev.Offset)
	default:
		return fmt.Errorf("unknown message type %q", ev.Type)
	}
	return nil
}

// stepSprings advances every woken value once and forgets those at rest.
func (s *session) stepSprings() {
	for v := range s.awake {
		if !v.Step() {
			delete(s.awake, v)
		}
		s.metrics.springSteps.Inc()
		s.dirty = true
	}
}

func (s *session) frame(dt time.Duration) {
	if s.surface.Frame(dt) {
		s.dirty = true
	}
}

func (s *session) snapshot() Frame {
	s.seq++
	states := s.surface.Elements()
	elems := make([]Element, len(states))
	for i, st := range states {
		elems[i] = Element{Scale: st.Scale, Opacity: st.Opacity, Active: st.Active}
	}
	return Frame{
		Type:     "frame",
		Seq:      s.seq,
		Scroll:   s.surface.Scroll().Target(),
		Marker:   s.surface.Marker(),
		Elements: elems,
	}
}

func (s *session) flush() error {
	if !s.dirty {
		return nil
	}
	s.dirty = false
	if err := s.conn.WriteJSON(s.snapshot()); err != nil {
		return err
	}
	s.metrics.framesSent.Inc()
	return nil
}

// readLoop decodes client messages until the connection fails or ctx ends.
func (s *session) readLoop(ctx context.Context, events chan<- inbound, errc chan<- error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case errc <- err:
			case <-ctx.Done():
			}
			return
		}
		var ev inbound
		if err := json.Unmarshal(data, &ev); err != nil {
			s.metrics.clientMessages.WithLabelValues("invalid").Inc()
			s.logger.Warn("dropping malformed message", "err", err)
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// run mounts the surface and serves the client until it disconnects or ctx
// ends. A normal close returns nil.
func (s *session) run(ctx context.Context) error {
	s.surface.Mount()
	defer s.surface.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.conn.WriteJSON(s.hello()); err != nil {
		return err
	}

	events := make(chan inbound)
	errc := make(chan error, 1)
	go s.readLoop(ctx, events, errc)

	frames := time.NewTicker(s.frameEvery)
	defer frames.Stop()
	springs := time.NewTicker(s.springEvery)
	defer springs.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		case ev := <-events:
			if err := s.apply(ev); err != nil {
				s.metrics.clientMessages.WithLabelValues("invalid").Inc()
				s.logger.Warn("dropping message", "err", err)
				continue
			}
			s.metrics.clientMessages.WithLabelValues(ev.Type).Inc()
		case now := <-frames.C:
			s.frame(now.Sub(last))
			last = now
			if err := s.flush(); err != nil {
				return err
			}
		case <-springs.C:
			s.stepSprings()
		}
	}
}
