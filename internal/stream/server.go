// Package stream serves the minimap engine over websockets.
//
// Each connection gets its own surface, owned by a single event-loop
// goroutine. Clients send pointer, scroll and measure events as JSON and
// receive a frame whenever the surface changed during a frame tick.
package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/olivier-w/lineminimap/internal/motion"
)

const tracerName = "github.com/olivier-w/lineminimap/internal/stream"

// Server accepts websocket clients and runs one surface per client.
type Server struct {
	opts     motion.Options
	logger   *log.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	router   chi.Router

	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	closed   bool
	sessions sync.WaitGroup
}

// NewServer validates opts and builds the router.
func NewServer(opts motion.Options, logger *log.Logger) (*Server, error) {
	if _, err := motion.NewLayout(opts.Layout); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	reg := prometheus.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   logger,
		metrics:  NewMetrics(reg),
		registry: reg,
		tracer:   otel.Tracer(tracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/ws", s.handleWS)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Registry returns the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// track registers a session unless Close has begun, so Add never races
// with Wait.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions.Add(1)
	return true
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.sessions.Done()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	id := uuid.NewString()
	ctx, span := s.tracer.Start(s.ctx, "stream.session",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	sess, err := newSession(id, ws, s.opts, s.logger, s.metrics)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("session setup failed", "err", err)
		return
	}

	s.metrics.sessionsTotal.Inc()
	s.metrics.activeSessions.Inc()
	defer s.metrics.activeSessions.Dec()

	sess.logger.Info("session opened", "remote", r.RemoteAddr)
	start := time.Now()
	err = sess.run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		sess.logger.Warn("session ended", "err", err, "frames", sess.seq)
		return
	}
	sess.logger.Info("session closed", "frames", sess.seq, "elapsed", time.Since(start).Round(time.Millisecond))
}

// Close ends every running session and waits for them to finish.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.sessions.Wait()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
