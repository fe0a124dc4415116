// Package hostevents receives Frame host lifecycle events over HTTP and hands
// them to the session through a buffered channel.
package hostevents

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phanxgames/linkframe"
	"go.uber.org/zap"
)

// DefaultAddr is used when NewServer gets an empty address.
const DefaultAddr = "127.0.0.1:3001"

// DefaultBuffer is the event channel capacity used when NewServer gets a
// non-positive buffer.
const DefaultBuffer = 16

// Server accepts host events on POST /api/frame/events.
type Server struct {
	addr      string
	events    chan linkframe.HostEvent
	log       *zap.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	bound     string

	accepted atomic.Int64
	dropped  atomic.Int64
}

// NewServer creates a webhook server. Accepted events are sent on a channel
// with the given capacity; when it is full the request is refused with 503.
func NewServer(addr string, buffer int, logger *zap.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		events: make(chan linkframe.HostEvent, buffer),
		log:    logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events returns the channel accepted events are delivered on. Pass it to
// Session.SetHostEvents.
func (s *Server) Events() <-chan linkframe.HostEvent {
	return s.events
}

// Addr returns the address the server listens on once started, or the
// configured address before that.
func (s *Server) Addr() string {
	if s.bound != "" {
		return s.bound
	}
	return s.addr
}

// Handler returns the router without starting a listener.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)
	return r
}

func (s *Server) routes(r gin.IRoutes) {
	r.GET("/api/health", s.handleHealth)
	r.POST("/api/frame/events", s.handleEvent)
}

// Start begins serving HTTP requests in the background. The gin mode is left
// to the caller.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.startTime = time.Now()
	s.bound = listener.Addr().String()
	s.log.Info("host event webhook listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("host event webhook stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"accepted": s.accepted.Load(),
		"dropped":  s.dropped.Load(),
		"queued":   len(s.events),
	})
}

func (s *Server) handleEvent(c *gin.Context) {
	var ev linkframe.HostEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if !ev.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event " + string(ev.Type)})
		return
	}

	id := uuid.NewString()
	select {
	case s.events <- ev:
		s.accepted.Add(1)
		s.log.Debug("host event accepted",
			zap.String("id", id), zap.String("event", string(ev.Type)))
		c.JSON(http.StatusAccepted, gin.H{"id": id, "event": ev.Type})
	default:
		s.dropped.Add(1)
		s.log.Warn("host event queue full",
			zap.String("id", id), zap.String("event", string(ev.Type)))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event queue full"})
	}
}
