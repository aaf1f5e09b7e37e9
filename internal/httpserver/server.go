// Package httpserver is the visitor counter HTTP API.
package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/hourglass/internal/model"
)

const (
	maxSessionIDLen   = 128
	keepAliveInterval = 30 * time.Second
)

// Server provides the visitor counter API.
type Server struct {
	addr      string
	store     model.VisitStore
	hub       *Hub
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	now       func() time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store model.VisitStore) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		store:     store,
		hub:       NewHub(),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Handler builds the gin router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/visits", s.handleCount)
	api.POST("/visits", s.handleVisit)
	api.GET("/visits/stream", s.handleStream)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	// No WriteTimeout: stream responses stay open until the client leaves.
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("httpserver: serve: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop ends open streams and gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	s.hub.Close()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.store.VisitCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read visit count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"visits":      count,
		"subscribers": s.hub.Subscribers(),
	})
}

func (s *Server) handleCount(c *gin.Context) {
	count, err := s.store.VisitCount()
	if err != nil {
		log.Printf("httpserver: read visits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read visit count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (s *Server) handleVisit(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing session_id field"})
		return
	}
	id := strings.TrimSpace(req.SessionID)
	if id == "" || len(id) > maxSessionIDLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id must be 1-128 characters"})
		return
	}

	res, err := s.store.RecordVisit(id, s.now())
	if err != nil {
		log.Printf("httpserver: record visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record visit"})
		return
	}
	if res.Counted {
		s.hub.Publish(res.Count)
	}
	c.JSON(http.StatusOK, gin.H{"count": res.Count, "counted": res.Counted})
}

func (s *Server) handleStream(c *gin.Context) {
	updates, cancel := s.hub.Subscribe()
	defer cancel()

	count, err := s.store.VisitCount()
	if err != nil {
		log.Printf("httpserver: read visits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read visit count"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent("visits", gin.H{"count": count})
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("visits", gin.H{"count": n})
			c.Writer.Flush()
		case <-keepAlive.C:
			if _, err := c.Writer.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
