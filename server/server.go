// Package server exposes the game over HTTP for a browser client. Rendering
// is entirely client-side; the server only ships state snapshots.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/spiketrade/spiketrade/feed"
	"github.com/spiketrade/spiketrade/game"
	"github.com/spiketrade/spiketrade/journal"
)

// Server wires sessions, the bar feed and the journal behind a gin router.
type Server struct {
	opts      game.Options
	newPicker func() *feed.Picker
	journal   journal.Journal
	manager   *Manager
	log       logrus.FieldLogger

	addr    string
	origins []string
}

// New creates a server. newPicker is called once per session so each session
// gets its own feed randomness.
func New(addr string, origins []string, opts game.Options, newPicker func() *feed.Picker, j journal.Journal) *Server {
	return &Server{
		opts:      opts,
		newPicker: newPicker,
		journal:   j,
		manager:   NewManager(),
		log:       logrus.WithField("component", "server"),
		addr:      addr,
		origins:   origins,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/sessions", s.createSession)
		api.GET("/sessions/:id", s.getState)
		api.POST("/sessions/:id/orders", s.placeOrder)
		api.POST("/sessions/:id/advance", s.advance)
		api.POST("/sessions/:id/autoplay", s.autoplay)
		api.POST("/sessions/:id/pause", s.pause)
		api.POST("/sessions/:id/settle", s.settle)
		api.GET("/leaderboard", s.leaderboard)
		api.POST("/feedback", s.feedback)
		api.GET("/admin/sessions", s.adminSessions)
	}
	return router
}

// Run serves until the listener fails. CORS wraps the whole router so a
// static chart frontend can be hosted anywhere.
func (s *Server) Run() error {
	var handler http.Handler = s.Router()
	if len(s.origins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(handler)
	} else {
		handler = cors.Default().Handler(handler)
	}

	s.log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, handler)
}
