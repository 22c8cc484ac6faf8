package api

import (
	"rollcall/internal/api/handlers"
	"rollcall/internal/api/middleware"
	"rollcall/internal/config"
	"rollcall/internal/policy"
	"rollcall/internal/store"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	config *config.Config
}

// NewServer creates a new attendance server
func NewServer(cfg *config.Config, st *store.DailyStore, validator *policy.Validator) *Server {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)

	// Create handlers
	pageHandler := handlers.NewPageHandler()
	attendanceHandler := handlers.NewAttendanceHandler(cfg, st, validator)

	// Display pages
	router.GET("/", pageHandler.Index)
	router.GET("/thank-you", pageHandler.ThankYou)
	router.GET("/denied", pageHandler.Denied)

	// Submission endpoint
	router.POST("/submit", attendanceHandler.Submit)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	return s.router.Run(s.config.Server.ListenAddr)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
