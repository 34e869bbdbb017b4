package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aircheck/internal/api/handlers"
	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/ingest"
	"aircheck/internal/playlog"
	"aircheck/internal/reconciler"
)

type Server struct {
	cfg     *config.Config
	svc     *reconciler.Service
	gate    *ingest.Gate
	catalog *catalog.Client
	log     *playlog.Log
	router  *gin.Engine
}

func New(cfg *config.Config, svc *reconciler.Service, gate *ingest.Gate, cat *catalog.Client, plog *playlog.Log) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		svc:     svc,
		gate:    gate,
		catalog: cat,
		log:     plog,
		router:  gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// The player front-end is served from a different origin; everything
	// here is public read except ingest, which is token-gated.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	nowPlayingHandler := handlers.NewNowPlayingHandler(s.svc)
	ingestHandler := handlers.NewIngestHandler(s.gate)
	artworkHandler := handlers.NewArtworkHandler(s.catalog, s.cfg.Catalog.Country)
	recentHandler := handlers.NewRecentHandler(s.log)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "aircheck"})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/ingest", ingestHandler.PostIngest)
		v1.GET("/now-playing", nowPlayingHandler.GetNowPlaying)
		v1.GET("/artwork", artworkHandler.GetArtwork)
		v1.GET("/recent", recentHandler.GetRecent)
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the configured address.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
