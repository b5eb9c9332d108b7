package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// Limits on request parameters
const (
	minWidth  = 16
	maxWidth  = 2000
	maxPasses = 10000
)

// Server handles web requests for the progressive path tracer
type Server struct {
	port      int
	echo      *echo.Echo
	logger    log.Logger
	sceneOpts scene.Options

	mu        sync.RWMutex
	lastFrame []byte // PNG of the most recent pass of any render
}

// NewServer creates a new web server. sceneOpts is passed to every scene
// the server builds.
func NewServer(port int, sceneOpts scene.Options) *Server {
	s := &Server{
		port:      port,
		echo:      echo.New(),
		logger:    log.New("server"),
		sceneOpts: sceneOpts,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.Use(corsMiddleware)

	s.echo.Static("/", "static")
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/scene-config", s.handleSceneConfig)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/frame.png", s.handleFrame)
	s.echo.GET("/api/inspect", s.handleInspect)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.List())
}

// handleSceneConfig returns the default camera of a scene together with
// the accepted parameter ranges
func (s *Server) handleSceneConfig(c echo.Context) error {
	name := c.QueryParam("scene")
	if name == "" {
		name = "cornell"
	}

	sc, err := scene.Create(name, s.sceneOpts)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene":    name,
		"defaults": sc.Camera,
		"limits": map[string]interface{}{
			"width":     map[string]int{"min": minWidth, "max": maxWidth},
			"maxPasses": map[string]int{"min": 1, "max": maxPasses},
		},
	})
}

// createScene builds the named scene with width and height overrides.
// A zero height keeps the scene's aspect ratio.
func (s *Server) createScene(name string, width, height int) (*scene.Scene, renderer.CameraConfig, error) {
	sc, err := scene.Create(name, s.sceneOpts)
	if err != nil {
		return nil, renderer.CameraConfig{}, err
	}
	cfg := sc.Camera
	cfg.Width = width
	if height > 0 {
		cfg.AspectRatio = float64(width) / float64(height)
	}
	return sc, cfg, nil
}

// jsonError maps engine errors to a status code and a JSON body
func jsonError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, scene.ErrUnknownScene) || errors.Is(err, renderer.ErrInvalidConfig) || errors.Is(err, errBadParam) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

var errBadParam = errors.New("bad parameter")

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", key, value, errBadParam)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got %d: %w", key, min, max, parsed, errBadParam)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
