package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/labstack/echo/v4"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string             `json:"scene"`
	Width     int                `json:"width"`
	Height    int                `json:"height"` // 0 keeps the scene's aspect ratio
	MaxPasses int                `json:"maxPasses"`
	Threads   int                `json:"threads"` // 0 uses every CPU
	Partition renderer.Partition `json:"partition"`
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Threads          int     `json:"threads"`
	WorkUnits        int     `json:"workUnits"`
	BVHNodes         int     `json:"bvhNodes"`
	BVHDepth         int     `json:"bvhDepth"`
}

func newStats(total renderer.RenderStats) Stats {
	return Stats{
		Width:            total.Width,
		Height:           total.Height,
		TotalPixels:      total.TotalPixels,
		TotalSamples:     total.TotalSamples,
		SamplesPerPixel:  total.Frames,
		SamplesPerSecond: total.SamplesPerSecond(),
		Threads:          total.Threads,
		WorkUnits:        total.WorkUnits,
		BVHNodes:         total.BVH.Nodes,
		BVHDepth:         total.BVH.MaxDepth,
	}
}

// handleRender streams a progressive render as server-sent events. The
// render stops between passes once the client disconnects.
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return jsonError(c, err)
	}

	sc, cameraConfig, err := s.createScene(req.Scene, req.Width, req.Height)
	if err != nil {
		return jsonError(c, err)
	}
	if err := cameraConfig.Validate(); err != nil {
		return jsonError(c, err)
	}

	config := renderer.DefaultConfig()
	config.Threads = req.Threads
	config.Partition = req.Partition

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, s.logger, consoleChan)

	pr, err := renderer.NewProgressiveRaytracer(sc.World(), renderer.NewCamera(cameraConfig), config,
		renderer.ProgressiveConfig{MaxPasses: req.MaxPasses}, webLogger)
	if err != nil {
		return jsonError(c, err)
	}

	setSSEHeaders(c.Response())
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	startTime := time.Now()
	passChan, errChan := pr.RenderProgressive(ctx)

	for passChan != nil {
		select {
		case msg := <-consoleChan:
			s.sendConsole(c, msg)
		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.sendProgress(c, req, result, startTime); err != nil {
				// The render goroutine notices the cancelled context and
				// closes its channels; keep draining until it does.
				s.logger.Warningf("%s: %v", renderID, err)
			}
		}
	}

	// Flush what the last pass logged
	for drained := false; !drained; {
		select {
		case msg := <-consoleChan:
			s.sendConsole(c, msg)
		default:
			drained = true
		}
	}

	if err := <-errChan; err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Infof("%s: client disconnected after %d passes", renderID, pr.Passes())
			return nil
		}
		return sendSSEEvent(c.Response(), "error", err.Error())
	}
	return sendSSEEvent(c.Response(), "complete", "Rendering completed")
}

func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	query := c.QueryParams()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 0, maxWidth); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 50, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.Threads, err = parseIntParam(query, "threads", 0, 0, 1024); err != nil {
		return nil, err
	}

	req.Partition = renderer.PartitionTiles
	if name := query.Get("partition"); name != "" {
		if req.Partition, err = renderer.ParsePartition(name); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (s *Server) sendProgress(c echo.Context, req *RenderRequest, result renderer.PassResult, startTime time.Time) error {
	frame, err := encodePNG(result.Image)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	s.mu.Lock()
	s.lastFrame = frame
	s.mu.Unlock()

	update := ProgressUpdate{
		PassNumber:  result.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   base64.StdEncoding.EncodeToString(frame),
		Stats:       newStats(result.Total),
		IsComplete:  result.IsLast,
		ElapsedMs:   time.Since(startTime).Milliseconds(),
	}
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return sendSSEEvent(c.Response(), "progress", string(data))
}

func (s *Server) sendConsole(c echo.Context, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	sendSSEEvent(c.Response(), "console", string(data))
}

// handleFrame returns the most recent pass of any render as a PNG
func (s *Server) handleFrame(c echo.Context) error {
	s.mu.RLock()
	frame := s.lastFrame
	s.mu.RUnlock()

	if frame == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no frame rendered yet"})
	}
	return c.Blob(http.StatusOK, "image/png", frame)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(res *echo.Response) {
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
}

// sendSSEEvent writes one event and flushes it to the client
func sendSSEEvent(res *echo.Response, event, data string) error {
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
