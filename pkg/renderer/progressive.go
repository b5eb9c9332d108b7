package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	MaxPasses int `json:"max_passes"` // Single-sample passes before stopping
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		MaxPasses: 100,
	}
}

// Validate reports an out-of-range setting
func (c ProgressiveConfig) Validate() error {
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes %d: %w", c.MaxPasses, ErrInvalidConfig)
	}
	return nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Snapshot of the display buffer after the pass
	Stats      RenderStats // This pass
	Total      RenderStats // All passes so far
	IsLast     bool
}

// ProgressiveRaytracer refines an image one sample per pixel per pass
type ProgressiveRaytracer struct {
	raytracer *Raytracer
	config    ProgressiveConfig
	logger    log.Logger
	passes    int
	total     RenderStats
}

// NewProgressiveRaytracer creates a progressive renderer. The mode in
// config is forced to progressive.
func NewProgressiveRaytracer(world *World, camera *Camera, config Config, progressive ProgressiveConfig, logger log.Logger) (*ProgressiveRaytracer, error) {
	if err := progressive.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New("progressive")
	}

	config.Mode = ModeProgressive
	rt, err := NewRaytracer(world, camera, config, logger)
	if err != nil {
		return nil, err
	}

	return &ProgressiveRaytracer{
		raytracer: rt,
		config:    progressive,
		logger:    logger,
	}, nil
}

// Camera returns the camera being refined
func (pr *ProgressiveRaytracer) Camera() *Camera { return pr.raytracer.camera }

// Passes returns the number of completed passes
func (pr *ProgressiveRaytracer) Passes() int { return pr.passes }

// RenderPass blends one more sample into every pixel
func (pr *ProgressiveRaytracer) RenderPass() PassResult {
	stats := pr.raytracer.Render()
	pr.passes++
	if pr.passes == 1 {
		pr.total = stats
	} else {
		pr.total = pr.total.Merge(stats)
	}

	return PassResult{
		PassNumber: pr.passes,
		Image:      pr.raytracer.camera.Image(),
		Stats:      stats,
		Total:      pr.total,
		IsLast:     pr.passes >= pr.config.MaxPasses,
	}
}

// Run renders passes until MaxPasses is reached, calling onPass after
// each one. The context is checked only between passes; a pass that has
// started always completes. An error from onPass stops the loop.
func (pr *ProgressiveRaytracer) Run(ctx context.Context, onPass func(PassResult) error) error {
	pr.logger.Noticef("starting progressive rendering with %d passes", pr.config.MaxPasses)

	for pr.passes < pr.config.MaxPasses {
		select {
		case <-ctx.Done():
			pr.logger.Infof("rendering cancelled before pass %d", pr.passes+1)
			return ctx.Err()
		default:
		}

		result := pr.RenderPass()
		pr.logger.Debugf("pass %d completed in %v", result.PassNumber, result.Stats.Duration)

		if onPass != nil {
			if err := onPass(result); err != nil {
				return err
			}
		}
	}

	pr.logger.Noticef("progressive rendering finished: %d passes in %v", pr.passes, pr.total.Duration)
	return nil
}

// RenderProgressive runs the pass loop on its own goroutine and streams
// the results. The caller must drain the pass channel; the error channel
// receives at most one value and both channels are closed at the end.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		err := pr.Run(ctx, func(result PassResult) error {
			select {
			case passChan <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return passChan, errChan
}
