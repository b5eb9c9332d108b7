package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/urfave/cli"
)

// renderSettings is the merged result of scene defaults, config file and flags
type renderSettings struct {
	scene       string
	camera      *renderer.CameraConfig // Replaces the scene camera when set
	render      renderer.Config
	progressive renderer.ProgressiveConfig
	sceneOpts   scene.Options
	out         string
	checkpoint  int
}

func loadRenderSettings(ctx *cli.Context) (renderSettings, error) {
	file := renderer.DefaultFileConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if file, err = renderer.LoadConfig(path); err != nil {
			return renderSettings{}, err
		}
	}

	settings := renderSettings{
		scene:       file.Scene,
		camera:      file.Camera,
		render:      file.Render,
		progressive: file.Progressive,
		sceneOpts:   scene.DefaultOptions(),
		out:         ctx.String("out"),
		checkpoint:  ctx.Int("checkpoint"),
	}

	if ctx.IsSet("scene") {
		settings.scene = ctx.String("scene")
	}
	if ctx.IsSet("mode") {
		mode, err := renderer.ParseMode(ctx.String("mode"))
		if err != nil {
			return settings, err
		}
		settings.render.Mode = mode
	}
	if ctx.IsSet("partition") {
		partition, err := renderer.ParsePartition(ctx.String("partition"))
		if err != nil {
			return settings, err
		}
		settings.render.Partition = partition
	}
	if ctx.IsSet("tile-size") {
		settings.render.TileSize = ctx.Int("tile-size")
	}
	if ctx.IsSet("seed") {
		settings.render.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("threads") {
		settings.render.Threads = ctx.Int("threads")
	}
	if settings.render.Threads == 0 {
		settings.render.Threads = hostThreads()
	}
	if passes := ctx.Int("passes"); passes > 0 {
		settings.progressive.MaxPasses = passes
	}

	settings.sceneOpts.Flat = ctx.Bool("flat")
	settings.sceneOpts.Build.Parallel = !ctx.Bool("sequential-build")
	settings.sceneOpts.MeshPath = ctx.String("mesh")
	settings.sceneOpts.TexturePath = ctx.String("texture")

	if settings.out == "" {
		settings.out = defaultOutput(settings.scene, time.Now())
	}

	if err := settings.render.Validate(); err != nil {
		return settings, err
	}
	if err := settings.progressive.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// cameraConfig applies the config file camera and the size flags to the
// scene's own camera
func (rs renderSettings) cameraConfig(ctx *cli.Context, sc *scene.Scene) (renderer.CameraConfig, error) {
	cfg := sc.Camera
	if rs.camera != nil {
		cfg = *rs.camera
	}
	if width := ctx.Int("width"); width > 0 {
		cfg.Width = width
	}
	if spp := ctx.Int("spp"); spp > 0 {
		cfg.SamplesPerPixel = spp
	}
	if ctx.IsSet("depth") {
		cfg.MaxDepth = ctx.Int("depth")
	}
	return cfg, cfg.Validate()
}

// hostThreads returns the logical CPU count, or 0 to let the renderer decide
func hostThreads() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		logger.Warningf("could not count CPUs: %v", err)
		return 0
	}
	return n
}

func defaultOutput(sceneName string, now time.Time) string {
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// renderScene renders a scene to a PNG file.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	settings, err := loadRenderSettings(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.Create(settings.scene, settings.sceneOpts)
	if err != nil {
		return err
	}
	cameraConfig, err := settings.cameraConfig(ctx, sc)
	if err != nil {
		return err
	}
	camera := renderer.NewCamera(cameraConfig)

	logger.Noticef("rendering %s at %dx%d (%s, %s, %d threads)",
		settings.scene, camera.Width(), camera.Height(),
		settings.render.Mode, settings.render.Partition, settings.render.Threads)

	var stats renderer.RenderStats
	switch settings.render.Mode {
	case renderer.ModeProgressive:
		stats, err = renderProgressive(sc, camera, settings)
	default:
		stats, err = camera.Render(sc.World(), settings.render)
	}
	if err != nil {
		return err
	}

	if err := writePNG(settings.out, camera.Image()); err != nil {
		return err
	}
	displayRenderStats(stats)
	logger.Noticef("render saved as %s", settings.out)
	return nil
}

// renderProgressive runs passes until the configured count or an
// interrupt, whichever comes first
func renderProgressive(sc *scene.Scene, camera *renderer.Camera, settings renderSettings) (renderer.RenderStats, error) {
	pr, err := renderer.NewProgressiveRaytracer(sc.World(), camera, settings.render, settings.progressive, log.New("progressive"))
	if err != nil {
		return renderer.RenderStats{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var total renderer.RenderStats
	err = pr.Run(ctx, func(result renderer.PassResult) error {
		total = result.Total
		logger.Infof("pass %d/%d in %v", result.PassNumber, settings.progressive.MaxPasses, result.Stats.Duration)

		if settings.checkpoint > 0 && result.PassNumber%settings.checkpoint == 0 && !result.IsLast {
			return writePNG(settings.out, result.Image)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return total, err
	}
	if pr.Passes() == 0 {
		return total, errors.New("interrupted before the first pass completed")
	}
	return total, nil
}

func writePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("render statistics\n%s", formatRenderStats(stats))
}

func formatRenderStats(stats renderer.RenderStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Size", "Mode", "Partition", "Threads", "Work units", "Samples/pixel", "BVH nodes", "BVH depth", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		stats.Mode.String(),
		stats.Partition.String(),
		fmt.Sprintf("%d", stats.Threads),
		fmt.Sprintf("%d", stats.WorkUnits),
		fmt.Sprintf("%d", stats.Frames),
		fmt.Sprintf("%d", stats.BVH.Nodes),
		fmt.Sprintf("%d", stats.BVH.MaxDepth),
		stats.Duration.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "", "SAMPLES/S", fmt.Sprintf("%.0f", stats.SamplesPerSecond())})

	table.Render()
	return buf.String()
}
