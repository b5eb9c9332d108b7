package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Mode selects how samples are gathered per render call
type Mode int

const (
	// ModeBatch traces every sample of a pixel in one call
	ModeBatch Mode = iota
	// ModeProgressive traces one sample per pixel per call and blends it in
	ModeProgressive
)

func (m Mode) String() string {
	switch m {
	case ModeBatch:
		return "batch"
	case ModeProgressive:
		return "progressive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "batch":
		return ModeBatch, nil
	case "progressive":
		return ModeProgressive, nil
	}
	return 0, fmt.Errorf("unknown mode %q: %w", name, ErrInvalidConfig)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Partition selects how the image is split between workers
type Partition int

const (
	// PartitionRowBlocks gives every worker one contiguous band of rows
	PartitionRowBlocks Partition = iota
	// PartitionTiles lets a fixed pool of workers pull square tiles from a shared queue
	PartitionTiles
)

func (p Partition) String() string {
	switch p {
	case PartitionRowBlocks:
		return "rows"
	case PartitionTiles:
		return "tiles"
	default:
		return fmt.Sprintf("partition(%d)", int(p))
	}
}

// ParsePartition converts a partition name into a Partition
func ParsePartition(name string) (Partition, error) {
	switch strings.ToLower(name) {
	case "rows", "rowblocks":
		return PartitionRowBlocks, nil
	case "tiles":
		return PartitionTiles, nil
	}
	return 0, fmt.Errorf("unknown partition %q: %w", name, ErrInvalidConfig)
}

func (p Partition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Partition) UnmarshalText(text []byte) error {
	parsed, err := ParsePartition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// CameraConfig describes the view and the per-pixel sampling budget
type CameraConfig struct {
	AspectRatio     float64   `json:"aspect_ratio"`
	Width           int       `json:"width"`
	SamplesPerPixel int       `json:"samples_per_pixel"` // Batch mode only
	MaxDepth        int       `json:"max_depth"`         // Maximum bounces per path
	VerticalFOV     float64   `json:"vfov"`              // Degrees
	LookFrom        core.Vec3 `json:"look_from"`
	LookAt          core.Vec3 `json:"look_at"`
	Up              core.Vec3 `json:"up"`
	DefocusAngle    float64   `json:"defocus_angle"` // Degrees; 0 disables depth of field
	FocusDistance   float64   `json:"focus_distance"`
}

// DefaultCameraConfig returns a square 800px view looking down +Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     1,
		Width:           800,
		SamplesPerPixel: 100,
		MaxDepth:        20,
		VerticalFOV:     90,
		LookFrom:        core.NewVec3(0, 0, -1),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   10,
	}
}

// Validate reports the first out-of-range camera setting
func (c CameraConfig) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("width %d: %w", c.Width, ErrInvalidConfig)
	case c.AspectRatio <= 0:
		return fmt.Errorf("aspect ratio %g: %w", c.AspectRatio, ErrInvalidConfig)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel %d: %w", c.SamplesPerPixel, ErrInvalidConfig)
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidConfig)
	case c.VerticalFOV <= 0 || c.VerticalFOV >= 180:
		return fmt.Errorf("vertical fov %g: %w", c.VerticalFOV, ErrInvalidConfig)
	case c.FocusDistance <= 0:
		return fmt.Errorf("focus distance %g: %w", c.FocusDistance, ErrInvalidConfig)
	case c.LookFrom.Subtract(c.LookAt).NearZero():
		return fmt.Errorf("look from equals look at: %w", ErrInvalidConfig)
	case c.Up.Cross(c.LookFrom.Subtract(c.LookAt)).NearZero():
		return fmt.Errorf("up %v is parallel to the view direction: %w", c.Up, ErrInvalidConfig)
	}
	return nil
}

// Config controls how a render pass is executed
type Config struct {
	Mode      Mode      `json:"mode"`
	Partition Partition `json:"partition"`
	Threads   int       `json:"threads"`   // Workers per pass (0 = CPU count)
	TileSize  int       `json:"tile_size"` // Edge length of a square tile
	Seed      uint64    `json:"seed"`      // Keys the per-pixel random streams
}

// DefaultConfig returns a batch render over 32px tiles
func DefaultConfig() Config {
	return Config{
		Mode:      ModeBatch,
		Partition: PartitionTiles,
		Threads:   50,
		TileSize:  32,
		Seed:      1,
	}
}

// Validate reports the first out-of-range setting
func (c Config) Validate() error {
	switch {
	case c.Mode != ModeBatch && c.Mode != ModeProgressive:
		return fmt.Errorf("mode %v: %w", c.Mode, ErrInvalidConfig)
	case c.Partition != PartitionRowBlocks && c.Partition != PartitionTiles:
		return fmt.Errorf("partition %v: %w", c.Partition, ErrInvalidConfig)
	case c.Threads < 0:
		return fmt.Errorf("threads %d: %w", c.Threads, ErrInvalidConfig)
	case c.Partition == PartitionTiles && c.TileSize <= 0:
		return fmt.Errorf("tile size %d: %w", c.TileSize, ErrInvalidConfig)
	}
	return nil
}

// FileConfig is the on-disk form of a render setup
type FileConfig struct {
	Scene       string            `json:"scene"`
	Camera      *CameraConfig     `json:"camera,omitempty"` // Overrides the scene camera when set
	Render      Config            `json:"render"`
	Progressive ProgressiveConfig `json:"progressive"`
}

// DefaultFileConfig returns the defaults a config file is read over
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Scene:       "default",
		Render:      DefaultConfig(),
		Progressive: DefaultProgressiveConfig(),
	}
}

// LoadConfig reads a JSON config file. Fields missing from the file keep
// their default values.
func LoadConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Render.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Camera != nil {
		if err := cfg.Camera.Validate(); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Progressive.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
