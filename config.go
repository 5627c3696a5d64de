package cityscape

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// Config is the viewer configuration, usually loaded from a TOML file.
type Config struct {
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Data   DataConfig   `toml:"data"`
	Border BorderConfig `toml:"border"`

	Debug         bool   `toml:"debug"`
	ScreenshotDir string `toml:"screenshot_dir"`
}

// WindowConfig configures the window and the render resolution.
type WindowConfig struct {
	Title       string  `toml:"title"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	ShowFPS     bool    `toml:"show_fps"`
	Resizable   bool    `toml:"resizable"`
	RenderScale float64 `toml:"render_scale"`
}

// CameraConfig holds the initial camera pose and its limits.
type CameraConfig struct {
	Pitch          float64 `toml:"pitch"`
	Yaw            float64 `toml:"yaw"`
	Distance       float64 `toml:"distance"`
	MinDistance    float64 `toml:"min_distance"`
	MaxDistance    float64 `toml:"max_distance"`
	MaxPanDistance float64 `toml:"max_pan_distance"`
	OrbitScale     float64 `toml:"orbit_scale"`
	ZoomScale      float64 `toml:"zoom_scale"`
	PanStep        float64 `toml:"pan_step"`
}

// DataConfig locates the neighbourhood data files.
type DataConfig struct {
	// BuildingInfo is a row-oriented CSV: name,units,R-G-B,values...
	BuildingInfo string `toml:"building_info"`
	// Consumptions is an optional column-oriented CSV.
	Consumptions string `toml:"consumptions"`
	// Columns and Spacing lay out the buildings on a grid.
	Columns int     `toml:"columns"`
	Spacing float64 `toml:"spacing"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:       "Cityscape",
			Width:       1024,
			Height:      640,
			ShowFPS:     true,
			RenderScale: 0.5,
		},
		Camera: CameraConfig{
			Pitch:          60,
			Distance:       150,
			MinDistance:    50,
			MaxDistance:    250,
			MaxPanDistance: 100,
			OrbitScale:     0.5,
			ZoomScale:      15,
			PanStep:        0.5,
		},
		Data: DataConfig{
			Columns: 8,
			Spacing: 12,
		},
		Border:        DefaultBorderConfig(),
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig decodes TOML from r over DefaultConfig. Unknown keys are errors.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes the TOML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return LoadConfig(bytes.NewReader(data))
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the parts of the configuration that would fail later.
func (c Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: negative window size", ErrInvalidConfig)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("%w: camera min_distance %v > max_distance %v",
			ErrInvalidConfig, c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return c.Border.validate()
}

// Apply copies the pose and limits onto cam.
func (c CameraConfig) Apply(cam *Camera) {
	cam.MinDistance = c.MinDistance
	cam.MaxDistance = c.MaxDistance
	cam.MaxPanDistance = c.MaxPanDistance
	cam.OrbitScaleX = c.OrbitScale
	cam.OrbitScaleY = c.OrbitScale
	cam.ZoomScale = c.ZoomScale
	cam.PanStep = c.PanStep
	cam.Distance = cam.clampDistance(c.Distance)
	cam.setRotation(c.Pitch, c.Yaw)
}

// WatchConfig calls fn with the reloaded configuration every time the file
// at path is written or replaced. fn runs on the watcher goroutine. Reload
// errors are passed to fn and logged. The returned stop function closes the
// watcher.
func WatchConfig(path string, fn func(Config, error)) (stop func() error, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfigFile(abs)
				if err != nil {
					Logger().Warn("config reload failed", "path", abs, "err", err)
				} else {
					Logger().Info("config reloaded", "path", abs)
				}
				fn(cfg, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				Logger().Warn("config watcher error", "err", err)
			}
		}
	}()
	return w.Close, nil
}
