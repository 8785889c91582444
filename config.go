package craft

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/wgpu"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when a configuration value cannot be parsed.
var ErrInvalidConfig = errors.New("craft: invalid configuration")

// Environment variables read by LoadConfig.
const (
	EnvTitle    = "CRAFT_TITLE"
	EnvWidth    = "CRAFT_WIDTH"
	EnvHeight   = "CRAFT_HEIGHT"
	EnvBackend  = "CRAFT_BACKEND"
	EnvPower    = "CRAFT_POWER"
	EnvGPUDebug = "CRAFT_GPU_DEBUG"
	EnvLogLevel = "CRAFT_LOG_LEVEL"
)

// Config holds the application settings.
type Config struct {
	// Title is the window title.
	Title string

	// Width and Height are the initial window size in screen coordinates.
	Width  int
	Height int

	// Backends restricts which graphics APIs the instance may use.
	Backends wgpu.Backends

	// Power is the adapter power preference.
	Power wgpu.PowerPreference

	// Debug enables GPU validation layers.
	Debug bool

	// LogLevel is the minimum level printed by the process logger.
	LogLevel slog.Level
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Title:    "craft",
		Width:    800,
		Height:   600,
		Backends: wgpu.BackendsAll,
		Power:    wgpu.PowerPreferenceHighPerformance,
		LogLevel: slog.LevelInfo,
	}
}

// LoadConfig builds a Config from the defaults, the given dotenv files and
// the process environment, in increasing order of precedence.
// Files that do not exist are skipped.
func LoadConfig(files ...string) (Config, error) {
	fileVals := make(map[string]string)
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("stat %s: %w", f, err)
		}
		vals, err := godotenv.Read(f)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			fileVals[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	cfg := DefaultConfig()
	if v, ok := lookup(EnvTitle); ok {
		cfg.Title = v
	}
	if v, ok := lookup(EnvWidth); ok {
		n, err := parseDimension(EnvWidth, v)
		if err != nil {
			return Config{}, err
		}
		cfg.Width = n
	}
	if v, ok := lookup(EnvHeight); ok {
		n, err := parseDimension(EnvHeight, v)
		if err != nil {
			return Config{}, err
		}
		cfg.Height = n
	}
	if v, ok := lookup(EnvBackend); ok {
		b, err := ParseBackends(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Backends = b
	}
	if v, ok := lookup(EnvPower); ok {
		p, err := ParsePowerPreference(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Power = p
	}
	if v, ok := lookup(EnvGPUDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvGPUDebug, v)
		}
		cfg.Debug = b
	}
	if v, ok := lookup(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvLogLevel, v)
		}
	}
	return cfg, nil
}

func parseDimension(key, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}

// ParseBackends maps a backend name to the wgpu backend set.
func ParseBackends(name string) (wgpu.Backends, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return wgpu.BackendsAll, nil
	case "primary":
		return wgpu.BackendsPrimary, nil
	case "vulkan":
		return wgpu.BackendsVulkan, nil
	case "metal":
		return wgpu.BackendsMetal, nil
	case "dx12":
		return wgpu.BackendsDX12, nil
	case "gl":
		return wgpu.BackendsGL, nil
	default:
		return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, name)
	}
}

// ParsePowerPreference maps a power preference name to its wgpu value.
func ParsePowerPreference(name string) (wgpu.PowerPreference, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "high-performance":
		return wgpu.PowerPreferenceHighPerformance, nil
	case "low-power":
		return wgpu.PowerPreferenceLowPower, nil
	case "none":
		return wgpu.PowerPreferenceNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown power preference %q", ErrInvalidConfig, name)
	}
}
