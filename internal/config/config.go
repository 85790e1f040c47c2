// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/fonts"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

// Detector backends accepted in DETECTOR_BACKEND.
const (
	BackendAuto   = "auto"
	BackendRemote = "remote"
	BackendDNN    = "dnn"
	BackendText   = "text"
	BackendShapes = "shapes"
)

// Config holds every runtime setting.
type Config struct {
	LogLevel slog.Level

	Backend      string
	Endpoint     string
	Token        string
	Model        string
	WaitForModel bool

	DNNModelPath  string
	DNNConfigPath string

	OCRLanguage    string
	OCRTessdataDir string
	OCRScale       float64

	ShapesMaxDimension int

	FetchTimeout time.Duration

	FontSize         float64
	FontPaths        []string
	FontSearchSystem bool

	BoxColor  string
	TextColor string

	DefaultThreshold float64
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then builds a Config from the
// environment. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment, with defaults for
// anything unset or unparsable. It does not validate.
func FromEnv() *Config {
	return &Config{
		LogLevel: getEnvAsLevel("ANNOTATE_LOG_LEVEL", slog.LevelInfo),

		Backend:      strings.ToLower(getEnv("DETECTOR_BACKEND", BackendAuto)),
		Endpoint:     getEnv("DETECTOR_ENDPOINT", ""),
		Token:        getEnv("DETECTOR_TOKEN", os.Getenv("HF_TOKEN")),
		Model:        getEnv("DETECTOR_MODEL", ""),
		WaitForModel: getEnvAsBool("DETECTOR_WAIT_FOR_MODEL", true),

		DNNModelPath:  getEnv("DNN_MODEL_PATH", filepath.Join("models", "frozen_inference_graph.pb")),
		DNNConfigPath: getEnv("DNN_CONFIG_PATH", filepath.Join("models", "ssd_mobilenet_v2_coco.pbtxt")),

		OCRLanguage:    getEnv("OCR_LANGUAGE", "eng"),
		OCRTessdataDir: getEnv("OCR_TESSDATA_DIR", ""),
		OCRScale:       getEnvAsFloat("OCR_SCALE", 1),

		ShapesMaxDimension: getEnvAsInt("SHAPES_MAX_DIMENSION", 320),

		FetchTimeout: getEnvAsSeconds("FETCH_TIMEOUT", imaging.DefaultFetchTimeout),

		FontSize:         getEnvAsFloat("FONT_SIZE", fonts.DefaultSize),
		FontPaths:        getEnvAsList("FONT_PATHS"),
		FontSearchSystem: getEnvAsBool("FONT_SEARCH_SYSTEM", true),

		BoxColor:  getEnv("BOX_COLOR", "#FF0000"),
		TextColor: getEnv("TEXT_COLOR", "#FFFFFF"),

		DefaultThreshold: getEnvAsFloat("DEFAULT_THRESHOLD", detection.DefaultThreshold),
	}
}

// Validate rejects an unknown backend and replaces out-of-range numbers with
// their defaults.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendRemote, BackendDNN, BackendText, BackendShapes:
	default:
		return fmt.Errorf("unknown DETECTOR_BACKEND %q (want auto, remote, dnn, text or shapes)", c.Backend)
	}
	if detection.ValidateThreshold(c.DefaultThreshold) != nil {
		c.DefaultThreshold = detection.DefaultThreshold
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = imaging.DefaultFetchTimeout
	}
	if c.FontSize <= 0 || c.FontSize > 200 {
		c.FontSize = fonts.DefaultSize
	}
	if c.ShapesMaxDimension < 0 {
		c.ShapesMaxDimension = 0
	}
	if c.OCRScale < 1 || c.OCRScale > 8 {
		c.OCRScale = 1
	}
	return nil
}

// FontCandidates returns FontPaths followed by the built-in candidate list.
func (c *Config) FontCandidates() []string {
	paths := append([]string(nil), c.FontPaths...)
	return append(paths, fonts.DefaultPaths...)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := getEnv(key, ""); value != "" {
		if v, err := cast.ToIntE(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := getEnv(key, ""); value != "" {
		if v, err := cast.ToFloat64E(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := getEnv(key, ""); value != "" {
		if v, err := cast.ToBoolE(value); err == nil {
			return v
		}
	}
	return defaultValue
}

// getEnvAsSeconds accepts a bare number of seconds ("15", "2.5") or a Go
// duration ("1m30s").
func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if secs, err := cast.ToFloat64E(value); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	if d, err := cast.ToDurationE(value); err == nil {
		return d
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, p := range filepath.SplitList(getEnv(key, "")) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv(key, ""))); err != nil {
		return defaultValue
	}
	return level
}
