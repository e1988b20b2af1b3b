// Package config loads the omr-grader configuration from YAML, applies
// environment overrides and converts it into the parameter structs of the
// processing packages.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/omr-grader/internal/ink"
	"github.com/ironsheep/omr-grader/internal/layout"
	"github.com/ironsheep/omr-grader/internal/skew"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "omr-grader.yaml"

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Pipeline step names.
const (
	StepCrop  = "crop"
	StepAlign = "align"
	StepGrade = "grade"
)

// stepAliases maps the step names of older pipeline configurations.
var stepAliases = map[string]string{
	"cropper": StepCrop,
	"aligner": StepAlign,
	"ocr":     StepGrade,
}

// CanonicalStep returns the step name configured as s, with surrounding
// whitespace removed and legacy aliases resolved. Unknown names are returned
// trimmed but otherwise unchanged.
func CanonicalStep(s string) string {
	s = strings.TrimSpace(s)
	if c, ok := stepAliases[s]; ok {
		return c
	}
	return s
}

// Config is the complete omr-grader configuration.
type Config struct {
	Skew      SkewConfig      `yaml:"skew"`
	Layout    LayoutConfig    `yaml:"layout"`
	Questions QuestionsConfig `yaml:"questions"`
	Ink       InkConfig       `yaml:"ink"`
	Paths     PathsConfig     `yaml:"paths"`
	Crop      CropConfig      `yaml:"crop"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SkewConfig configures skew estimation.
type SkewConfig struct {
	Strategy       string  `yaml:"strategy"` // projection, hough, whitelines
	AngleRange     float64 `yaml:"angle_range"`
	AngleStep      float64 `yaml:"angle_step"`
	WorkingSize    int     `yaml:"working_size"`
	HoughThreshold int     `yaml:"hough_threshold"`
}

// LayoutConfig configures margin and band detection.
type LayoutConfig struct {
	MarginThreshold         float64 `yaml:"margin_threshold"`
	MarginPad               int     `yaml:"margin_pad"`
	HorizontalBandThreshold float64 `yaml:"horizontal_band_threshold"`
	MinBandGap              int     `yaml:"min_band_gap"`
}

// QuestionsConfig is the expected grid shape.
type QuestionsConfig struct {
	NumGrades    int `yaml:"num_grades"`
	NumQuestions int `yaml:"num_questions"`
}

// InkConfig configures ink detection.
type InkConfig struct {
	Mode             string  `yaml:"mode"` // grid, window
	CellWidth        int     `yaml:"cell_width"`
	CellHeight       int     `yaml:"cell_height"`
	InkThreshold     float64 `yaml:"ink_threshold"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	RowTolerance     int     `yaml:"row_tolerance"`
}

// PathsConfig holds the directories each stage reads and writes.
type PathsConfig struct {
	RawDir          string   `yaml:"raw_dir"`    // crop input
	InputDir        string   `yaml:"input_dir"`  // align input
	OutputDir       string   `yaml:"output_dir"` // aligned pages, grade input
	DebugDir        string   `yaml:"debug_dir"`
	Registry        string   `yaml:"registry"`
	InputExtensions []string `yaml:"input_extensions"`
}

// CropConfig sizes the fixed answer rectangle cut from raw pages.
type CropConfig struct {
	RectWidth  int  `yaml:"rect_width"`
	RectHeight int  `yaml:"rect_height"`
	Debug      bool `yaml:"debug"`
}

// PipelineConfig configures the run command.
type PipelineConfig struct {
	Steps       []string `yaml:"steps"`
	Concurrency int      `yaml:"concurrency"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MetricsConfig configures the Prometheus textfile written after a batch.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables metrics
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	sp := skew.DefaultParams()
	lp := layout.DefaultParams()
	ip := ink.DefaultParams()
	return &Config{
		Skew: SkewConfig{
			Strategy:       skew.StrategyProjection,
			AngleRange:     sp.AngleRange,
			AngleStep:      sp.AngleStep,
			WorkingSize:    sp.WorkingSize,
			HoughThreshold: sp.HoughThreshold,
		},
		Layout: LayoutConfig{
			MarginThreshold:         lp.MarginThreshold,
			MarginPad:               lp.MarginPad,
			HorizontalBandThreshold: lp.BandThreshold,
			MinBandGap:              lp.MinBandGap,
		},
		Questions: QuestionsConfig{
			NumGrades:    lp.NumGrades,
			NumQuestions: lp.NumQuestions,
		},
		Ink: InkConfig{
			Mode:             ink.ModeGrid,
			CellWidth:        ip.CellWidth,
			CellHeight:       ip.CellHeight,
			InkThreshold:     ip.InkThreshold,
			OverlapThreshold: ip.OverlapThreshold,
			RowTolerance:     ip.RowTolerance,
		},
		Paths: PathsConfig{
			RawDir:          "raw",
			InputDir:        "cropped",
			OutputDir:       "aligned",
			DebugDir:        "debug",
			Registry:        filepath.Join("aligned", "detected_grade_bands.json"),
			InputExtensions: []string{".png"},
		},
		Crop: CropConfig{
			RectWidth:  600,
			RectHeight: 800,
			Debug:      true,
		},
		Pipeline: PipelineConfig{
			Steps:       []string{StepCrop, StepAlign, StepGrade},
			Concurrency: runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is ignored.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("OMR_INPUT_DIR"); dir != "" {
		c.Paths.InputDir = dir
	}
	if dir := os.Getenv("OMR_OUTPUT_DIR"); dir != "" {
		c.Paths.OutputDir = dir
	}
	if path := os.Getenv("OMR_REGISTRY"); path != "" {
		c.Paths.Registry = path
	}
	if level := os.Getenv("OMR_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

var (
	validStrategies = []string{skew.StrategyProjection, skew.StrategyHough, skew.StrategyWhiteLines}
	validModes      = []string{ink.ModeGrid, ink.ModeWindow}
	validLevels     = []string{"debug", "info", "warn", "error"}
	validFormats    = []string{"json", "console"}
)

// Validate reports every invalid setting at once. Each error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !slices.Contains(validStrategies, c.Skew.Strategy) {
		fail("skew.strategy %q (valid: %v)", c.Skew.Strategy, validStrategies)
	}
	if err := c.SkewParams().Validate(); err != nil {
		fail("skew: %v", err)
	}
	if c.Skew.WorkingSize < 0 {
		fail("skew.working_size must be >= 0, got %d", c.Skew.WorkingSize)
	}

	if c.Layout.MinBandGap < 1 {
		fail("layout.min_band_gap must be >= 1, got %d", c.Layout.MinBandGap)
	}
	if c.Layout.HorizontalBandThreshold < 0 || c.Layout.HorizontalBandThreshold > 255 {
		fail("layout.horizontal_band_threshold must be in [0, 255], got %v", c.Layout.HorizontalBandThreshold)
	}
	if c.Layout.MarginThreshold < 0 || c.Layout.MarginThreshold > 255 {
		fail("layout.margin_threshold must be in [0, 255], got %v", c.Layout.MarginThreshold)
	}

	if c.Questions.NumGrades < 1 {
		fail("questions.num_grades must be >= 1, got %d", c.Questions.NumGrades)
	}
	if c.Questions.NumQuestions < 1 {
		fail("questions.num_questions must be >= 1, got %d", c.Questions.NumQuestions)
	}

	if !slices.Contains(validModes, c.Ink.Mode) {
		fail("ink.mode %q (valid: %v)", c.Ink.Mode, validModes)
	}
	if err := c.InkParams().Validate(); err != nil {
		fail("ink: %v", err)
	}

	if c.Paths.Registry == "" {
		fail("paths.registry is empty")
	}
	if len(c.Paths.InputExtensions) == 0 {
		fail("paths.input_extensions is empty")
	}
	for _, ext := range c.Paths.InputExtensions {
		if !strings.HasPrefix(ext, ".") {
			fail("paths.input_extensions entry %q must start with a dot", ext)
		}
	}

	if c.Crop.RectWidth < 1 || c.Crop.RectHeight < 1 {
		fail("crop rectangle must be positive, got %dx%d", c.Crop.RectWidth, c.Crop.RectHeight)
	}

	if c.Pipeline.Concurrency < 0 {
		fail("pipeline.concurrency must be >= 0, got %d", c.Pipeline.Concurrency)
	}

	if !slices.Contains(validLevels, c.Logging.Level) {
		fail("logging.level %q (valid: %v)", c.Logging.Level, validLevels)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		fail("logging.format %q (valid: %v)", c.Logging.Format, validFormats)
	}

	return errors.Join(errs...)
}

// SkewParams returns the skew search parameters.
func (c *Config) SkewParams() skew.Params {
	return skew.Params{
		AngleRange:     c.Skew.AngleRange,
		AngleStep:      c.Skew.AngleStep,
		WorkingSize:    c.Skew.WorkingSize,
		HoughThreshold: c.Skew.HoughThreshold,
	}
}

// LayoutParams returns the margin and band parameters.
func (c *Config) LayoutParams() layout.Params {
	return layout.Params{
		MarginThreshold: c.Layout.MarginThreshold,
		MarginPad:       c.Layout.MarginPad,
		BandThreshold:   c.Layout.HorizontalBandThreshold,
		MinBandGap:      c.Layout.MinBandGap,
		NumGrades:       c.Questions.NumGrades,
		NumQuestions:    c.Questions.NumQuestions,
	}
}

// InkParams returns the ink detection parameters. At most one candidate per
// question is kept by window suppression.
func (c *Config) InkParams() ink.Params {
	return ink.Params{
		CellWidth:        c.Ink.CellWidth,
		CellHeight:       c.Ink.CellHeight,
		InkThreshold:     c.Ink.InkThreshold,
		OverlapThreshold: c.Ink.OverlapThreshold,
		MaxDetections:    c.Questions.NumQuestions,
		RowTolerance:     c.Ink.RowTolerance,
	}
}

// Workers returns the batch concurrency, defaulting to the number of CPUs.
func (c *Config) Workers() int {
	if c.Pipeline.Concurrency > 0 {
		return c.Pipeline.Concurrency
	}
	return runtime.NumCPU()
}
