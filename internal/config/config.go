// Package config handles geoglobe configuration loading and management.
package config

import (
	"geoglobe/internal/labels"
)

// Config holds all settings.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Labels  LabelsConfig  `mapstructure:"labels" yaml:"labels"`
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera"`
}

// StorageConfig selects where the visited list is persisted.
type StorageConfig struct {
	Type       string `mapstructure:"type" yaml:"type"` // memory, file or sqlite
	Key        string `mapstructure:"key" yaml:"key"`
	DataDir    string `mapstructure:"dataDir" yaml:"dataDir"`
	SQLitePath string `mapstructure:"sqlitePath" yaml:"sqlitePath"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays" yaml:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// UIConfig holds terminal rendering settings.
type UIConfig struct {
	FPS int `mapstructure:"fps" yaml:"fps"`
	// Size of one terminal cell in virtual pixels.
	CellWidth  int  `mapstructure:"cellWidth" yaml:"cellWidth"`
	CellHeight int  `mapstructure:"cellHeight" yaml:"cellHeight"`
	ShowLabels bool `mapstructure:"showLabels" yaml:"showLabels"`
}

// LabelsConfig tunes the label selector.
type LabelsConfig struct {
	MaxLabels      int     `mapstructure:"maxLabels" yaml:"maxLabels"`
	Margin         float64 `mapstructure:"margin" yaml:"margin"`
	Bound          float64 `mapstructure:"bound" yaml:"bound"`
	TieBand        float64 `mapstructure:"tieBand" yaml:"tieBand"`
	VisitedBoost   float64 `mapstructure:"visitedBoost" yaml:"visitedBoost"`
	MajorBoost     float64 `mapstructure:"majorBoost" yaml:"majorBoost"`
	CenterWeight   float64 `mapstructure:"centerWeight" yaml:"centerWeight"`
	FallbackWidth  float64 `mapstructure:"fallbackWidth" yaml:"fallbackWidth"`
	FallbackHeight float64 `mapstructure:"fallbackHeight" yaml:"fallbackHeight"`
}

// CameraConfig holds the orbit camera settings.
type CameraConfig struct {
	FovY          float64 `mapstructure:"fovY" yaml:"fovY"`
	Distance      float64 `mapstructure:"distance" yaml:"distance"`
	MinDistance   float64 `mapstructure:"minDistance" yaml:"minDistance"`
	MaxDistance   float64 `mapstructure:"maxDistance" yaml:"maxDistance"`
	RotateSpeed   float64 `mapstructure:"rotateSpeed" yaml:"rotateSpeed"`
	DampingFactor float64 `mapstructure:"dampingFactor" yaml:"dampingFactor"`
}

// Default returns a Config with the default values.
func Default() *Config {
	o := labels.DefaultOptions()
	return &Config{
		Storage: StorageConfig{
			Type: "file",
			Key:  "visitedCountries",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
		UI: UIConfig{
			FPS:        30,
			CellWidth:  8,
			CellHeight: 16,
			ShowLabels: true,
		},
		Labels: LabelsConfig{
			MaxLabels:      o.MaxLabels,
			Margin:         o.Margin,
			Bound:          o.Bound,
			TieBand:        o.TieBand,
			VisitedBoost:   o.VisitedBoost,
			MajorBoost:     o.MajorBoost,
			CenterWeight:   o.CenterWeight,
			FallbackWidth:  o.FallbackWidth,
			FallbackHeight: o.FallbackHeight,
		},
		Camera: CameraConfig{
			FovY:          75,
			Distance:      200,
			MinDistance:   120,
			MaxDistance:   300,
			RotateSpeed:   0.5,
			DampingFactor: 0.05,
		},
	}
}

// Options converts the label settings for the selector.
func (c LabelsConfig) Options() labels.Options {
	return labels.Options{
		MaxLabels:      c.MaxLabels,
		Margin:         c.Margin,
		Bound:          c.Bound,
		TieBand:        c.TieBand,
		VisitedBoost:   c.VisitedBoost,
		MajorBoost:     c.MajorBoost,
		CenterWeight:   c.CenterWeight,
		FallbackWidth:  c.FallbackWidth,
		FallbackHeight: c.FallbackHeight,
	}
}
