package ecgquality

import (
	"github.com/kianyew1/ecgquality/pkg/ecgquality/quality"
)

// Config holds service-level settings. Construct through NewService with
// options; zero fields take defaults.
type Config struct {
	DBPath             string
	SamplingRate       int
	MaxDurationSeconds float64
	Channels           []string
	Engine             quality.EngineConfig
	Logger             Logger
	Storage            Storage
	Detector           PeakDetector
	Scorer             MorphologyScorer
}

// Option mutates the service configuration.
type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithSamplingRate(rate int) Option {
	return func(c *Config) {
		c.SamplingRate = rate
	}
}

func WithMaxDuration(seconds float64) Option {
	return func(c *Config) {
		c.MaxDurationSeconds = seconds
	}
}

func WithChannels(channels []string) Option {
	return func(c *Config) {
		c.Channels = channels
	}
}

func WithEngineConfig(cfg quality.EngineConfig) Option {
	return func(c *Config) {
		c.Engine = cfg
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func WithDetector(det PeakDetector) Option {
	return func(c *Config) {
		c.Detector = det
	}
}

func WithScorer(scorer MorphologyScorer) Option {
	return func(c *Config) {
		c.Scorer = scorer
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:             "ecgquality.sqlite3",
		SamplingRate:       500,
		MaxDurationSeconds: 300,
		Channels:           []string{"CH2", "CH3", "CH4"},
		Engine:             quality.DefaultEngineConfig(),
	}
}
