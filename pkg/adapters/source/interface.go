package source

import (
	"context"
	"time"

	"github.com/harunnryd/catat/pkg/audio"
)

// Source is the audio capture boundary. Listen blocks until a speech segment
// is available, the silence timeout elapses (errorsx.ReasonListenTimeout) or
// the device fails (errorsx.ReasonDeviceFailure).
type Source interface {
	// Name returns the source name for logging/metrics.
	Name() string
	// Open prepares the source and calibrates against ambient noise.
	Open(ctx context.Context) error
	// Close releases the source.
	Close() error
	// Listen waits for the next speech segment.
	Listen(ctx context.Context) (audio.Segment, error)
}

// Config holds vendor-agnostic listen bounds.
type Config struct {
	// SilenceTimeout bounds the wait for speech onset.
	SilenceTimeout time.Duration
	// MaxPhrase caps a single captured phrase.
	MaxPhrase time.Duration
	// EnergyThreshold is the speech onset level; DynamicEnergy lets it track
	// ambient noise.
	EnergyThreshold float64
	DynamicEnergy   bool
	// Calibration is how long Open samples ambient noise.
	Calibration time.Duration
}

func (c Config) WithDefaults() Config {
	if c.SilenceTimeout <= 0 {
		c.SilenceTimeout = 5 * time.Second
	}
	if c.MaxPhrase <= 0 {
		c.MaxPhrase = 10 * time.Second
	}
	if c.EnergyThreshold <= 0 {
		c.EnergyThreshold = 300
	}
	if c.Calibration <= 0 {
		c.Calibration = time.Second
	}
	return c
}
