package recognizer

import (
	"context"

	"github.com/harunnryd/catat/pkg/audio"
)

// Recognizer converts one audio segment to text. Exactly one attempt per
// call; callers decide whether a failed iteration continues. Errors carry
// errorsx.ReasonUnintelligible when the segment decoded to nothing and
// errorsx.ReasonServiceUnavailable when the backend could not serve.
type Recognizer interface {
	// Name returns the provider name for logging/metrics.
	Name() string
	// Recognize transcribes a single segment.
	Recognize(ctx context.Context, seg audio.Segment) (string, error)
}

// Config contains vendor-agnostic recognition configuration.
type Config struct {
	Language string
}
