package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/catat/pkg/adapters/recognizer"
	"github.com/harunnryd/catat/pkg/audio"
	"github.com/harunnryd/catat/pkg/errorsx"
)

// RecognizerStep scripts one Recognize call.
type RecognizerStep struct {
	Text string
	Err  error
}

func Transcript(text string) RecognizerStep {
	return RecognizerStep{Text: text}
}

func Unintelligible() RecognizerStep {
	return RecognizerStep{Err: errorsx.New("speech not recognized", errorsx.ReasonUnintelligible)}
}

func ServiceDown(msg string) RecognizerStep {
	return RecognizerStep{Err: errorsx.New(msg, errorsx.ReasonServiceUnavailable)}
}

// Recognizer replays scripted transcripts in order.
type Recognizer struct {
	mu    sync.Mutex
	steps []RecognizerStep
	idx   int
}

func NewRecognizer(steps ...RecognizerStep) *Recognizer {
	return &Recognizer{steps: steps}
}

func (r *Recognizer) Name() string { return "mock_recognizer" }

func (r *Recognizer) Recognize(ctx context.Context, seg audio.Segment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonInterrupted)
	}
	if r.idx >= len(r.steps) {
		return "", errorsx.New("no scripted transcript left", errorsx.ReasonUnintelligible)
	}
	step := r.steps[r.idx]
	r.idx++
	return step.Text, step.Err
}

var _ recognizer.Recognizer = (*Recognizer)(nil)
