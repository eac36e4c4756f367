package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/audio"
	"github.com/harunnryd/catat/pkg/errorsx"
)

// SourceStep scripts one Listen call.
type SourceStep struct {
	Segment audio.Segment
	Err     error
}

// Speech yields a small non-empty segment; pair it with a scripted
// recognizer transcript.
func Speech() SourceStep {
	return SourceStep{Segment: audio.Segment{
		Data:       make([]byte, 1600),
		Encoding:   audio.EncodingMulaw,
		SampleRate: 8000,
		Channels:   1,
	}}
}

// Timeout yields the no-speech path.
func Timeout() SourceStep {
	return SourceStep{Err: errorsx.New("no speech before timeout", errorsx.ReasonListenTimeout)}
}

// DeviceFailure yields a fatal source error.
func DeviceFailure(msg string) SourceStep {
	return SourceStep{Err: errorsx.New(msg, errorsx.ReasonDeviceFailure)}
}

// Source replays scripted listen steps. Once the script is exhausted it
// reports a device failure so a loop driven by it terminates.
type Source struct {
	mu     sync.Mutex
	steps  []SourceStep
	idx    int
	opened bool
}

func NewSource(steps ...SourceStep) *Source {
	return &Source{steps: steps}
}

func (s *Source) Name() string { return "mock_source" }

func (s *Source) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	return nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	return nil
}

func (s *Source) Listen(ctx context.Context) (audio.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return audio.Segment{}, errorsx.New("source not open", errorsx.ReasonDeviceFailure)
	}
	if err := ctx.Err(); err != nil {
		return audio.Segment{}, errorsx.Wrap(err, errorsx.ReasonInterrupted)
	}
	if s.idx >= len(s.steps) {
		return audio.Segment{}, errorsx.New("script exhausted", errorsx.ReasonDeviceFailure)
	}
	step := s.steps[s.idx]
	s.idx++
	return step.Segment, step.Err
}

var _ source.Source = (*Source)(nil)
