// Package capture folds one audio-source listen plus one recognition attempt
// into a single outcome per iteration. Recoverable failures never escalate:
// they surface as an outcome and the next iteration proceeds. There is no
// retry here by contract.
package capture

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harunnryd/catat/pkg/adapters/recognizer"
	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/errorsx"
	"github.com/harunnryd/catat/pkg/eventlog"
	"github.com/harunnryd/catat/pkg/logging"
	"github.com/harunnryd/catat/pkg/metrics"
)

type Listener struct {
	src    source.Source
	rec    recognizer.Recognizer
	events *eventlog.Writer
	logger *slog.Logger
	obs    metrics.Observer
}

func NewListener(src source.Source, rec recognizer.Recognizer, events *eventlog.Writer) *Listener {
	return &Listener{
		src:    src,
		rec:    rec,
		events: events,
		logger: logging.NewComponentLogger(slog.Default(), "capture"),
		obs:    metrics.NoopObserver{},
	}
}

func (l *Listener) SetObserver(obs metrics.Observer) {
	if obs != nil {
		l.obs = obs
	}
}

// Next runs one capture iteration and reduces it to exactly one outcome.
// A listen cut short by context cancellation reads as no speech; the caller's
// own context check decides the exit path.
func (l *Listener) Next(ctx context.Context) Outcome {
	seg, err := l.src.Listen(ctx)
	if err != nil {
		switch errorsx.Reason(err) {
		case errorsx.ReasonListenTimeout:
			l.record("listen_timeout")
			return Outcome{Kind: KindNoSpeech}
		case errorsx.ReasonInterrupted:
			return Outcome{Kind: KindNoSpeech}
		default:
			l.record("device_error")
			return Outcome{Kind: KindDeviceError, Err: err}
		}
	}
	if ctx.Err() != nil {
		return Outcome{Kind: KindNoSpeech}
	}
	if seg.Empty() {
		l.record("listen_timeout")
		return Outcome{Kind: KindNoSpeech}
	}

	text, err := l.rec.Recognize(ctx, seg)
	if err != nil {
		if errorsx.HasReason(err, errorsx.ReasonUnintelligible) {
			l.record("unintelligible")
			return Outcome{Kind: KindUnintelligible, Err: err}
		}
		_ = l.events.Appendf(eventlog.LevelError, "Recognition service error: %v", err)
		l.logger.Error("recognition_service_error", "provider", l.rec.Name(), "error", err.Error())
		l.record("service_error")
		return Outcome{Kind: KindServiceError, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		l.record("unintelligible")
		return Outcome{Kind: KindUnintelligible}
	}

	_ = l.events.Appendf(eventlog.LevelDebug, "Recognized: %s", text)
	l.logger.Debug("utterance_recognized", "provider", l.rec.Name(), "chars", len(text))
	l.record("utterance")
	return Outcome{Kind: KindText, Text: text}
}

func (l *Listener) record(name string) {
	l.obs.RecordEvent(metrics.Event(name, map[string]string{
		"source":   l.src.Name(),
		"provider": l.rec.Name(),
	}))
}
