package catat

import (
	"context"
	"log/slog"
	"os"

	"github.com/harunnryd/catat/pkg/adapters/recognizer"
	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/capture"
	"github.com/harunnryd/catat/pkg/eventlog"
	"github.com/harunnryd/catat/pkg/logging"
	"github.com/harunnryd/catat/pkg/metrics"
	"github.com/harunnryd/catat/pkg/observers"
	"github.com/harunnryd/catat/pkg/redact"
	"github.com/harunnryd/catat/pkg/session"
)

// App is the assembled program: one source, one recognizer, one controller,
// one event log. Run drives the capture loop until a stop trigger, an
// interrupt or a device failure ends it.
type App struct {
	cfg        Config
	src        source.Source
	rec        recognizer.Recognizer
	events     *eventlog.Writer
	listener   *capture.Listener
	controller *session.Controller
	classifier session.Classifier
	logger     *slog.Logger

	async       *metrics.AsyncObserver
	metricsFile *os.File
}

// New builds the app from config using the default provider registry.
func New(cfg Config) (*App, error) {
	registry := DefaultProviderRegistry()
	src, err := registry.BuildSource(cfg.Vendors.Source.Provider, cfg)
	if err != nil {
		return nil, err
	}
	rec, err := registry.BuildRecognizer(cfg.Vendors.Recognizer.Provider, cfg)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, src, rec)
}

// NewApp wires the app around explicit adapters; tests inject mocks here.
func NewApp(cfg Config, src source.Source, rec recognizer.Recognizer) (*App, error) {
	redact.SetEnabled(cfg.Privacy.RedactPII)

	classifier := session.NewClassifier(cfg.Triggers.Start, cfg.Triggers.Stop)
	events := eventlog.New(cfg.EventLog)
	a := &App{
		cfg:        cfg,
		src:        src,
		rec:        rec,
		events:     events,
		listener:   capture.NewListener(src, rec, events),
		controller: session.NewController(classifier),
		classifier: classifier,
		logger:     logging.NewComponentLogger(slog.Default(), "app"),
	}

	obs := []metrics.Observer{observers.NewLoggerObserver(a.logger)}
	if cfg.Observability.MetricsPath != "" {
		f, err := os.OpenFile(cfg.Observability.MetricsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		a.metricsFile = f
		obs = append(obs, metrics.NewJSONLObserver(f))
	}
	a.async = metrics.NewAsyncObserver(observers.NewMultiObserver(obs...), cfg.Observability.AsyncBuffer)
	a.listener.SetObserver(a.async)
	return a, nil
}

func (a *App) Controller() *session.Controller { return a.controller }
func (a *App) Events() *eventlog.Writer        { return a.events }

// Run executes the capture loop. The closing event is written on every exit
// path, normal or abnormal.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		_ = a.events.Append(eventlog.LevelInfo, "Program closed.")
	}()

	_ = a.events.Append(eventlog.LevelInfo, "Program started.")
	a.logger.Info("awaiting_trigger",
		"start", a.classifier.StartTrigger(),
		"stop", a.classifier.StopTrigger(),
		"source", a.src.Name(),
		"recognizer", a.rec.Name())

	if err := a.src.Open(ctx); err != nil {
		_ = a.events.Appendf(eventlog.LevelError, "Microphone error: %v", err)
		a.logger.Error("source_open_failed", "error", err.Error())
		return err
	}
	defer func() {
		_ = a.src.Close()
	}()

	for {
		if ctx.Err() != nil {
			_ = a.events.Append(eventlog.LevelInfo, "Program interrupted manually.")
			a.logger.Info("interrupted")
			return nil
		}

		out := a.listener.Next(ctx)
		switch out.Kind {
		case capture.KindDeviceError:
			_ = a.events.Appendf(eventlog.LevelError, "Microphone error: %v", out.Err)
			a.logger.Error("device_error", "error", out.Err.Error())
			return out.Err
		case capture.KindNoSpeech:
			a.logger.Debug("no_speech")
		case capture.KindUnintelligible:
			a.logger.Debug("speech_not_recognized")
		case capture.KindServiceError:
			// Already logged by the listener; the loop keeps going.
		case capture.KindText:
			if exit := a.apply(out.Text); exit {
				return nil
			}
		}
	}
}

// apply folds one recognized utterance into the controller and mirrors the
// transitions into the event log.
func (a *App) apply(text string) bool {
	res := a.controller.Handle(text)
	switch {
	case res.Started:
		_ = a.events.Append(eventlog.LevelInfo, "Recording started.")
		a.logger.Info("recording_started", "session_id", a.controller.Session().ID)
		a.async.RecordEvent(metrics.Event("session_started", nil))
	case res.Stopped:
		_ = a.events.Append(eventlog.LevelInfo, "Recording stopped. Text: "+res.Transcript)
		_ = a.events.Append(eventlog.LevelInfo, "Program finished by user command.")
		a.logger.Info("recording_stopped", "chars", len(res.Transcript))
		a.async.RecordEvent(metrics.Event("session_stopped", nil))
	case res.StoppedIdle:
		_ = a.events.Append(eventlog.LevelInfo, "Stop phrase detected but recording was not active.")
		_ = a.events.Append(eventlog.LevelInfo, "Program finished by user command.")
		a.logger.Info("stop_while_idle")
	case res.Buffered:
		a.logger.Debug("utterance_buffered", "utterances", a.controller.Session().Len())
	}
	return res.Exit
}

// Drain flushes the metrics pipeline; it satisfies runner.Drainer.
func (a *App) Drain() error {
	if a.async != nil {
		a.async.Close()
	}
	if a.metricsFile != nil {
		return a.metricsFile.Close()
	}
	return nil
}
