package deepgram

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/harunnryd/catat/pkg/adapters/recognizer"
	"github.com/harunnryd/catat/pkg/audio"
	"github.com/harunnryd/catat/pkg/errorsx"
	"github.com/harunnryd/catat/pkg/logging"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Recognizer transcribes one captured segment per call through Deepgram's
// prerecorded REST endpoint. One attempt per call; retry is the caller's
// decision and is not performed here.
type Recognizer struct {
	cfg    Config
	dg     *api.Client
	logger *slog.Logger
}

func New(cfg Config) *Recognizer {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	c := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &Recognizer{
		cfg:    cfg,
		dg:     api.New(c),
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_recognizer"),
	}
}

func (r *Recognizer) Name() string { return "deepgram_prerecorded" }

func (r *Recognizer) Recognize(ctx context.Context, seg audio.Segment) (string, error) {
	if seg.Empty() {
		return "", errorsx.New("empty segment", errorsx.ReasonUnintelligible)
	}
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       r.cfg.Model,
		Language:    r.cfg.Language,
		SmartFormat: true,
		Encoding:    string(seg.Encoding),
		SampleRate:  seg.SampleRate,
	}

	res, err := r.dg.FromStream(ctx, bytes.NewReader(seg.Data), options)
	if err != nil {
		r.logger.Error("deepgram_request_failed", "error", err.Error())
		return "", errorsx.Wrap(err, errorsx.ReasonServiceUnavailable)
	}
	if res == nil || len(res.Results.Channels) == 0 {
		return "", errorsx.New("no channels in response", errorsx.ReasonUnintelligible)
	}
	alts := res.Results.Channels[0].Alternatives
	if len(alts) == 0 {
		return "", errorsx.New("no alternatives in response", errorsx.ReasonUnintelligible)
	}
	text := strings.TrimSpace(alts[0].Transcript)
	if text == "" {
		return "", errorsx.New("speech not recognized", errorsx.ReasonUnintelligible)
	}
	r.logger.Debug("transcript_received",
		slog.Int("chars", len(text)),
		slog.Float64("confidence", alts[0].Confidence))
	return text, nil
}

var _ recognizer.Recognizer = (*Recognizer)(nil)
