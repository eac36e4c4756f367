package catat

import (
	"fmt"
	"strings"

	"github.com/harunnryd/catat/pkg/adapters/recognizer"
	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/configutil"
	"github.com/harunnryd/catat/pkg/providers/deepgram"
	"github.com/harunnryd/catat/pkg/providers/mock"
	"github.com/harunnryd/catat/pkg/sources/twilio"
)

type SourceFactory func(cfg Config) (source.Source, error)
type RecognizerFactory func(cfg Config) (recognizer.Recognizer, error)

// ProviderRegistry maps vendor names from config to adapter constructors.
type ProviderRegistry struct {
	sources     map[string]SourceFactory
	recognizers map[string]RecognizerFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		sources:     make(map[string]SourceFactory),
		recognizers: make(map[string]RecognizerFactory),
	}
}

func (r *ProviderRegistry) RegisterSource(name string, factory SourceFactory) {
	r.sources[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterRecognizer(name string, factory RecognizerFactory) {
	r.recognizers[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) BuildSource(provider string, cfg Config) (source.Source, error) {
	fn := r.sources[strings.ToLower(strings.TrimSpace(provider))]
	if fn == nil {
		return nil, fmt.Errorf("source provider not registered: %s", provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildRecognizer(provider string, cfg Config) (recognizer.Recognizer, error) {
	fn := r.recognizers[strings.ToLower(strings.TrimSpace(provider))]
	if fn == nil {
		return nil, fmt.Errorf("recognizer provider not registered: %s", provider)
	}
	return fn(cfg)
}

// DefaultProviderRegistry registers the built-in vendors.
func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.RegisterSource("twilio", buildTwilioSource)
	r.RegisterSource("mock", func(Config) (source.Source, error) {
		return mock.NewSource(), nil
	})
	r.RegisterRecognizer("deepgram", buildDeepgramRecognizer)
	r.RegisterRecognizer("mock", func(Config) (recognizer.Recognizer, error) {
		return mock.NewRecognizer(), nil
	})
	return r
}

func buildTwilioSource(cfg Config) (source.Source, error) {
	settings := cfg.Vendors.Source.Settings
	if err := configutil.ValidateSettings(settings, configutil.Schema{
		Optional: []string{
			"server_addr", "public_url", "account_sid", "auth_token",
			"voice_path", "ws_path", "voice_greeting",
			"allow_any_origin", "allowed_origins", "dial_to", "dial_from",
		},
	}); err != nil {
		return nil, fmt.Errorf("twilio settings: %w", err)
	}
	var tcfg twilio.Config
	if err := configutil.DecodeSettings(settings, &tcfg); err != nil {
		return nil, fmt.Errorf("twilio settings: %w", err)
	}
	return twilio.New(tcfg, cfg.ListenBounds()), nil
}

func buildDeepgramRecognizer(cfg Config) (recognizer.Recognizer, error) {
	settings := cfg.Vendors.Recognizer.Settings
	if err := configutil.ValidateSettings(settings, configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "language"},
	}); err != nil {
		return nil, fmt.Errorf("deepgram settings: %w", err)
	}
	var dcfg deepgram.Config
	if err := configutil.DecodeSettings(settings, &dcfg); err != nil {
		return nil, fmt.Errorf("deepgram settings: %w", err)
	}
	if dcfg.Language == "" {
		dcfg.Language = cfg.Language
	}
	if err := configutil.RequireString(dcfg.APIKey, "vendors.recognizer.settings.api_key"); err != nil {
		return nil, err
	}
	return deepgram.New(dcfg), nil
}
