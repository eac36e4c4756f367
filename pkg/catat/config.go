// Package catat wires the capture loop, the session controller and the event
// log into one runnable program.
package catat

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/session"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	// EventLog is the flat append-only file that carries the program's
	// contractual event trail.
	EventLog      string              `mapstructure:"event_log"`
	Language      string              `mapstructure:"language"`
	Triggers      TriggersConfig      `mapstructure:"triggers"`
	Listen        ListenConfig        `mapstructure:"listen"`
	Energy        EnergyConfig        `mapstructure:"energy"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
}

type TriggersConfig struct {
	Start string `mapstructure:"start"`
	Stop  string `mapstructure:"stop"`
}

type ListenConfig struct {
	SilenceTimeoutMS int `mapstructure:"silence_timeout_ms"`
	MaxPhraseMS      int `mapstructure:"max_phrase_ms"`
	CalibrationMS    int `mapstructure:"calibration_ms"`
}

type EnergyConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Dynamic   bool    `mapstructure:"dynamic"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	Source     VendorConfig `mapstructure:"source"`
	Recognizer VendorConfig `mapstructure:"recognizer"`
}

type ObservabilityConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	AsyncBuffer int    `mapstructure:"async_buffer"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("event_log", "logs.txt")
	v.SetDefault("language", "en-US")
	v.SetDefault("triggers.start", session.DefaultStartTrigger)
	v.SetDefault("triggers.stop", session.DefaultStopTrigger)
	v.SetDefault("listen.silence_timeout_ms", 5000)
	v.SetDefault("listen.max_phrase_ms", 10000)
	v.SetDefault("listen.calibration_ms", 1000)
	v.SetDefault("energy.threshold", 300)
	v.SetDefault("energy.dynamic", true)
	v.SetDefault("observability.metrics_path", "")
	v.SetDefault("observability.async_buffer", 256)
	v.SetDefault("privacy.redact_pii", false)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.EventLog) == "" {
		return fmt.Errorf("event_log is required")
	}
	if strings.TrimSpace(c.Vendors.Source.Provider) == "" {
		return fmt.Errorf("vendors.source.provider is required")
	}
	if strings.TrimSpace(c.Vendors.Recognizer.Provider) == "" {
		return fmt.Errorf("vendors.recognizer.provider is required")
	}
	return nil
}

// ListenBounds maps the millisecond config knobs onto the source contract.
func (c Config) ListenBounds() source.Config {
	return source.Config{
		SilenceTimeout:  time.Duration(c.Listen.SilenceTimeoutMS) * time.Millisecond,
		MaxPhrase:       time.Duration(c.Listen.MaxPhraseMS) * time.Millisecond,
		EnergyThreshold: c.Energy.Threshold,
		DynamicEnergy:   c.Energy.Dynamic,
		Calibration:     time.Duration(c.Listen.CalibrationMS) * time.Millisecond,
	}.WithDefaults()
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.Source.Settings = expandSettings(cfg.Vendors.Source.Settings)
	cfg.Vendors.Recognizer.Settings = expandSettings(cfg.Vendors.Recognizer.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = expandAny(v)
		}
		return out
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && v.Type().Elem().Kind() == reflect.String {
			for _, key := range v.MapKeys() {
				val := v.MapIndex(key)
				expanded := os.ExpandEnv(val.String())
				v.SetMapIndex(key, reflect.ValueOf(expanded))
			}
		}
	}
}
