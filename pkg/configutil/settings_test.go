package configutil

import "testing"

func TestDecodeSettingsMatchesLooseKeys(t *testing.T) {
	var out struct {
		APIKey     string `mapstructure:"api_key"`
		SampleRate int    `mapstructure:"sample_rate"`
		Interim    *bool  `mapstructure:"interim"`
	}
	in := map[string]any{
		"API-Key":    "secret",
		"samplerate": "8000",
		"interim":    true,
	}
	if err := DecodeSettings(in, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.APIKey != "secret" || out.SampleRate != 8000 {
		t.Fatalf("unexpected decode result: %+v", out)
	}
	if !BoolValue(out.Interim, false) {
		t.Fatalf("expected interim true")
	}
}

func TestValidateSettings(t *testing.T) {
	schema := Schema{Required: []string{"api_key"}, Optional: []string{"model"}}
	if err := ValidateSettings(map[string]any{"api_key": "x", "model": "nova"}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateSettings(map[string]any{"model": "nova"}, schema); err == nil {
		t.Fatalf("expected missing api_key")
	}
	if err := ValidateSettings(map[string]any{"api_key": "x", "bogus": 1}, schema); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
