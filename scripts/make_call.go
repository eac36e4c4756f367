package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/harunnryd/catat/pkg/configutil"
	"github.com/harunnryd/catat/pkg/sources/twilio"
)

type sourceConfig struct {
	Vendors struct {
		Source struct {
			Provider string         `mapstructure:"provider"`
			Settings map[string]any `mapstructure:"settings"`
		} `mapstructure:"source"`
	} `mapstructure:"vendors"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "")
	from := flag.String("from", "", "")
	to := flag.String("to", "", "")
	voiceURL := flag.String("voice_url", "", "")
	flag.Parse()
	if *from == "" || *to == "" {
		fmt.Println("usage: make_call -from=+123 -to=+456 [-config=...]")
		os.Exit(1)
	}
	cfg, err := loadSourceConfig(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	var settings twilio.Config
	if err := configutil.DecodeSettings(cfg.Vendors.Source.Settings, &settings); err != nil {
		fmt.Println("settings error:", err)
		os.Exit(1)
	}
	dialer := twilio.NewDialer(settings)
	callSID, err := dialer.Dial(context.Background(), *to, *from, *voiceURL)
	if err != nil {
		fmt.Println("call error:", err)
		os.Exit(1)
	}
	fmt.Println("call_sid:", callSID)
}

func loadSourceConfig(path string) (sourceConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return sourceConfig{}, err
	}
	var cfg sourceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return sourceConfig{}, err
	}
	return cfg, nil
}
