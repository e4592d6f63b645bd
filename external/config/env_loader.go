package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/kakitori/internal/config"
)

type clientEnvConfig struct {
	Env               string `env:"ENV" envDefault:"production"`
	ServiceURL        string `env:"SERVICE_URL" envDefault:"http://127.0.0.1:6431"`
	Language          string `env:"TRANSCRIBE_LANGUAGE" envDefault:"en"`
	Model             string `env:"TRANSCRIBE_MODEL" envDefault:"turbo"`
	Prompt            string `env:"TRANSCRIBE_PROMPT"`
	Delivery          string `env:"DELIVERY" envDefault:"clipboard"`
	SampleRate        int    `env:"SAMPLE_RATE" envDefault:"16000"`
	RequestTimeoutSec int    `env:"REQUEST_TIMEOUT_SEC" envDefault:"120"`
	TempDir           string `env:"TEMP_DIR"`
	ToggleHotkey      string `env:"TOGGLE_HOTKEY" envDefault:"alt+q"`
	ExitHotkey        string `env:"EXIT_HOTKEY" envDefault:"alt+esc"`
	LanguageHotkeys   string `env:"LANGUAGE_HOTKEYS"`
}

type serverEnvConfig struct {
	Env          string `env:"ENV" envDefault:"production"`
	Host         string `env:"HOST" envDefault:"0.0.0.0"`
	Port         int    `env:"PORT" envDefault:"6431"`
	DefaultModel string `env:"DEFAULT_MODEL" envDefault:"turbo"`
	ModelsDir    string `env:"MODELS_DIR,required"`
	MaxUploadMB  int    `env:"MAX_UPLOAD_MB" envDefault:"64"`
	TempDir      string `env:"TEMP_DIR"`
}

func LoadClient() (*internalconfig.ClientConfig, error) {
	var raw clientEnvConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.ClientConfig{
		Env:               raw.Env,
		ServiceURL:        raw.ServiceURL,
		Language:          raw.Language,
		Model:             raw.Model,
		Prompt:            raw.Prompt,
		Delivery:          raw.Delivery,
		SampleRate:        raw.SampleRate,
		RequestTimeoutSec: raw.RequestTimeoutSec,
		TempDir:           raw.TempDir,
		ToggleHotkey:      raw.ToggleHotkey,
		ExitHotkey:        raw.ExitHotkey,
		LanguageHotkeys:   raw.LanguageHotkeys,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadServer() (*internalconfig.ServerConfig, error) {
	var raw serverEnvConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.ServerConfig{
		Env:          raw.Env,
		Host:         raw.Host,
		Port:         raw.Port,
		DefaultModel: raw.DefaultModel,
		ModelsDir:    raw.ModelsDir,
		MaxUploadMB:  raw.MaxUploadMB,
		TempDir:      raw.TempDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
