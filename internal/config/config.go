package config

import (
	"fmt"
	"net/url"
)

const (
	DeliveryClipboard = "clipboard"
	DeliveryType      = "type"
)

// ClientConfig configures the dictation client binary.
type ClientConfig struct {
	Env               string
	ServiceURL        string
	Language          string
	Model             string
	Prompt            string
	Delivery          string
	SampleRate        int
	RequestTimeoutSec int
	TempDir           string
	ToggleHotkey      string
	ExitHotkey        string
	LanguageHotkeys   string
}

func (c *ClientConfig) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if _, err := url.ParseRequestURI(c.ServiceURL); err != nil {
		return fmt.Errorf("SERVICE_URL is invalid: %w", err)
	}
	if c.Delivery != DeliveryClipboard && c.Delivery != DeliveryType {
		return fmt.Errorf("DELIVERY must be %q or %q, got %q", DeliveryClipboard, DeliveryType, c.Delivery)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SEC must be positive, got %d", c.RequestTimeoutSec)
	}
	return nil
}

func (c *ClientConfig) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "SERVICE_URL", value: c.ServiceURL},
		{name: "TRANSCRIBE_LANGUAGE", value: c.Language},
		{name: "TRANSCRIBE_MODEL", value: c.Model},
		{name: "DELIVERY", value: c.Delivery},
	}
}

func (c *ClientConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerConfig configures the transcription service binary.
type ServerConfig struct {
	Env          string
	Host         string
	Port         int
	DefaultModel string
	ModelsDir    string
	MaxUploadMB  int
	TempDir      string
}

func (c *ServerConfig) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

func (c *ServerConfig) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "MODELS_DIR", value: c.ModelsDir},
		{name: "DEFAULT_MODEL", value: c.DefaultModel},
	}
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type requiredEnvField struct {
	name  string
	value string
}
