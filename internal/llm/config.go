package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is a named, user-created parameter set for one provider. At most
// one config may have IsDefault=true across all providers; SaveConfig and
// SetDefaultConfig enforce the invariant.
type Config struct {
	ID               string       `json:"id"` // UUID
	Name             string       `json:"name"`
	Provider         ProviderID   `json:"provider"`
	ModelID          string       `json:"modelId"`
	ModelName        string       `json:"modelName,omitempty"`
	Temperature      float64      `json:"temperature"`
	TopP             float64      `json:"topP"`
	FrequencyPenalty float64      `json:"frequencyPenalty"`
	PresencePenalty  float64      `json:"presencePenalty"`
	MaxTokens        int          `json:"maxTokens"`
	SystemMessage    string       `json:"systemMessage,omitempty"`
	IsDefault        bool         `json:"isDefault"`
	APIKey           string       `json:"apiKey,omitempty"`
	BaseURL          string       `json:"baseUrl,omitempty"`
	Proxy            *ProxyConfig `json:"proxy,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Validate checks the fields a config cannot do without.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("config name is required")
	}
	if strings.TrimSpace(string(c.Provider)) == "" {
		return errors.New("config provider is required")
	}
	if strings.TrimSpace(c.ModelID) == "" {
		return errors.New("config model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %g", c.Temperature)
	}
	if c.Proxy != nil {
		if err := c.Proxy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveBaseURL returns the config's explicit endpoint or the
// provider's default.
func (c *Config) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return BaseURL(c.Provider)
}
