package llm

import (
	"fmt"
	"strings"
)

const maxMaskStars = 20

// MaskAPIKey hides the middle of a key for display, keeping the first and
// last four characters. Keys of eight characters or fewer are returned
// unchanged (there is no middle worth hiding).
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	stars := len(key) - 8
	if stars > maxMaskStars {
		stars = maxMaskStars
	}
	return key[:4] + strings.Repeat("*", stars) + key[len(key)-4:]
}

// apiKeyPrefixes lists the expected key prefix per provider, where the
// vendor uses one. Providers absent here accept any non-empty key.
var apiKeyPrefixes = map[ProviderID]string{
	ProviderOpenAI:      "sk-",
	ProviderAnthropic:   "sk-ant-",
	ProviderDeepSeek:    "sk-",
	ProviderSiliconFlow: "sk-",
	ProviderOpenRouter:  "sk-or-",
}

// ValidateAPIKeyFormat checks a key's shape for a provider without any
// network probe. Local providers (ollama, local) accept an empty key.
func ValidateAPIKeyFormat(provider ProviderID, key string) error {
	key = strings.TrimSpace(key)

	switch provider {
	case ProviderOllama, ProviderLocal:
		return nil
	}
	if key == "" {
		return fmt.Errorf("api key for %s is empty", ProviderName(provider))
	}
	if prefix, ok := apiKeyPrefixes[provider]; ok && !strings.HasPrefix(key, prefix) {
		return fmt.Errorf("api key for %s should start with %q", ProviderName(provider), prefix)
	}
	if len(key) < 12 {
		return fmt.Errorf("api key for %s looks too short", ProviderName(provider))
	}
	return nil
}
