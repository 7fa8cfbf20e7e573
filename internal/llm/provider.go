// Package llm implements the LLM provider layer: the provider registry,
// per-provider model catalogs, named parameter configs, prompt templates,
// api-key and proxy management, and the chat client used by the hexagon
// personality analysis.
package llm

// ProviderID identifies one supported LLM vendor. The set is closed; new
// providers are added here, not at runtime.
type ProviderID string

const (
	ProviderOpenAI      ProviderID = "openai"
	ProviderAnthropic   ProviderID = "anthropic"
	ProviderBaidu       ProviderID = "baidu"
	ProviderAzure       ProviderID = "azure"
	ProviderGemini      ProviderID = "gemini"
	ProviderOllama      ProviderID = "ollama"
	ProviderLocal       ProviderID = "local"
	ProviderDeepSeek    ProviderID = "deepseek"
	ProviderSiliconFlow ProviderID = "siliconflow"
	ProviderOpenRouter  ProviderID = "openrouter"
)

// Provider describes one vendor for display and selection.
type Provider struct {
	ID        ProviderID `json:"id"`
	Name      string     `json:"name"`
	IsDefault bool       `json:"isDefault"`
}

var providerNames = map[ProviderID]string{
	ProviderOpenAI:      "OpenAI",
	ProviderAnthropic:   "Anthropic",
	ProviderBaidu:       "Baidu",
	ProviderAzure:       "Azure OpenAI",
	ProviderGemini:      "Google Gemini",
	ProviderOllama:      "Ollama",
	ProviderLocal:       "Local",
	ProviderDeepSeek:    "DeepSeek",
	ProviderSiliconFlow: "SiliconFlow",
	ProviderOpenRouter:  "OpenRouter",
}

// providerOrder fixes the display order of the built-in provider list.
var providerOrder = []ProviderID{
	ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderDeepSeek,
	ProviderAzure, ProviderBaidu, ProviderSiliconFlow, ProviderOpenRouter,
	ProviderOllama, ProviderLocal,
}

// KnownProvider reports whether id belongs to the built-in enum.
func KnownProvider(id ProviderID) bool {
	_, ok := providerNames[id]
	return ok
}

// ProviderName returns the display name for a provider, falling back to the
// raw id for providers outside the enum (configs may reference one).
func ProviderName(id ProviderID) string {
	if name, ok := providerNames[id]; ok {
		return name
	}
	return string(id)
}

// Providers returns the built-in provider list in display order, followed
// by any extra ids not in the enum, marking defaultID as the default.
// Saved configs may reference a provider outside the enum; passing those
// ids as extras keeps them selectable.
func Providers(defaultID ProviderID, extras ...ProviderID) []*Provider {
	out := make([]*Provider, 0, len(providerOrder)+len(extras))
	seen := make(map[ProviderID]bool, len(providerOrder))
	for _, id := range providerOrder {
		seen[id] = true
		out = append(out, &Provider{
			ID:        id,
			Name:      providerNames[id],
			IsDefault: id == defaultID,
		})
	}
	for _, id := range extras {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &Provider{
			ID:        id,
			Name:      ProviderName(id),
			IsDefault: id == defaultID,
		})
	}
	return out
}

// defaultBaseURLs maps each provider to its OpenAI-compatible API base.
// Gemini is absent because it goes through the genai SDK instead.
var defaultBaseURLs = map[ProviderID]string{
	ProviderOpenAI:      "https://api.openai.com/v1",
	ProviderAnthropic:   "https://api.anthropic.com/v1",
	ProviderBaidu:       "https://qianfan.baidubce.com/v2",
	ProviderAzure:       "",
	ProviderOllama:      "http://localhost:11434/v1",
	ProviderLocal:       "http://localhost:8000/v1",
	ProviderDeepSeek:    "https://api.deepseek.com/v1",
	ProviderSiliconFlow: "https://api.siliconflow.cn/v1",
	ProviderOpenRouter:  "https://openrouter.ai/api/v1",
}

// BaseURL returns the default API base for a provider, or "" when the
// provider needs an explicit endpoint (azure) or a dedicated SDK (gemini).
func BaseURL(id ProviderID) string {
	return defaultBaseURLs[id]
}
