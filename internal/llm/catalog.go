package llm

// ModelConfig describes one model a provider offers, either from the
// built-in catalog or added by the user.
type ModelConfig struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Provider           ProviderID `json:"provider,omitempty"`
	MaxTokens          int        `json:"maxTokens"`
	IsDefault          bool       `json:"isDefault,omitempty"`
	IsCustom           bool       `json:"isCustom,omitempty"`
	DefaultTemperature float64    `json:"defaultTemperature,omitempty"`
	CostPerInputToken  float64    `json:"costPerInputToken,omitempty"`
	CostPerOutputToken float64    `json:"costPerOutputToken,omitempty"`
}

// builtinCatalog is the static per-provider model list. The first entry of
// each provider is its default model.
var builtinCatalog = map[ProviderID][]ModelConfig{
	ProviderOpenAI: {
		{ID: "gpt-4o", Name: "GPT-4o", MaxTokens: 128000, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "gpt-4o-mini", Name: "GPT-4o mini", MaxTokens: 128000, DefaultTemperature: 0.7},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", MaxTokens: 128000, DefaultTemperature: 0.7},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", MaxTokens: 16385, DefaultTemperature: 0.7},
	},
	ProviderAnthropic: {
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", MaxTokens: 200000, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", MaxTokens: 200000, DefaultTemperature: 0.7},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", MaxTokens: 200000, DefaultTemperature: 0.7},
	},
	ProviderBaidu: {
		{ID: "ernie-4.0-8k", Name: "ERNIE 4.0", MaxTokens: 8192, IsDefault: true, DefaultTemperature: 0.8},
		{ID: "ernie-3.5-8k", Name: "ERNIE 3.5", MaxTokens: 8192, DefaultTemperature: 0.8},
	},
	ProviderAzure: {
		{ID: "gpt-4o", Name: "GPT-4o (Azure)", MaxTokens: 128000, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "gpt-35-turbo", Name: "GPT-3.5 Turbo (Azure)", MaxTokens: 16385, DefaultTemperature: 0.7},
	},
	ProviderGemini: {
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", MaxTokens: 1048576, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", MaxTokens: 1048576, DefaultTemperature: 0.7},
	},
	ProviderOllama: {
		{ID: "llama3.1", Name: "Llama 3.1", MaxTokens: 131072, IsDefault: true, DefaultTemperature: 0.8},
		{ID: "qwen2.5", Name: "Qwen 2.5", MaxTokens: 131072, DefaultTemperature: 0.8},
		{ID: "mistral", Name: "Mistral", MaxTokens: 32768, DefaultTemperature: 0.8},
	},
	ProviderLocal: {
		{ID: "local-default", Name: "Local model", MaxTokens: 32768, IsDefault: true, DefaultTemperature: 0.8},
	},
	ProviderDeepSeek: {
		{ID: "deepseek-chat", Name: "DeepSeek Chat", MaxTokens: 65536, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "deepseek-reasoner", Name: "DeepSeek Reasoner", MaxTokens: 65536, DefaultTemperature: 0.7},
	},
	ProviderSiliconFlow: {
		{ID: "Qwen/Qwen2.5-72B-Instruct", Name: "Qwen 2.5 72B", MaxTokens: 32768, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "deepseek-ai/DeepSeek-V3", Name: "DeepSeek V3", MaxTokens: 65536, DefaultTemperature: 0.7},
	},
	ProviderOpenRouter: {
		{ID: "openai/gpt-4o", Name: "GPT-4o (OpenRouter)", MaxTokens: 128000, IsDefault: true, DefaultTemperature: 0.7},
		{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet (OpenRouter)", MaxTokens: 200000, DefaultTemperature: 0.7},
	},
}

// Catalog returns the built-in models for a provider. The returned slice is
// a copy; callers may modify it.
func Catalog(id ProviderID) []ModelConfig {
	models := builtinCatalog[id]
	out := make([]ModelConfig, len(models))
	copy(out, models)
	for i := range out {
		out[i].Provider = id
	}
	return out
}

// DefaultModel returns the provider's default catalog entry, or nil when
// the provider has no catalog.
func DefaultModel(id ProviderID) *ModelConfig {
	for _, m := range Catalog(id) {
		if m.IsDefault {
			return &m
		}
	}
	if models := Catalog(id); len(models) > 0 {
		return &models[0]
	}
	return nil
}
