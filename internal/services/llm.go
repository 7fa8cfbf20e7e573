package services

import (
	"context"
	"sync"

	"personahub/internal/ipc"
	"personahub/internal/llm"
	"personahub/internal/logger"
)

// LLMService wraps the llm:* channels. List-shaped reads (configs,
// templates, models, proxy) are cached until a write on the same family
// invalidates them, since the settings screens re-request them constantly.
type LLMService struct {
	bridge *ipc.Bridge
	log    *logger.Logger

	mu        sync.Mutex
	configs   []llm.Config
	templates []llm.PromptTemplate
	models    map[llm.ProviderID][]llm.ModelConfig
	proxy     *llm.ProxyConfig
}

// NewLLMService returns an LLM façade over the bridge.
func NewLLMService(bridge *ipc.Bridge, log *logger.Logger) *LLMService {
	return &LLMService{bridge: bridge, log: log, models: map[llm.ProviderID][]llm.ModelConfig{}}
}

// ClearCache drops every cached read. Event handlers call this when the
// backend pushes a config change.
func (s *LLMService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = nil
	s.templates = nil
	s.models = map[llm.ProviderID][]llm.ModelConfig{}
	s.proxy = nil
}

func (s *LLMService) invalidateConfigs() {
	s.mu.Lock()
	s.configs = nil
	s.mu.Unlock()
}

func (s *LLMService) invalidateTemplates() {
	s.mu.Lock()
	s.templates = nil
	s.mu.Unlock()
}

func (s *LLMService) invalidateModels() {
	s.mu.Lock()
	s.models = map[llm.ProviderID][]llm.ModelConfig{}
	s.mu.Unlock()
}

// --- providers ---

// GetProviders returns the selectable provider list, empty on failure.
// Config writes can surface a provider outside the built-in set, so this
// read is not cached.
func (s *LLMService) GetProviders(ctx context.Context) []*llm.Provider {
	providers, err := ipc.Call[[]*llm.Provider](ctx, s.bridge, ipc.ChannelLLMGetProviders, nil)
	if err != nil {
		s.log.Warn("[LLM] getProviders: %v", err)
		return []*llm.Provider{}
	}
	return providers
}

// --- configs ---

// GetAllConfigs returns every provider config, empty on failure.
func (s *LLMService) GetAllConfigs(ctx context.Context) []llm.Config {
	s.mu.Lock()
	if s.configs != nil {
		cached := s.configs
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	configs, err := ipc.Call[[]llm.Config](ctx, s.bridge, ipc.ChannelLLMGetAllConfigs, nil)
	if err != nil {
		s.log.Warn("[LLM] getAllConfigs: %v", err)
		return []llm.Config{}
	}
	s.mu.Lock()
	s.configs = configs
	s.mu.Unlock()
	return configs
}

// GetConfig returns one config, nil when missing.
func (s *LLMService) GetConfig(ctx context.Context, id string) *llm.Config {
	cfg, err := ipc.Call[*llm.Config](ctx, s.bridge, ipc.ChannelLLMGetConfig,
		map[string]any{"id": id})
	if err != nil {
		s.log.Warn("[LLM] getConfig %s: %v", id, err)
		return nil
	}
	return cfg
}

// SaveConfig stores a config and invalidates the config cache.
func (s *LLMService) SaveConfig(ctx context.Context, cfg *llm.Config) (*llm.Config, error) {
	saved, err := ipc.Call[*llm.Config](ctx, s.bridge, ipc.ChannelLLMSaveConfig, cfg)
	if err != nil {
		return nil, err
	}
	s.invalidateConfigs()
	return saved, nil
}

// DeleteConfig removes a config and invalidates the config cache.
func (s *LLMService) DeleteConfig(ctx context.Context, id string) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMDeleteConfig, map[string]any{"id": id}); err != nil {
		return err
	}
	s.invalidateConfigs()
	return nil
}

// SetDefaultConfig marks a config as default and invalidates the cache.
func (s *LLMService) SetDefaultConfig(ctx context.Context, id string) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMSetDefaultConfig, map[string]any{"id": id}); err != nil {
		return err
	}
	s.invalidateConfigs()
	return nil
}

// --- queries ---

// Query sends a free-form prompt through the selected config.
func (s *LLMService) Query(ctx context.Context, configID, prompt string) (*llm.ChatResult, error) {
	return ipc.Call[*llm.ChatResult](ctx, s.bridge, ipc.ChannelLLMQuery,
		map[string]any{"configId": configID, "prompt": prompt})
}

// QueryWithTemplate renders a stored template and sends it.
func (s *LLMService) QueryWithTemplate(ctx context.Context, configID, templateID string, values map[string]string) (*llm.ChatResult, error) {
	return ipc.Call[*llm.ChatResult](ctx, s.bridge, ipc.ChannelLLMQueryWithTemplate,
		map[string]any{"configId": configID, "templateId": templateID, "values": values})
}

// --- templates ---

// GetTemplates returns every prompt template, empty on failure.
func (s *LLMService) GetTemplates(ctx context.Context) []llm.PromptTemplate {
	s.mu.Lock()
	if s.templates != nil {
		cached := s.templates
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	templates, err := ipc.Call[[]llm.PromptTemplate](ctx, s.bridge, ipc.ChannelLLMGetAllTemplates, nil)
	if err != nil {
		s.log.Warn("[LLM] getAllTemplates: %v", err)
		return []llm.PromptTemplate{}
	}
	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return templates
}

// SaveTemplate stores a template and invalidates the template cache.
func (s *LLMService) SaveTemplate(ctx context.Context, tpl *llm.PromptTemplate) (*llm.PromptTemplate, error) {
	saved, err := ipc.Call[*llm.PromptTemplate](ctx, s.bridge, ipc.ChannelLLMSaveTemplate, tpl)
	if err != nil {
		return nil, err
	}
	s.invalidateTemplates()
	return saved, nil
}

// DeleteTemplate removes a template and invalidates the template cache.
func (s *LLMService) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMDeleteTemplate, map[string]any{"id": id}); err != nil {
		return err
	}
	s.invalidateTemplates()
	return nil
}

// --- API keys ---

// SetAPIKey stores a provider key.
func (s *LLMService) SetAPIKey(ctx context.Context, provider llm.ProviderID, key string) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelLLMSetAPIKey,
		map[string]any{"provider": provider, "key": key})
	return err
}

// GetMaskedAPIKey returns the display form of a provider key and whether
// one is stored.
func (s *LLMService) GetMaskedAPIKey(ctx context.Context, provider llm.ProviderID) (masked string, hasKey bool) {
	data, err := ipc.Call[map[string]any](ctx, s.bridge, ipc.ChannelLLMGetAPIKey,
		map[string]any{"provider": provider})
	if err != nil {
		s.log.Warn("[LLM] getApiKey %s: %v", provider, err)
		return "", false
	}
	masked, _ = data["masked"].(string)
	hasKey, _ = data["hasKey"].(bool)
	return masked, hasKey
}

// TestAPIKey probes the provider with the given key.
func (s *LLMService) TestAPIKey(ctx context.Context, provider llm.ProviderID, key string) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelLLMTestAPIKey,
		map[string]any{"provider": provider, "key": key})
	return err
}

// --- models ---

// GetAvailableModels returns a provider's model list, empty on failure.
func (s *LLMService) GetAvailableModels(ctx context.Context, provider llm.ProviderID) []llm.ModelConfig {
	s.mu.Lock()
	if cached, ok := s.models[provider]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	models, err := ipc.Call[[]llm.ModelConfig](ctx, s.bridge, ipc.ChannelLLMGetAvailableModels,
		map[string]any{"provider": provider})
	if err != nil {
		s.log.Warn("[LLM] getAvailableModels %s: %v", provider, err)
		return []llm.ModelConfig{}
	}
	s.mu.Lock()
	s.models[provider] = models
	s.mu.Unlock()
	return models
}

// AddCustomModel stores a user-defined model and invalidates the model cache.
func (s *LLMService) AddCustomModel(ctx context.Context, model llm.ModelConfig) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMAddCustomModel, model); err != nil {
		return err
	}
	s.invalidateModels()
	return nil
}

// DeleteCustomModel removes a user-defined model and invalidates the cache.
func (s *LLMService) DeleteCustomModel(ctx context.Context, provider llm.ProviderID, modelID string) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMDeleteCustomModel,
		map[string]any{"provider": provider, "modelId": modelID}); err != nil {
		return err
	}
	s.invalidateModels()
	return nil
}

// SetActiveModel records the provider/model pair the UI runs with.
func (s *LLMService) SetActiveModel(ctx context.Context, provider llm.ProviderID, modelID string) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelLLMSetActiveModel,
		map[string]any{"provider": provider, "modelId": modelID})
	return err
}

// --- proxy ---

// GetGlobalProxy returns the global proxy settings, disabled on failure.
func (s *LLMService) GetGlobalProxy(ctx context.Context) *llm.ProxyConfig {
	s.mu.Lock()
	if s.proxy != nil {
		cached := s.proxy
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	proxy, err := ipc.Call[*llm.ProxyConfig](ctx, s.bridge, ipc.ChannelLLMGetGlobalProxy, nil)
	if err != nil {
		s.log.Warn("[LLM] getGlobalProxy: %v", err)
		return &llm.ProxyConfig{Enabled: false}
	}
	s.mu.Lock()
	s.proxy = proxy
	s.mu.Unlock()
	return proxy
}

// SetGlobalProxy stores the global proxy settings.
func (s *LLMService) SetGlobalProxy(ctx context.Context, proxy *llm.ProxyConfig) error {
	if _, err := s.bridge.Invoke(ctx, ipc.ChannelLLMSetGlobalProxy, proxy); err != nil {
		return err
	}
	s.mu.Lock()
	s.proxy = nil
	s.mu.Unlock()
	return nil
}

// TestProxy checks the proxy settings against the network.
func (s *LLMService) TestProxy(ctx context.Context, proxy *llm.ProxyConfig) error {
	_, err := s.bridge.Invoke(ctx, ipc.ChannelLLMTestProxy, proxy)
	return err
}
