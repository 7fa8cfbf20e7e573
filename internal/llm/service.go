package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"personahub/internal/config"
	"personahub/internal/logger"
)

// Names of the blobs the service keeps in the settings store.
const (
	dataConfigs      = "llmConfigs"
	dataTemplates    = "promptTemplates"
	dataAPIKeys      = "apiKeys"
	dataCustomModels = "customModels"
	dataGlobalProxy  = "globalProxy"
	dataActiveModel  = "activeModel"
)

// ErrConfigNotFound is returned when a config id has no stored entry.
var ErrConfigNotFound = errors.New("llm config not found")

// ErrTemplateNotFound is returned when a template id has no stored entry.
var ErrTemplateNotFound = errors.New("prompt template not found")

// Service manages provider configs, prompt templates, API keys, custom
// models and the global proxy. All state is persisted through the
// settings store so it survives restarts.
type Service struct {
	store *config.Store
	log   *logger.Logger
}

// NewService returns a Service backed by the given settings store.
func NewService(store *config.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// --- provider configs ---

func (s *Service) loadConfigs() ([]Config, error) {
	var configs []Config
	if _, err := s.store.GetData(dataConfigs, &configs); err != nil {
		return nil, fmt.Errorf("load llm configs: %w", err)
	}
	return configs, nil
}

// GetAllConfigs returns every stored config, default first, then by name.
func (s *Service) GetAllConfigs() ([]Config, error) {
	configs, err := s.loadConfigs()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(configs, func(i, j int) bool {
		if configs[i].IsDefault != configs[j].IsDefault {
			return configs[i].IsDefault
		}
		return configs[i].Name < configs[j].Name
	})
	return configs, nil
}

// GetProviders returns the provider list: the built-in enum merged with
// any provider a saved config references that the enum does not list. The
// default config's provider is marked as the default; with no configs the
// mark falls back to OpenAI.
func (s *Service) GetProviders() ([]*Provider, error) {
	configs, err := s.loadConfigs()
	if err != nil {
		return nil, err
	}
	defaultID := ProviderOpenAI
	if len(configs) > 0 {
		defaultID = configs[0].Provider
	}
	var extras []ProviderID
	for i := range configs {
		if configs[i].IsDefault {
			defaultID = configs[i].Provider
		}
		if !KnownProvider(configs[i].Provider) {
			extras = append(extras, configs[i].Provider)
		}
	}
	return Providers(defaultID, extras...), nil
}

// GetConfig returns the config with the given id.
func (s *Service) GetConfig(id string) (*Config, error) {
	configs, err := s.loadConfigs()
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].ID == id {
			return &configs[i], nil
		}
	}
	return nil, ErrConfigNotFound
}

// GetDefaultConfig returns the config marked as default, or the first
// stored config when none is marked. Returns ErrConfigNotFound when the
// store is empty.
func (s *Service) GetDefaultConfig() (*Config, error) {
	configs, err := s.loadConfigs()
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ErrConfigNotFound
	}
	for i := range configs {
		if configs[i].IsDefault {
			return &configs[i], nil
		}
	}
	return &configs[0], nil
}

// SaveConfig inserts or updates a config. A config marked default clears
// the flag on every other config, across providers. The first config
// ever saved becomes the default regardless of its flag.
func (s *Service) SaveConfig(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configs, err := s.loadConfigs()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	if len(configs) == 0 {
		cfg.IsDefault = true
	}

	updated := false
	for i := range configs {
		if configs[i].ID == cfg.ID {
			if cfg.CreatedAt.IsZero() {
				cfg.CreatedAt = configs[i].CreatedAt
			}
			configs[i] = *cfg
			updated = true
			break
		}
	}
	if !updated {
		configs = append(configs, *cfg)
	}
	if cfg.IsDefault {
		for i := range configs {
			if configs[i].ID != cfg.ID {
				configs[i].IsDefault = false
			}
		}
	}
	if err := s.store.SetData(dataConfigs, configs); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeleteConfig removes a config. Deleting the default promotes the first
// remaining config; deleting the last config leaves the store empty.
func (s *Service) DeleteConfig(id string) error {
	configs, err := s.loadConfigs()
	if err != nil {
		return err
	}
	idx := -1
	for i := range configs {
		if configs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrConfigNotFound
	}
	wasDefault := configs[idx].IsDefault
	configs = append(configs[:idx], configs[idx+1:]...)
	if wasDefault && len(configs) > 0 {
		configs[0].IsDefault = true
	}
	return s.store.SetData(dataConfigs, configs)
}

// SetDefaultConfig marks one config as the default and clears the flag
// everywhere else.
func (s *Service) SetDefaultConfig(id string) error {
	configs, err := s.loadConfigs()
	if err != nil {
		return err
	}
	found := false
	for i := range configs {
		if configs[i].ID == id {
			configs[i].IsDefault = true
			found = true
		} else {
			configs[i].IsDefault = false
		}
	}
	if !found {
		return ErrConfigNotFound
	}
	return s.store.SetData(dataConfigs, configs)
}

// --- prompt templates ---

func (s *Service) loadTemplates() ([]PromptTemplate, error) {
	var templates []PromptTemplate
	if _, err := s.store.GetData(dataTemplates, &templates); err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}
	return templates, nil
}

// GetTemplates returns all stored prompt templates sorted by name.
func (s *Service) GetTemplates() ([]PromptTemplate, error) {
	templates, err := s.loadTemplates()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

// GetTemplate returns the template with the given id.
func (s *Service) GetTemplate(id string) (*PromptTemplate, error) {
	templates, err := s.loadTemplates()
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// SaveTemplate inserts or updates a template. The Variables list is
// always regenerated from the content, never trusted from the caller.
func (s *Service) SaveTemplate(tpl *PromptTemplate) (*PromptTemplate, error) {
	if tpl == nil || strings.TrimSpace(tpl.Name) == "" {
		return nil, errors.New("template name is required")
	}
	if strings.TrimSpace(tpl.Content) == "" {
		return nil, errors.New("template content is required")
	}
	templates, err := s.loadTemplates()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now
	tpl.Variables = ExtractVariables(tpl.Content)

	updated := false
	for i := range templates {
		if templates[i].ID == tpl.ID {
			if tpl.CreatedAt.IsZero() {
				tpl.CreatedAt = templates[i].CreatedAt
			}
			templates[i] = *tpl
			updated = true
			break
		}
	}
	if !updated {
		templates = append(templates, *tpl)
	}
	if err := s.store.SetData(dataTemplates, templates); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate removes a template by id.
func (s *Service) DeleteTemplate(id string) error {
	templates, err := s.loadTemplates()
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID == id {
			templates = append(templates[:i], templates[i+1:]...)
			return s.store.SetData(dataTemplates, templates)
		}
	}
	return ErrTemplateNotFound
}

// RenderTemplateByID renders a stored template with the given values.
func (s *Service) RenderTemplateByID(id string, values map[string]string) (string, error) {
	tpl, err := s.GetTemplate(id)
	if err != nil {
		return "", err
	}
	return RenderTemplate(tpl.Content, values), nil
}

// --- API keys ---

func (s *Service) loadAPIKeys() (map[string]string, error) {
	keys := map[string]string{}
	if _, err := s.store.GetData(dataAPIKeys, &keys); err != nil {
		return nil, fmt.Errorf("load api keys: %w", err)
	}
	return keys, nil
}

// SetAPIKey stores the key for a provider after format validation. An
// empty key removes the entry.
func (s *Service) SetAPIKey(provider ProviderID, key string) error {
	if !KnownProvider(provider) {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	keys, err := s.loadAPIKeys()
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		delete(keys, string(provider))
		return s.store.SetData(dataAPIKeys, keys)
	}
	if err := ValidateAPIKeyFormat(provider, key); err != nil {
		return err
	}
	keys[string(provider)] = key
	return s.store.SetData(dataAPIKeys, keys)
}

// GetAPIKey returns the stored key for a provider, or "" when none is set.
func (s *Service) GetAPIKey(provider ProviderID) (string, error) {
	keys, err := s.loadAPIKeys()
	if err != nil {
		return "", err
	}
	return keys[string(provider)], nil
}

// GetMaskedAPIKeys returns every stored key masked for display.
func (s *Service) GetMaskedAPIKeys() (map[string]string, error) {
	keys, err := s.loadAPIKeys()
	if err != nil {
		return nil, err
	}
	masked := make(map[string]string, len(keys))
	for provider, key := range keys {
		masked[provider] = MaskAPIKey(key)
	}
	return masked, nil
}

// resolveAPIKey picks the key for a request: the config's own key wins,
// the provider-level key is the fallback.
func (s *Service) resolveAPIKey(cfg *Config) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	return s.GetAPIKey(cfg.Provider)
}

// --- models ---

func (s *Service) loadCustomModels() ([]ModelConfig, error) {
	var models []ModelConfig
	if _, err := s.store.GetData(dataCustomModels, &models); err != nil {
		return nil, fmt.Errorf("load custom models: %w", err)
	}
	return models, nil
}

// GetCustomModels returns every user-defined model across providers.
func (s *Service) GetCustomModels() ([]ModelConfig, error) {
	return s.loadCustomModels()
}

// GetAvailableModels returns the built-in catalog for a provider plus
// any user-added custom models for it.
func (s *Service) GetAvailableModels(provider ProviderID) ([]ModelConfig, error) {
	if !KnownProvider(provider) {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	models := Catalog(provider)
	custom, err := s.loadCustomModels()
	if err != nil {
		return nil, err
	}
	for _, m := range custom {
		if m.Provider == provider {
			models = append(models, m)
		}
	}
	return models, nil
}

// AddCustomModel stores a user-defined model for a provider. Replaces an
// existing custom model with the same id.
func (s *Service) AddCustomModel(model ModelConfig) error {
	if strings.TrimSpace(model.ID) == "" {
		return errors.New("model id is required")
	}
	if !KnownProvider(model.Provider) {
		return fmt.Errorf("unknown provider: %s", model.Provider)
	}
	model.IsCustom = true
	models, err := s.loadCustomModels()
	if err != nil {
		return err
	}
	for i := range models {
		if models[i].ID == model.ID && models[i].Provider == model.Provider {
			models[i] = model
			return s.store.SetData(dataCustomModels, models)
		}
	}
	models = append(models, model)
	return s.store.SetData(dataCustomModels, models)
}

// RemoveCustomModel deletes a user-defined model. Built-in catalog
// entries cannot be removed.
func (s *Service) RemoveCustomModel(provider ProviderID, id string) error {
	models, err := s.loadCustomModels()
	if err != nil {
		return err
	}
	for i := range models {
		if models[i].ID == id && models[i].Provider == provider {
			models = append(models[:i], models[i+1:]...)
			return s.store.SetData(dataCustomModels, models)
		}
	}
	return fmt.Errorf("custom model not found: %s", id)
}

// activeModelRef names the provider/model pair selected in the UI.
type activeModelRef struct {
	Provider ProviderID `json:"provider"`
	ModelID  string     `json:"modelId"`
}

// SetActiveModel records the provider/model pair the UI should use.
func (s *Service) SetActiveModel(provider ProviderID, modelID string) error {
	if !KnownProvider(provider) {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	if strings.TrimSpace(modelID) == "" {
		return errors.New("model id is required")
	}
	return s.store.SetData(dataActiveModel, activeModelRef{Provider: provider, ModelID: modelID})
}

// GetActiveModel returns the selected provider/model pair. When none was
// ever selected it falls back to the default config's model, then to the
// OpenAI default.
func (s *Service) GetActiveModel() (ProviderID, string, error) {
	var ref activeModelRef
	ok, err := s.store.GetData(dataActiveModel, &ref)
	if err != nil {
		return "", "", err
	}
	if ok && ref.ModelID != "" {
		return ref.Provider, ref.ModelID, nil
	}
	if cfg, err := s.GetDefaultConfig(); err == nil {
		return cfg.Provider, cfg.ModelID, nil
	}
	def := DefaultModel(ProviderOpenAI)
	return ProviderOpenAI, def.ID, nil
}

// --- global proxy ---

// GetGlobalProxy returns the stored global proxy, or a disabled proxy
// when none was configured.
func (s *Service) GetGlobalProxy() (*ProxyConfig, error) {
	var proxy ProxyConfig
	ok, err := s.store.GetData(dataGlobalProxy, &proxy)
	if err != nil {
		return nil, fmt.Errorf("load global proxy: %w", err)
	}
	if !ok {
		return &ProxyConfig{Enabled: false}, nil
	}
	return &proxy, nil
}

// SetGlobalProxy validates and stores the global proxy configuration.
func (s *Service) SetGlobalProxy(proxy *ProxyConfig) error {
	if proxy == nil {
		proxy = &ProxyConfig{Enabled: false}
	}
	if err := proxy.Validate(); err != nil {
		return err
	}
	return s.store.SetData(dataGlobalProxy, proxy)
}
