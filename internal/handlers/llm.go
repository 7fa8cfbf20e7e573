package handlers

import (
	"context"
	"errors"
	"fmt"

	"personahub/internal/ipc"
	"personahub/internal/llm"
)

type llmConfigIDRequest struct {
	ID string `json:"id"`
}

type llmQueryRequest struct {
	ConfigID string            `json:"configId,omitempty"`
	Prompt   string            `json:"prompt,omitempty"`
	Messages []llm.ChatMessage `json:"messages,omitempty"`
}

type llmTemplateQueryRequest struct {
	ConfigID   string            `json:"configId,omitempty"`
	TemplateID string            `json:"templateId"`
	Values     map[string]string `json:"values,omitempty"`
}

type llmAnalyzeRequest struct {
	ProfileID int64  `json:"profileId"`
	ConfigID  string `json:"configId,omitempty"`
}

type llmAPIKeyRequest struct {
	Provider llm.ProviderID `json:"provider"`
	Key      string         `json:"key,omitempty"`
}

type llmModelRequest struct {
	Provider llm.ProviderID `json:"provider"`
	ModelID  string         `json:"modelId,omitempty"`
}

// RegisterLLMHandlers wires the llm:* channels.
func RegisterLLMHandlers(reg *ipc.Registry, d Deps) {
	reg.Register(ipc.ChannelLLMGetProviders, func(_ context.Context, _ any) (any, error) {
		return d.LLM.GetProviders()
	})

	// Provider configs.
	reg.Register(ipc.ChannelLLMGetAllConfigs, func(_ context.Context, _ any) (any, error) {
		return d.LLM.GetAllConfigs()
	})

	reg.Register(ipc.ChannelLLMGetConfig, func(_ context.Context, payload any) (any, error) {
		var req llmConfigIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.LLM.GetConfig(req.ID)
	})

	reg.Register(ipc.ChannelLLMSaveConfig, func(_ context.Context, payload any) (any, error) {
		var cfg llm.Config
		if err := decode(payload, &cfg); err != nil {
			return nil, err
		}
		return d.LLM.SaveConfig(&cfg)
	})

	reg.Register(ipc.ChannelLLMDeleteConfig, func(_ context.Context, payload any) (any, error) {
		var req llmConfigIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.DeleteConfig(req.ID); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelLLMSetDefaultConfig, func(_ context.Context, payload any) (any, error) {
		var req llmConfigIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.SetDefaultConfig(req.ID); err != nil {
			return nil, err
		}
		return true, nil
	})

	// Queries.
	reg.Register(ipc.ChannelLLMQuery, func(ctx context.Context, payload any) (any, error) {
		var req llmQueryRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		messages := req.Messages
		if len(messages) == 0 && req.Prompt != "" {
			messages = []llm.ChatMessage{{Role: "user", Content: req.Prompt}}
		}
		return d.LLM.Query(ctx, req.ConfigID, messages)
	})

	reg.Register(ipc.ChannelLLMQueryWithTemplate, func(ctx context.Context, payload any) (any, error) {
		var req llmTemplateQueryRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		prompt, err := d.LLM.RenderTemplateByID(req.TemplateID, req.Values)
		if err != nil {
			return nil, err
		}
		return d.LLM.Query(ctx, req.ConfigID, []llm.ChatMessage{{Role: "user", Content: prompt}})
	})

	reg.Register(ipc.ChannelLLMAnalyzeHexagon, func(ctx context.Context, payload any) (any, error) {
		var req llmAnalyzeRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if req.ProfileID == 0 {
			return nil, errors.New("profile id is required")
		}
		result, err := d.Analyzer.AnalyzeProfile(ctx, req.ProfileID, req.ConfigID)
		if err != nil {
			return nil, err
		}
		if d.Events != nil {
			d.Events.Emit(ipc.EventAnalysisCompleted, map[string]any{
				"profileId":  req.ProfileID,
				"analysisId": result.Analysis.ID,
				"hexagonId":  result.Hexagon.ID,
			})
		}
		return result, nil
	})

	// Prompt templates.
	reg.Register(ipc.ChannelLLMGetAllTemplates, func(_ context.Context, _ any) (any, error) {
		return d.LLM.GetTemplates()
	})

	reg.Register(ipc.ChannelLLMGetTemplate, func(_ context.Context, payload any) (any, error) {
		var req llmConfigIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.LLM.GetTemplate(req.ID)
	})

	reg.Register(ipc.ChannelLLMSaveTemplate, func(_ context.Context, payload any) (any, error) {
		var tpl llm.PromptTemplate
		if err := decode(payload, &tpl); err != nil {
			return nil, err
		}
		return d.LLM.SaveTemplate(&tpl)
	})

	reg.Register(ipc.ChannelLLMDeleteTemplate, func(_ context.Context, payload any) (any, error) {
		var req llmConfigIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.DeleteTemplate(req.ID); err != nil {
			return nil, err
		}
		return true, nil
	})

	// API keys. Keys never leave the backend in the clear; getApiKey
	// returns the masked form for display.
	reg.Register(ipc.ChannelLLMGetAPIKey, func(_ context.Context, payload any) (any, error) {
		var req llmAPIKeyRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		key, err := d.LLM.GetAPIKey(req.Provider)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"provider": req.Provider,
			"masked":   llm.MaskAPIKey(key),
			"hasKey":   key != "",
		}, nil
	})

	reg.Register(ipc.ChannelLLMSetAPIKey, func(_ context.Context, payload any) (any, error) {
		var req llmAPIKeyRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.SetAPIKey(req.Provider, req.Key); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelLLMTestAPIKey, func(ctx context.Context, payload any) (any, error) {
		var req llmAPIKeyRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		model := llm.DefaultModel(req.Provider)
		if model == nil {
			return nil, fmt.Errorf("unknown provider: %s", req.Provider)
		}
		reply, err := d.LLM.TestConnection(ctx, &llm.Config{
			Name:     "connection test",
			Provider: req.Provider,
			ModelID:  model.ID,
			APIKey:   req.Key,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "reply": reply}, nil
	})

	// Models.
	reg.Register(ipc.ChannelLLMGetAvailableModels, func(_ context.Context, payload any) (any, error) {
		var req llmModelRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return d.LLM.GetAvailableModels(req.Provider)
	})

	reg.Register(ipc.ChannelLLMGetCustomModels, func(_ context.Context, _ any) (any, error) {
		return d.LLM.GetCustomModels()
	})

	reg.Register(ipc.ChannelLLMAddCustomModel, func(_ context.Context, payload any) (any, error) {
		var model llm.ModelConfig
		if err := decode(payload, &model); err != nil {
			return nil, err
		}
		if err := d.LLM.AddCustomModel(model); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelLLMDeleteCustomModel, func(_ context.Context, payload any) (any, error) {
		var req llmModelRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.RemoveCustomModel(req.Provider, req.ModelID); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelLLMSetActiveModel, func(_ context.Context, payload any) (any, error) {
		var req llmModelRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := d.LLM.SetActiveModel(req.Provider, req.ModelID); err != nil {
			return nil, err
		}
		return true, nil
	})

	// Proxy.
	reg.Register(ipc.ChannelLLMGetGlobalProxy, func(_ context.Context, _ any) (any, error) {
		return d.LLM.GetGlobalProxy()
	})

	reg.Register(ipc.ChannelLLMSetGlobalProxy, func(_ context.Context, payload any) (any, error) {
		var proxy llm.ProxyConfig
		if err := decode(payload, &proxy); err != nil {
			return nil, err
		}
		if err := d.LLM.SetGlobalProxy(&proxy); err != nil {
			return nil, err
		}
		return true, nil
	})

	reg.Register(ipc.ChannelLLMTestProxy, func(ctx context.Context, payload any) (any, error) {
		var proxy llm.ProxyConfig
		if err := decode(payload, &proxy); err != nil {
			return nil, err
		}
		if err := llm.TestProxy(ctx, &proxy); err != nil {
			return nil, err
		}
		return true, nil
	})
}
