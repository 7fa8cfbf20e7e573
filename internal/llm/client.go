package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"personahub/internal/config"
)

// ChatMessage is one turn of an OpenAI-style conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatUsage reports the token counts a provider billed for a request.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the normalized outcome of a chat request, independent of
// which provider produced it.
type ChatResult struct {
	Content  string     `json:"content"`
	Model    string     `json:"model"`
	Provider ProviderID `json:"provider"`
	Usage    *ChatUsage `json:"usage,omitempty"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature,omitempty"`
	TopP             float64       `json:"top_p,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64       `json:"presence_penalty,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage *ChatUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// requestSettings reads the llm section of the settings store, falling
// back to the built-in defaults when keys are missing.
func (s *Service) requestSettings() (time.Duration, RetryConfig) {
	timeout := DefaultHTTPTimeout
	retry := DefaultRetryConfig()
	section, err := s.store.GetSection("llm")
	if err != nil {
		return timeout, retry
	}
	if ms := config.Int(section["timeoutMs"], 0); ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	}
	retry.MaxRetries = config.Int(section["maxRetries"], retry.MaxRetries)
	return timeout, retry
}

// Query sends a conversation to the config's provider and returns the
// assistant reply. An empty configID selects the default config. The
// config's system message, when set, is prepended to the conversation.
func (s *Service) Query(ctx context.Context, configID string, messages []ChatMessage) (*ChatResult, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}
	var cfg *Config
	var err error
	if configID == "" {
		cfg, err = s.GetDefaultConfig()
	} else {
		cfg, err = s.GetConfig(configID)
	}
	if err != nil {
		return nil, err
	}
	return s.chat(ctx, cfg, messages)
}

// TestConnection sends a minimal request through the given config and
// returns the reply, so the UI can verify credentials and proxy settings
// before saving.
func (s *Service) TestConnection(ctx context.Context, cfg *Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	result, err := s.chat(ctx, cfg, []ChatMessage{{Role: "user", Content: "Hi"}})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

func (s *Service) chat(ctx context.Context, cfg *Config, messages []ChatMessage) (*ChatResult, error) {
	apiKey, err := s.resolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}
	if apiKey == "" && cfg.Provider != ProviderOllama && cfg.Provider != ProviderLocal {
		return nil, fmt.Errorf("no API key configured for provider %s", cfg.Provider)
	}
	if cfg.SystemMessage != "" {
		messages = append([]ChatMessage{{Role: "system", Content: cfg.SystemMessage}}, messages...)
	}
	if cfg.Provider == ProviderGemini {
		return s.chatGemini(ctx, cfg, apiKey, messages)
	}
	return s.chatOpenAI(ctx, cfg, apiKey, messages)
}

// chatOpenAI speaks the /chat/completions dialect shared by OpenAI,
// DeepSeek, SiliconFlow, OpenRouter, Ollama and compatible gateways.
func (s *Service) chatOpenAI(ctx context.Context, cfg *Config, apiKey string, messages []ChatMessage) (*ChatResult, error) {
	baseURL := cfg.EffectiveBaseURL()
	if baseURL == "" {
		return nil, fmt.Errorf("no endpoint configured for provider %s", cfg.Provider)
	}

	body, err := json.Marshal(chatRequest{
		Model:            cfg.ModelID,
		Messages:         messages,
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		FrequencyPenalty: cfg.FrequencyPenalty,
		PresencePenalty:  cfg.PresencePenalty,
		MaxTokens:        cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	timeout, retry := s.requestSettings()
	proxy, err := s.GetGlobalProxy()
	if err != nil {
		return nil, err
	}
	client := NewHTTPClient(cfg, proxy, timeout)

	var lastErr error
	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		if attempt > 0 {
			s.log.Warn("[LLM] retrying %s request (attempt %d): %v", cfg.Provider, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retry.Backoff(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = apiError(resp.StatusCode, respBody)
			if ShouldRetry(resp.StatusCode) {
				continue
			}
			return nil, lastErr
		}

		var chatResp chatResponse
		if err := json.Unmarshal(respBody, &chatResp); err != nil {
			return nil, fmt.Errorf("decode chat response: %w", err)
		}
		if chatResp.Error != nil {
			return nil, fmt.Errorf("provider error: %s", chatResp.Error.Message)
		}
		if len(chatResp.Choices) == 0 {
			return nil, fmt.Errorf("empty response from %s", cfg.Provider)
		}
		model := chatResp.Model
		if model == "" {
			model = cfg.ModelID
		}
		return &ChatResult{
			Content:  chatResp.Choices[0].Message.Content,
			Model:    model,
			Provider: cfg.Provider,
			Usage:    chatResp.Usage,
		}, nil
	}
	return nil, fmt.Errorf("request to %s failed after %d attempts: %w",
		cfg.Provider, retry.MaxRetries+1, lastErr)
}

func apiError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("API error (%d): %s", status, payload.Error.Message)
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("API error (%d): %s", status, msg)
}

// chatGemini uses the official SDK since Gemini does not speak the
// OpenAI dialect.
func (s *Service) chatGemini(ctx context.Context, cfg *Config, apiKey string, messages []ChatMessage) (*ChatResult, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(cfg.ModelID)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.TopP > 0 {
		model.SetTopP(float32(cfg.TopP))
	}
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	// Gemini has no system role in history; system turns become the
	// model's system instruction.
	var history []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
		case "assistant":
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		}
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	session := model.StartChat()
	last := history[len(history)-1]
	session.History = history[:len(history)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from %s", cfg.Provider)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty response from %s", cfg.Provider)
	}

	result := &ChatResult{Content: sb.String(), Model: cfg.ModelID, Provider: cfg.Provider}
	if resp.UsageMetadata != nil {
		result.Usage = &ChatUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return result, nil
}
