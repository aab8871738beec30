package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mailfloww-be/pkg/llm"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

type GroqProvider struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure GroqProvider implements Provider
var _ llm.Provider = &GroqProvider{}

func NewGroqProvider(apiKey, modelName string) *GroqProvider {
	if modelName == "" {
		modelName = "llama-3.1-8b-instant"
	}
	return &GroqProvider{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (g *GroqProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	// 1. Process Options
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// 2. Map generic messages to Groq (OpenAI-compatible) messages
	groqMessages := make([]groqMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		groqMessages[i] = groqMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	// 3. Prepare Payload
	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := groqChatRequest{
		Model:       model,
		Messages:    groqMessages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// 4. Send Request
	url := g.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", llm.NewCompletionError("groq", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NewCompletionError("groq", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.NewCompletionError("groq", fmt.Errorf("status %d, body: %s", resp.StatusCode, string(bodyBytes)))
	}

	// 5. Parse Response
	var groqResp groqChatResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return "", llm.NewCompletionError("groq", fmt.Errorf("unmarshal response: %w", err))
	}
	if len(groqResp.Choices) == 0 {
		return "", llm.NewCompletionError("groq", fmt.Errorf("empty choices in response"))
	}

	return groqResp.Choices[0].Message.Content, nil
}

func (g *GroqProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
