package factory

import (
	"fmt"

	"mailfloww-be/pkg/llm"
	"mailfloww-be/pkg/llm/groq"
	"mailfloww-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, groqAPIKey string) (llm.Provider, error) {
	switch providerType {
	case "groq":
		if groqAPIKey == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY")
		}
		return groq.NewGroqProvider(groqAPIKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
