package factory

import (
	"ai-paper-reader-be/pkg/llm"
	"ai-paper-reader-be/pkg/llm/ollama"
	"ai-paper-reader-be/pkg/llm/openai"
	"fmt"
)

func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "grok":
		if baseURL == "" {
			baseURL = "https://api.x.ai/v1"
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "minimax":
		if baseURL == "" {
			baseURL = "https://api.minimax.io/v1"
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
