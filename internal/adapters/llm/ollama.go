// Package llm provides the Ollama LLM adapter implementing ports.LLMService.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// OllamaAdapter implements ports.LLMService using the Ollama generate API.
type OllamaAdapter struct {
	baseURL   string
	model     string
	numThread int
	client    *http.Client
}

// NewOllamaAdapter creates a new Ollama LLM adapter. numThread is an opaque
// inference parallelism hint forwarded to Ollama, not a concurrency
// primitive of this system.
func NewOllamaAdapter(baseURL, model string, numThread int) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if numThread <= 0 {
		numThread = 8
	}
	return &OllamaAdapter{
		baseURL:   baseURL,
		model:     model,
		numThread: numThread,
		client: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	NumThread int `json:"num_thread"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces a response for the rendered prompt.
func (a *OllamaAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:   a.model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{NumThread: a.numThread},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", entities.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", entities.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling Ollama: %v", entities.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: Ollama returned status %d", entities.ErrGeneration, resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", entities.ErrGeneration, err)
	}

	return genResp.Response, nil
}
