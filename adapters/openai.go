package adapters

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// ScriptRequest carries the parameters for one script generation call.
type ScriptRequest struct {
	Prompt      string
	Audience    string
	Tone        string
	Model       string
	MaxTokens   int
	Temperature float64
}

// ScriptBackend generates script text from a prompt. The dry variant is
// deterministic; the live variant calls an OpenAI-compatible chat API.
type ScriptBackend interface {
	GenerateScript(ctx context.Context, req ScriptRequest) (string, error)
}

// DryScriptBackend produces a reproducible stub derived from a hash of the
// full request, so identical inputs always yield identical scripts.
type DryScriptBackend struct{}

func (DryScriptBackend) GenerateScript(_ context.Context, req ScriptRequest) (string, error) {
	seed := req.Prompt + "|" + req.Audience + "|" + req.Tone + "|" + req.Model + "|" +
		strconv.Itoa(req.MaxTokens) + "|" + strconv.FormatFloat(req.Temperature, 'g', -1, 64)
	sum := sha1.Sum([]byte(seed))
	digest := hex.EncodeToString(sum[:])[:12]

	audience := req.Audience
	if audience == "" {
		audience = "general"
	}
	prompt := req.Prompt
	if len(prompt) > 80 {
		prompt = prompt[:80]
	}
	return fmt.Sprintf("[dry-run] script:%s\nPrompt: %s\nTone: %s; Audience: %s",
		digest, prompt, req.Tone, audience), nil
}

// OpenAIBackend calls the chat completions endpoint with bearer auth.
type OpenAIBackend struct {
	apiKey  string
	baseURL string
	client  *Client
}

const openAIBaseURL = "https://api.openai.com/v1"

// NewOpenAIBackend builds a live script backend. The key is required; the
// wiring layer enforces that before construction.
func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	return &OpenAIBackend{
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		client:  NewClient(60 * time.Second),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAIBackend) GenerateScript(ctx context.Context, req ScriptRequest) (string, error) {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf("You are a helpful, %s content writer.", req.Tone)},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}
	if err := o.client.DoJSON(ctx, "POST", o.baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openai error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
