package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dgallion1/docsum/internal/summarize"
)

// deterministicSeed is sent with every deterministic request so compatible
// servers pick the same sampling path each time.
const deterministicSeed = 42

// OpenAIClient summarizes through an OpenAI-compatible chat completion API.
// Setting a base URL points it at Ollama, vLLM or similar servers.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Model returns the configured model name.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Summarize asks the chat model for a summary bounded by req's token lengths.
func (o *OpenAIClient) Summarize(ctx context.Context, req summarize.Request) summarize.Result {
	chatReq := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: req.MaxLength,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	}
	if req.Deterministic {
		// A literal zero is dropped by omitempty and the server default applies.
		chatReq.Temperature = math.SmallestNonzeroFloat32
		seed := deterministicSeed
		chatReq.Seed = &seed
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return summarize.Failed(wrapOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return summarize.Failed(ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return summarize.Failed(ErrEmptyResponse)
	}
	return summarize.Succeeded(text)
}

// wrapOpenAIError turns go-openai HTTP failures into StatusError.
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}
	return fmt.Errorf("openai completion: %w", err)
}
