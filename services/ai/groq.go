package aisvc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
)

// groqClient talks to Groq through its OpenAI-compatible chat completions API.
type groqClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	configured  bool
}

var _ ai.ChatCompleter = (*groqClient)(nil)

func NewGroqClient(conf *core.Config) ai.ChatCompleter {
	cfg := openai.DefaultConfig(conf.AI.APIKey)
	if conf.AI.BaseURL != "" {
		cfg.BaseURL = conf.AI.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: conf.AI.Timeout}

	return &groqClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       conf.AI.Model,
		temperature: conf.AI.Temperature,
		maxTokens:   conf.AI.MaxTokens,
		configured:  conf.AI.APIKey != "",
	}
}

func (c *groqClient) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	if !c.configured {
		return "", ai.ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "creating chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
