package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/learnflow/learnflow-api/internal/config"
)

// OpenAIClient implements Client using the official openai-go SDK
// (chat completions). With a base URL override it talks to any
// OpenAI-compatible provider.
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from the LLM configuration.
func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "llm_client"),
	}, nil
}

// Chat implements Client.
func (c *OpenAIClient) Chat(ctx context.Context, req Request) (string, error) {
	if req.User == "" {
		return "", ErrEmptyPrompt
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, h := range req.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    msgs,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		c.logger.Error("chat completion request failed",
			"model", c.model,
			"error", err,
			"elapsed", time.Since(start))
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrModelCall)
	}

	msg := resp.Choices[0].Message
	text := msg.Content
	if text == "" {
		// Reasoning models on some OpenAI-compatible providers put the
		// answer in a nonstandard reasoning_content field instead.
		text = gjson.Get(msg.RawJSON(), "reasoning_content").String()
	}
	if text == "" {
		return "", fmt.Errorf("%w: response carried no content", ErrModelCall)
	}

	c.logger.Debug("chat completion succeeded",
		"model", c.model,
		"content_length", len(text),
		"elapsed", time.Since(start))
	return text, nil
}
