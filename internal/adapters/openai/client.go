package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/report"
)

const systemPrompt = "You are a technical program manager. Given a JSON aggregate of JIRA issues " +
	"closed in the reporting window, write a short executive summary in Markdown prose: overall " +
	"volume, notable per-project activity, and anything unusual. Two paragraphs maximum. Do not " +
	"repeat the per-issue tables."

type Client struct {
	api   openai.Client
	model string
	log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		api:   openai.NewClient(option.WithAPIKey(cfg.OpenAIKey)),
		model: cfg.OpenAIModel,
		log:   log,
	}
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Summarize(ctx context.Context, agg report.Aggregate) (string, error) {
	payload, err := json.Marshal(agg)
	if err != nil {
		return "", err
	}
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai: empty completion")
	}
	return out, nil
}
