package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/report"
)

const systemPrompt = "You are a technical program manager. Given a JSON aggregate of JIRA issues " +
	"closed in the reporting window, write a short executive summary in Markdown prose: overall " +
	"volume, notable per-project activity, and anything unusual. Two paragraphs maximum. Do not " +
	"repeat the per-issue tables."

type Client struct {
	key   string
	model string
	http  *http.Client
	log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{key: cfg.GeminiKey, model: cfg.GeminiModel, http: &http.Client{Timeout: cfg.LLMTimeout}, log: log}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Summarize(ctx context.Context, agg report.Aggregate) (string, error) {
	if strings.TrimSpace(c.key) == "" {
		return "", errors.New("gemini: missing key")
	}
	payload, err := json.Marshal(agg)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": systemPrompt + "\n\n" + string(payload)}}},
		},
		"generationConfig": map[string]any{"temperature": 0.2},
	}
	b, _ := json.Marshal(body)
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", c.model)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status=%d", resp.StatusCode)
	}
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no candidates")
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", errors.New("gemini: empty candidate")
	}
	return text, nil
}
