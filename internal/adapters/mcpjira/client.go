package mcpjira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/redhat-ai-tools/jira-report-agent/internal/collector"
	"github.com/redhat-ai-tools/jira-report-agent/internal/config"
	"github.com/redhat-ai-tools/jira-report-agent/internal/domain"
)

const listIssuesTool = "list_jira_issues"

// Client fetches issues from the jira-mcp-snowflake MCP server over
// streamable HTTP. The MCP session is established lazily on first use
// and reused across calls.
type Client struct {
	baseURL string
	server  string
	log     zerolog.Logger

	mu   sync.Mutex
	mcp  *client.Client
	init bool
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{baseURL: cfg.MCPBaseURL, server: cfg.MCPServer, log: log}
}

func (c *Client) Name() string { return c.server }

func (c *Client) ensureSession(ctx context.Context) (*client.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.init {
		return c.mcp, nil
	}
	if c.baseURL == "" {
		return nil, errors.New("mcp: no base url configured")
	}
	mc, err := client.NewStreamableHttpClient(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: create client: %w", err)
	}
	if err := mc.Start(ctx); err != nil {
		_ = mc.Close()
		return nil, fmt.Errorf("mcp: start transport: %w", err)
	}
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "jira-report-agent", Version: "1.0.0"}
	res, err := mc.Initialize(ctx, initReq)
	if err != nil {
		_ = mc.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}
	c.log.Info().Str("server", res.ServerInfo.Name).Str("version", res.ServerInfo.Version).Msg("mcp session established")
	c.mcp = mc
	c.init = true
	return mc, nil
}

// Close tears down the MCP session if one was established.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mcp == nil {
		return nil
	}
	err := c.mcp.Close()
	c.mcp = nil
	c.init = false
	return err
}

func (c *Client) FetchIssues(ctx context.Context, project, status string, limit int) ([]domain.IssueRecord, error) {
	mc, err := c.ensureSession(ctx)
	if err != nil {
		return nil, &collector.Error{Project: project, Err: err}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = listIssuesTool
	req.Params.Arguments = map[string]any{
		"project": project,
		"status":  status,
		"limit":   limit,
	}
	res, err := mc.CallTool(ctx, req)
	if err != nil {
		return nil, &collector.Error{Project: project, Err: fmt.Errorf("call %s: %w", listIssuesTool, err)}
	}
	if res.IsError {
		return nil, &collector.Error{Project: project, Err: fmt.Errorf("tool %s returned error: %s", listIssuesTool, firstText(res))}
	}

	text := firstText(res)
	if text == "" {
		return nil, &collector.Error{Project: project, Err: errors.New("tool result had no text content")}
	}
	var payload struct {
		Issues        []domain.IssueRecord `json:"issues"`
		TotalReturned int                  `json:"total_returned"`
		Error         string               `json:"error"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, &collector.Error{Project: project, Err: fmt.Errorf("decode tool result: %w", err)}
	}
	if payload.Error != "" {
		return nil, &collector.Error{Project: project, Err: errors.New(payload.Error)}
	}
	c.log.Debug().Str("project", project).Int("issues", len(payload.Issues)).Msg("mcp fetch ok")
	if payload.Issues == nil {
		return []domain.IssueRecord{}, nil
	}
	return payload.Issues, nil
}

func firstText(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
