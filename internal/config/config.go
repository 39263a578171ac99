package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	TZ       string
	HTTPAddr string

	DBDSN string

	MCPBaseURL   string
	MCPServer    string
	Projects     []string
	ClosedStatus string
	FetchLimit   int

	LookbackDays int
	ReportsDir   string
	SourceLabel  string

	LLMProvider string
	LLMTimeout  time.Duration
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string

	TelegramToken   string
	TelegramChatIDs []int64

	ReportCron  string
	HTTPTimeout time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" { return def }
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" { return def }
	i, err := strconv.Atoi(v)
	if err != nil { return def }
	return i
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" { return def }
	d, err := time.ParseDuration(v)
	if err != nil { return def }
	return d
}

func parseInt64s(csv string) []int64 {
	if csv == "" { return nil }
	parts := strings.Split(csv, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" { continue }
		n, err := strconv.ParseInt(p, 10, 64)
		if err == nil { out = append(out, n) }
	}
	return out
}

func parseStrings(csv string) []string {
	if csv == "" { return nil }
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" { continue }
		out = append(out, p)
	}
	return out
}

// Load reads the whole configuration from the environment once, at
// process start. Nothing else in the pipeline re-reads ambient state.
func Load() Config {
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		TZ:       getenv("APP_TZ", "UTC"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBDSN: getenv("DB_DSN", ""),

		MCPBaseURL:   getenv("MCP_BASE_URL", ""),
		MCPServer:    getenv("MCP_SERVER_NAME", "jira-mcp-snowflake"),
		Projects:     parseStrings(getenv("JIRA_PROJECTS", "CCITJEN,CCITRP,QEHS")),
		ClosedStatus: getenv("JIRA_CLOSED_STATUS", "6"),
		FetchLimit:   atoi("JIRA_FETCH_LIMIT", 100),

		LookbackDays: atoi("REPORT_LOOKBACK_DAYS", 30),
		ReportsDir:   getenv("REPORTS_DIR", "reports"),
		SourceLabel:  getenv("DATA_SOURCE_LABEL", ""),

		LLMProvider: strings.ToLower(getenv("LLM_PROVIDER", "none")),
		LLMTimeout:  dur("LLM_TIMEOUT", 60*time.Second),
		OpenAIKey:   getenv("OPENAI_API_KEY", ""),
		OpenAIModel: getenv("OPENAI_MODEL", "gpt-4.1-mini"),
		GeminiKey:   getenv("GEMINI_API_KEY", ""),
		GeminiModel: getenv("GEMINI_MODEL", "gemini-2.5-pro"),

		TelegramToken:   getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatIDs: parseInt64s(getenv("TELEGRAM_CHAT_IDS", "")),

		ReportCron:  getenv("CRON_SPEC", "0 9 1 * *"),
		HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),
	}

	if loc, err := time.LoadLocation(cfg.TZ); err == nil {
		time.Local = loc
	} else {
		log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
	}
	return cfg
}
