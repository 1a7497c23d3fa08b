package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// ClickUp API設定
	ClickUpAPIToken string
	ClickUpListID   string
	ClickUpBaseURL  string

	// JIRA API設定（添付ファイルダウンロードとユーザー解決に使用、任意）
	JiraBaseURL  string
	JiraEmail    string
	JiraAPIToken string

	// 入力ファイル
	JiraXMLFile string

	// レート制限設定
	TaskInterval    time.Duration
	CommentInterval time.Duration

	// ClickUpカスタムフィールド設定（任意）
	AssigneeFieldID string
}

// PriorityMapping はJIRA優先度からClickUp優先度(1-4)へのマッピングです
var PriorityMapping = map[string]int{
	"Highest": 1,
	"High":    2,
	"Medium":  3,
	"Low":     4,
	"Lowest":  4,
}

// DefaultPriority は未知の優先度に適用されるClickUp優先度です
const DefaultPriority = 3

// StatusMapping はJIRAステータスからClickUpステータスへのマッピングです
var StatusMapping = map[string]string{
	"To Do":       "ready for action",
	"Open":        "ready for action",
	"Backlog":     "backlog",
	"Ready":       "ready for action",
	"In Progress": "work in progress",
	"In Review":   "in review",
	"Review":      "in review",
	"Testing":     "in review",
	"QA":          "in review",
	"Done":        "done",
	"Closed":      "done",
	"Resolved":    "done",
	"Complete":    "done",
	"Completed":   "done",
	"Cancelled":   "done",
	"Won't Do":    "done",
	"Blocked":     "waiting/blocked",
	"Waiting":     "waiting/blocked",
	"On Hold":     "waiting/blocked",
}

// LoadConfig は環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込む
	_ = godotenv.Load()

	config := &Config{
		ClickUpAPIToken: os.Getenv("CLICKUP_API_TOKEN"),
		ClickUpListID:   os.Getenv("CLICKUP_LIST_ID"),
		ClickUpBaseURL:  getEnvWithDefault("CLICKUP_BASE_URL", "https://api.clickup.com/api/v2"),
		JiraBaseURL:     strings.TrimRight(os.Getenv("JIRA_BASE_URL"), "/"),
		JiraEmail:       os.Getenv("JIRA_EMAIL"),
		JiraAPIToken:    os.Getenv("JIRA_API_TOKEN"),
		JiraXMLFile:     os.Getenv("JIRA_XML_FILE"),
		TaskInterval:    getEnvAsDurationWithDefault("TASK_INTERVAL", time.Second),
		CommentInterval: getEnvAsDurationWithDefault("COMMENT_INTERVAL", 500*time.Millisecond),
		AssigneeFieldID: os.Getenv("CLICKUP_ASSIGNEE_FIELD_ID"),
	}

	return config, nil
}

// ValidateForImport はライブ実行に必要な設定が揃っているかを確認します
func (c *Config) ValidateForImport() error {
	if c.ClickUpAPIToken == "" {
		return fmt.Errorf("ClickUp APIトークンが設定されていません (CLICKUP_API_TOKEN または -api-token)")
	}
	if c.ClickUpListID == "" {
		return fmt.Errorf("ClickUpリストIDが設定されていません (CLICKUP_LIST_ID または -list-id)")
	}
	return nil
}

// JiraConfigured はJIRA API認証情報が揃っているかを返します
func (c *Config) JiraConfigured() bool {
	return c.JiraBaseURL != "" && c.JiraEmail != "" && c.JiraAPIToken != ""
}

// デフォルト値付きで環境変数を取得
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// デフォルト値付きで環境変数を時間として取得
func getEnvAsDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
