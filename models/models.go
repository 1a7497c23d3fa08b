package models

import "time"

// JiraTask はJIRA XMLエクスポート内の1つのイシューを表します
type JiraTask struct {
	Key         string // JIRAキー (PROJECT-123 形式)
	Summary     string
	Description string // HTMLクリーニング済みの本文
	Status      string
	Priority    string
	AssigneeID  string
	Assignee    string
	ReporterID  string
	Reporter    string
	ProjectKey  string
	ProjectName string
	Created     *time.Time
	Updated     *time.Time
	DueDate     *time.Time
	Comments    []JiraComment
	Attachments []JiraAttachment
}

// JiraComment はイシューのコメントを表します
type JiraComment struct {
	ID       string
	AuthorID string
	Body     string
	Created  *time.Time
}

// JiraAttachment はイシューの添付ファイルを表します
type JiraAttachment struct {
	ID       string
	Name     string
	Size     int64
	AuthorID string
	Created  *time.Time
}

// ClickUpTaskPayload はClickUpタスク作成APIのリクエストボディです
type ClickUpTaskPayload struct {
	Name            string             `json:"name"`
	MarkdownContent string             `json:"markdown_content"`
	Priority        int                `json:"priority"`
	Tags            []string           `json:"tags"`
	Status          string             `json:"status,omitempty"`
	DueDate         *int64             `json:"due_date,omitempty"`
	CustomFields    []CustomFieldValue `json:"custom_fields,omitempty"`
}

// CustomFieldValue はClickUpカスタムフィールドの値を表します
type CustomFieldValue struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// CustomField はClickUpリストのカスタムフィールド定義を表します
type CustomField struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	TypeConfig struct {
		Options []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"options"`
	} `json:"type_config"`
}

// ImportResult は1つのタスクのインポート結果を表します
type ImportResult struct {
	JiraKey          string
	Name             string
	ClickUpID        string
	Err              string   // 作成失敗の理由（成功時は空）
	TransferFailures []string // コメント・添付ファイル転送の失敗理由
}

// Succeeded はタスク作成が成功したかどうかを返します
func (r *ImportResult) Succeeded() bool {
	return r.Err == ""
}

// ImportSummary はインポート実行全体の集計結果です
type ImportSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ImportResult
}

// UserMapping はJIRAアカウントID → 表示名のマッピングを表します
type UserMapping map[string]string
