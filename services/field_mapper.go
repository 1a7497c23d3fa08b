package services

import (
	"fmt"
	"strings"
	"time"

	"jiratoclickup/config"
	"jiratoclickup/models"
)

// descriptionTimeFormat はタスク説明内に表示する日時の形式です
const descriptionTimeFormat = "January 2, 2006 at 15:04"

// ResolveFunc はアカウントIDを表示名に解決する関数です
type ResolveFunc func(accountID string) string

// MapPriority はJIRA優先度をClickUp優先度(1-4)に変換します。
// 未知の値は通常(3)になります。
func MapPriority(jiraPriority string) int {
	if p, ok := config.PriorityMapping[jiraPriority]; ok {
		return p
	}
	return config.DefaultPriority
}

// MapStatus はJIRAステータスをClickUpステータスに変換します。
// マッピングがない場合は空文字列を返し、ステータスは送信されません。
func MapStatus(jiraStatus string) string {
	return config.StatusMapping[jiraStatus]
}

// BuildTaskName はClickUpタスク名を生成します（"[KEY] summary" 形式）
func BuildTaskName(task *models.JiraTask) string {
	return fmt.Sprintf("[%s] %s", task.Key, task.Summary)
}

// BuildDescription はメタデータ・元の説明・コメント一覧を結合した
// Markdown説明文を生成します
func BuildDescription(task *models.JiraTask, resolve ResolveFunc) string {
	var parts []string

	// メタデータセクション
	var metadata []string
	if task.Created != nil {
		metadata = append(metadata, fmt.Sprintf("**Created:** %s", task.Created.Format(descriptionTimeFormat)))
	}
	if task.Assignee != "" {
		metadata = append(metadata, fmt.Sprintf("**Assignee:** %s", task.Assignee))
	}
	if task.Reporter != "" {
		metadata = append(metadata, fmt.Sprintf("**Reporter:** %s", task.Reporter))
	}
	if len(metadata) > 0 {
		parts = append(parts, strings.Join(metadata, "\n"))
	}

	// 元の説明
	if task.Description != "" {
		parts = append(parts, fmt.Sprintf("## Description\n\n%s", task.Description))
	}

	// コメントを時系列順にレンダリング
	if len(task.Comments) > 0 {
		blocks := make([]string, 0, len(task.Comments))
		for _, comment := range task.Comments {
			blocks = append(blocks, RenderComment(&comment, resolve))
		}
		parts = append(parts, "## Comments\n\n"+strings.Join(blocks, "\n\n"))
	}

	return strings.Join(parts, "\n\n")
}

// RenderComment は1つのコメントを著者名・タイムスタンプ付きでレンダリングします
func RenderComment(comment *models.JiraComment, resolve ResolveFunc) string {
	author := resolve(comment.AuthorID)
	when := "unknown"
	if comment.Created != nil {
		when = comment.Created.Format(descriptionTimeFormat)
	}
	return fmt.Sprintf("**%s** (%s):\n\n%s", author, when, comment.Body)
}

// BuildCommentText はClickUpコメントとして投稿するテキストを生成します
func BuildCommentText(comment *models.JiraComment, resolve ResolveFunc) string {
	author := resolve(comment.AuthorID)
	when := "unknown"
	if comment.Created != nil {
		when = comment.Created.Format(descriptionTimeFormat)
	}
	return fmt.Sprintf("Original comment by %s (%s):\n\n%s", author, when, comment.Body)
}

// BuildTags はステータス・プロジェクト・担当者からタグを生成します（重複排除）
func BuildTags(task *models.JiraTask) []string {
	candidates := []string{task.ProjectKey, task.Status, task.Assignee}

	tags := make([]string, 0, len(candidates))
	seen := make(map[string]bool)
	for _, tag := range candidates {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	return tags
}

// DueDateToUnixMillis は期日をUTC深夜0時のUnixミリ秒に変換します。
// 期日がない場合はnilを返します
func DueDateToUnixMillis(dueDate *time.Time) *int64 {
	if dueDate == nil {
		return nil
	}

	midnight := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	millis := midnight.UnixMilli()
	return &millis
}

// BuildPayload はJIRAタスクをClickUpタスク作成ペイロードに変換します
func BuildPayload(task *models.JiraTask, resolve ResolveFunc, assigneeFieldID string) *models.ClickUpTaskPayload {
	payload := &models.ClickUpTaskPayload{
		Name:            BuildTaskName(task),
		MarkdownContent: BuildDescription(task, resolve),
		Priority:        MapPriority(task.Priority),
		Tags:            BuildTags(task),
		Status:          MapStatus(task.Status),
		DueDate:         DueDateToUnixMillis(task.DueDate),
	}

	// 担当者カスタムフィールド（フィールドIDが設定されている場合のみ）
	if assigneeFieldID != "" && task.Assignee != "" {
		payload.CustomFields = append(payload.CustomFields, models.CustomFieldValue{
			ID:    assigneeFieldID,
			Value: task.Assignee,
		})
	}

	return payload
}
