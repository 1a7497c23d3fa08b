package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"jiratoclickup/api"
	"jiratoclickup/config"
	"jiratoclickup/models"
	"jiratoclickup/utils"
)

// ImportService はJIRAからClickUpへのタスクインポートを処理します
type ImportService struct {
	config   *config.Config
	clickup  *api.ClickUpClient
	jira     *api.JiraClient
	resolver *UserResolver

	// ClickUpのレート制限を超えないための固定間隔ゲート
	taskGate    *rate.Limiter
	commentGate *rate.Limiter
}

// NewImportService は新しいインポートサービスを作成します
func NewImportService(cfg *config.Config, clickup *api.ClickUpClient, jira *api.JiraClient, resolver *UserResolver) *ImportService {
	return &ImportService{
		config:      cfg,
		clickup:     clickup,
		jira:        jira,
		resolver:    resolver,
		taskGate:    rate.NewLimiter(rate.Every(cfg.TaskInterval), 1),
		commentGate: rate.NewLimiter(rate.Every(cfg.CommentInterval), 1),
	}
}

// Run はタスクを入力順に1件ずつインポートし、集計結果を返します。
// dryRun が true の場合、送信予定のペイロードを表示するだけで
// 変更を伴うAPI呼び出しは一切行いません
func (s *ImportService) Run(ctx context.Context, tasks []models.JiraTask, dryRun bool) (*models.ImportSummary, error) {
	startTime := time.Now()
	defer utils.TrackTime(startTime, "タスクインポート")

	mode := ""
	if dryRun {
		mode = "（ドライラン）"
	}
	utils.LogInfo("タスクのインポートを開始します%s: %d 件", mode, len(tasks))

	summary := &models.ImportSummary{
		Total: len(tasks),
	}

	for i := range tasks {
		task := &tasks[i]
		utils.LogInfo("[%d/%d] 処理中: %s - %s", i+1, len(tasks), task.Key, task.Summary)

		result := s.processTask(ctx, task, dryRun)

		if result.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

// processTask は1つのタスクを処理します。作成が成功した場合のみ
// コメントと添付ファイルを転送します
func (s *ImportService) processTask(ctx context.Context, task *models.JiraTask, dryRun bool) models.ImportResult {
	result := models.ImportResult{
		JiraKey: task.Key,
		Name:    BuildTaskName(task),
	}

	payload := BuildPayload(task, s.resolver.Resolve, s.config.AssigneeFieldID)

	if dryRun {
		payloadJSON, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			result.Err = fmt.Sprintf("JSONエンコードエラー: %v", err)
			return result
		}
		utils.LogInfo("作成予定のタスク:\n%s", string(payloadJSON))
		return result
	}

	// タスク作成
	if err := s.taskGate.Wait(ctx); err != nil {
		result.Err = fmt.Sprintf("待機中断: %v", err)
		return result
	}

	taskID, err := s.clickup.CreateTask(payload)
	if err != nil {
		utils.LogError("タスク %s の作成に失敗: %v", task.Key, err)
		result.Err = err.Error()
		return result
	}

	utils.LogInfo("タスクを作成しました: %s → %s", task.Key, taskID)
	result.ClickUpID = taskID

	// コメント追加（タスク作成成功後のみ）
	if len(task.Comments) > 0 {
		utils.LogInfo("%d 件のコメントを追加します...", len(task.Comments))
		s.transferComments(ctx, task, taskID, &result)
	}

	// 添付ファイル転送（タスク作成成功後のみ）
	if len(task.Attachments) > 0 {
		utils.LogInfo("%d 件の添付ファイルを処理します...", len(task.Attachments))
		s.transferAttachments(ctx, task, taskID, &result)
	}

	return result
}

// transferComments はコメントを1件ずつClickUpタスクに追加します
func (s *ImportService) transferComments(ctx context.Context, task *models.JiraTask, taskID string, result *models.ImportResult) {
	for i := range task.Comments {
		comment := &task.Comments[i]

		if err := s.commentGate.Wait(ctx); err != nil {
			result.TransferFailures = append(result.TransferFailures,
				fmt.Sprintf("コメント %d: 待機中断: %v", i+1, err))
			return
		}

		text := BuildCommentText(comment, s.resolver.Resolve)
		if err := s.clickup.AddComment(taskID, text); err != nil {
			utils.LogWarn("コメント追加失敗 %s: %v", task.Key, err)
			result.TransferFailures = append(result.TransferFailures,
				fmt.Sprintf("コメント %d: %v", i+1, err))
			continue
		}

		utils.LogDebug("コメント %d を追加しました", i+1)
	}
}

// transferAttachments は添付ファイルをJIRAからダウンロードし、
// ClickUpタスクにアップロードします。個々の失敗は記録のみで、
// 他の添付ファイルや実行全体には影響しません
func (s *ImportService) transferAttachments(ctx context.Context, task *models.JiraTask, taskID string, result *models.ImportResult) {
	for i := range task.Attachments {
		attachment := &task.Attachments[i]

		if !s.jira.Configured() {
			utils.LogWarn("JIRA認証情報が未設定のため、添付ファイル %s をスキップします", attachment.Name)
			continue
		}

		if err := s.commentGate.Wait(ctx); err != nil {
			result.TransferFailures = append(result.TransferFailures,
				fmt.Sprintf("添付ファイル %s: 待機中断: %v", attachment.Name, err))
			return
		}

		tempPath, err := s.jira.DownloadAttachment(attachment.ID, attachment.Name)
		if err != nil {
			utils.LogWarn("添付ファイル %s のダウンロード失敗: %v", attachment.Name, err)
			result.TransferFailures = append(result.TransferFailures,
				fmt.Sprintf("添付ファイル %s: %v", attachment.Name, err))
			continue
		}

		if err := s.clickup.UploadAttachment(taskID, tempPath, attachment.Name); err != nil {
			utils.LogWarn("添付ファイル %s のアップロード失敗: %v", attachment.Name, err)
			result.TransferFailures = append(result.TransferFailures,
				fmt.Sprintf("添付ファイル %s: %v", attachment.Name, err))
		} else {
			utils.LogInfo("添付ファイル %s をアップロードしました", attachment.Name)
		}

		os.Remove(tempPath)
	}
}

// LogSummary はインポートの集計結果を出力します
func LogSummary(summary *models.ImportSummary, dryRun bool) {
	mode := ""
	if dryRun {
		mode = "（ドライラン）"
	}

	utils.LogInfo("インポート結果%s: 合計=%d, 成功=%d, 失敗=%d",
		mode, summary.Total, summary.Succeeded, summary.Failed)

	for _, result := range summary.Results {
		if !result.Succeeded() {
			utils.LogError("失敗: %s %s - %s", result.JiraKey, result.Name, result.Err)
		}
		for _, failure := range result.TransferFailures {
			utils.LogWarn("転送失敗: %s - %s", result.JiraKey, failure)
		}
	}
}
