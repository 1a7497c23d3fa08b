package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"jiratoclickup/config"
	"jiratoclickup/models"
	"jiratoclickup/utils"
)

// ClickUpClient はClickUp APIとのやり取りを処理します
type ClickUpClient struct {
	config    *config.Config
	client    *http.Client
	authToken string
}

// NewClickUpClient は新しいClickUpクライアントを作成します
func NewClickUpClient(cfg *config.Config) *ClickUpClient {
	// APIトークンに pk_ プレフィックスがなければ付与する
	authToken := cfg.ClickUpAPIToken
	if authToken != "" && !strings.HasPrefix(authToken, "pk_") {
		authToken = "pk_" + authToken
	}

	return &ClickUpClient{
		config:    cfg,
		client:    &http.Client{},
		authToken: authToken,
	}
}

// CheckAuth はClickUp認証をチェックします
func (c *ClickUpClient) CheckAuth() error {
	url := fmt.Sprintf("%s/user", c.config.ClickUpBaseURL)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Authorization", c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("認証失敗: %s", string(body))
	}

	return nil
}

// CreateTask はClickUpリストにタスクを作成し、タスクIDを返します
func (c *ClickUpClient) CreateTask(payload *models.ClickUpTaskPayload) (string, error) {
	url := fmt.Sprintf("%s/list/%s/task", c.config.ClickUpBaseURL, c.config.ClickUpListID)

	// タグが空でないことを確認
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("JSONエンコードエラー: %w", err)
	}

	utils.LogDebug("タスク作成リクエスト: %s", string(payloadBytes))

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("レート制限応答 (429): %s", string(body))
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("タスク作成失敗 (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("レスポンス解析エラー: %w", err)
	}

	if result.ID == "" {
		return "", fmt.Errorf("タスクIDが見つかりません")
	}

	return result.ID, nil
}

// AddComment はClickUpタスクにコメントを追加します
func (c *ClickUpClient) AddComment(taskID, commentText string) error {
	url := fmt.Sprintf("%s/task/%s/comment", c.config.ClickUpBaseURL, taskID)

	payload := map[string]string{
		"comment_text": commentText,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("JSONエンコードエラー: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("コメント追加失敗: %s", string(body))
	}

	return nil
}

// UploadAttachment はClickUpタスクに添付ファイルをアップロードします
func (c *ClickUpClient) UploadAttachment(taskID, filePath, filename string) error {
	url := fmt.Sprintf("%s/task/%s/attachment", c.config.ClickUpBaseURL, taskID)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ファイルオープンエラー: %w", err)
	}
	defer file.Close()

	// MIMEタイプを拡張子から判定
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename="%s"`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("multipartフォーム作成エラー: %w", err)
	}

	_, err = io.Copy(part, file)
	if err != nil {
		return fmt.Errorf("ファイルコピーエラー: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("writerクローズエラー: %w", err)
	}

	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("添付ファイルアップロード失敗: %s", string(bodyBytes))
	}

	return nil
}

// GetListCustomFields はClickUpリストのカスタムフィールド一覧を取得します
func (c *ClickUpClient) GetListCustomFields() ([]models.CustomField, error) {
	url := fmt.Sprintf("%s/list/%s/field", c.config.ClickUpBaseURL, c.config.ClickUpListID)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Authorization", c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("カスタムフィールド取得失敗: %s", string(body))
	}

	var result struct {
		Fields []models.CustomField `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("レスポンス解析エラー: %w", err)
	}

	return result.Fields, nil
}
