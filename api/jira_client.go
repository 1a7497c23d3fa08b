package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"jiratoclickup/config"
	"jiratoclickup/utils"
)

// JiraClient はJIRA APIとのやり取りを処理します（添付ファイルダウンロードとユーザー解決）
type JiraClient struct {
	config *config.Config
	client *http.Client
}

// NewJiraClient は新しいJIRAクライアントを作成します
func NewJiraClient(cfg *config.Config) *JiraClient {
	return &JiraClient{
		config: cfg,
		client: &http.Client{},
	}
}

// Configured はJIRA認証情報が設定されているかを返します
func (j *JiraClient) Configured() bool {
	return j.config.JiraConfigured()
}

// CheckAuth はJIRA認証をチェックします
func (j *JiraClient) CheckAuth() error {
	reqURL := fmt.Sprintf("%s/rest/api/3/myself", j.config.JiraBaseURL)

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.SetBasicAuth(j.config.JiraEmail, j.config.JiraAPIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
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

// DownloadAttachment はJIRAから添付ファイルをダウンロードし、一時ファイルのパスを返します。
// 一時ファイルの削除は呼び出し側の責任です。
func (j *JiraClient) DownloadAttachment(attachmentID, filename string) (string, error) {
	reqURL := fmt.Sprintf("%s/rest/api/3/attachment/content/%s", j.config.JiraBaseURL, attachmentID)

	utils.LogDebug("添付ファイル %s を %s からダウンロードします", attachmentID, reqURL)

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.SetBasicAuth(j.config.JiraEmail, j.config.JiraAPIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("添付ファイルダウンロード失敗 (%d): %s", resp.StatusCode, string(body))
	}

	// 元のファイル名の拡張子を保った一時ファイルを作成
	tempFile, err := os.CreateTemp("", "jira-attachment-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("一時ファイル作成エラー: %w", err)
	}

	_, err = io.Copy(tempFile, resp.Body)
	closeErr := tempFile.Close()
	if err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("ファイル書き込みエラー: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("ファイルクローズエラー: %w", closeErr)
	}

	utils.LogDebug("添付ファイルを %s にダウンロードしました", tempFile.Name())
	return tempFile.Name(), nil
}

// LookupUser はJIRAアカウントIDから表示名を取得します
func (j *JiraClient) LookupUser(accountID string) (string, error) {
	reqURL := fmt.Sprintf("%s/rest/api/3/user?accountId=%s", j.config.JiraBaseURL, url.QueryEscape(accountID))

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.SetBasicAuth(j.config.JiraEmail, j.config.JiraAPIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ユーザー取得失敗 (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("レスポンス解析エラー: %w", err)
	}

	if result.DisplayName == "" {
		return "", fmt.Errorf("表示名が見つかりません")
	}

	return result.DisplayName, nil
}
