package main

import (
	"flag"
	"fmt"
	"os"

	"jiratoclickup/api"
	"jiratoclickup/config"
	"jiratoclickup/utils"
)

func main() {
	// ヘルプフラグの定義
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	utils.LogInfo("認証確認ツール")
	defer utils.Sync()

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	if err := cfg.ValidateForImport(); err != nil {
		utils.LogError("設定エラー: %v", err)
		os.Exit(1)
	}

	// ClickUp認証チェック
	utils.LogInfo("ClickUp APIの認証を確認しています...")
	clickupClient := api.NewClickUpClient(cfg)
	if err := clickupClient.CheckAuth(); err != nil {
		utils.LogError("ClickUp認証エラー: %v", err)
		utils.LogError("ClickUpの認証情報を確認してください。")
		os.Exit(1)
	}
	utils.LogInfo("ClickUp認証成功！")

	// JIRA認証チェック（設定されている場合のみ）
	if cfg.JiraConfigured() {
		utils.LogInfo("JIRA APIの認証を確認しています...")
		jiraClient := api.NewJiraClient(cfg)
		if err := jiraClient.CheckAuth(); err != nil {
			utils.LogError("JIRA認証エラー: %v", err)
			utils.LogError("JIRAの認証情報を確認してください。")
			os.Exit(1)
		}
		utils.LogInfo("JIRA認証成功！ 接続先: %s", cfg.JiraBaseURL)
	} else {
		utils.LogWarn("JIRA認証情報が未設定です。添付ファイルの転送とユーザー解決はスキップされます。")
	}

	utils.LogInfo("認証情報は正常です。")
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
認証確認ツール

使用方法:
  %s [オプション]

オプション:
  -help               このヘルプを表示する

環境変数:
  CLICKUP_API_TOKEN   ClickUp APIトークン (必須)
  CLICKUP_LIST_ID     ClickUpリストID (必須)
  JIRA_BASE_URL       JIRAベースURL (任意)
  JIRA_EMAIL          JIRAアカウントのメールアドレス (任意)
  JIRA_API_TOKEN      JIRA APIトークン (任意)

説明:
  このツールはClickUpとJIRAの認証情報が正しく設定されているかを確認します。
  認証が成功すれば、インポートツールも正常に動作する可能性が高いです。
`, os.Args[0])
}
