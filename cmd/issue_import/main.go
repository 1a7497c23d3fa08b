package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"jiratoclickup/api"
	"jiratoclickup/config"
	"jiratoclickup/services"
	"jiratoclickup/utils"
)

func main() {
	// コマンドラインフラグの定義
	apiToken := flag.String("api-token", "", "ClickUp APIトークン（指定しない場合は環境変数から取得）")
	listID := flag.String("list-id", "", "ClickUpリストID（指定しない場合は環境変数から取得）")
	jiraBaseURL := flag.String("jira-base-url", "", "JIRAベースURL（添付ファイルダウンロード用）")
	jiraEmail := flag.String("jira-email", "", "JIRA basic認証用のメールアドレス")
	jiraAPIToken := flag.String("jira-api-token", "", "JIRA APIトークン")
	dryRun := flag.Bool("dry-run", false, "実際にタスクを作成せず、送信予定の内容を表示する")
	verbose := flag.Bool("verbose", false, "詳細なデバッグ出力を有効にする")
	limit := flag.Int("limit", 0, "インポートするタスク数の上限（0は無制限、テスト用）")
	listCustomFields := flag.Bool("list-custom-fields", false, "ClickUpリストのカスタムフィールドを一覧表示する")
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	utils.SetVerbose(*verbose)
	defer utils.Sync()

	// 開始時間の記録
	startTime := time.Now()

	utils.LogInfo("JIRA XML → ClickUp インポートツール")

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("設定の読み込みに失敗しました: %v", err)
		os.Exit(1)
	}

	// コマンドライン引数による設定の上書き
	if *apiToken != "" {
		cfg.ClickUpAPIToken = *apiToken
	}
	if *listID != "" {
		cfg.ClickUpListID = *listID
	}
	if *jiraBaseURL != "" {
		cfg.JiraBaseURL = strings.TrimRight(*jiraBaseURL, "/")
	}
	if *jiraEmail != "" {
		cfg.JiraEmail = *jiraEmail
	}
	if *jiraAPIToken != "" {
		cfg.JiraAPIToken = *jiraAPIToken
	}
	if flag.Arg(0) != "" {
		cfg.JiraXMLFile = flag.Arg(0)
		utils.LogInfo("入力ファイルを指定: %s", cfg.JiraXMLFile)
	}

	// カスタムフィールド一覧表示モード
	if *listCustomFields {
		if err := cfg.ValidateForImport(); err != nil {
			utils.LogError("設定エラー: %v", err)
			os.Exit(1)
		}
		if err := printCustomFields(cfg); err != nil {
			utils.LogError("カスタムフィールド取得エラー: %v", err)
			os.Exit(1)
		}
		return
	}

	// ライブ実行時は必須設定を確認する
	if !*dryRun {
		if err := cfg.ValidateForImport(); err != nil {
			utils.LogError("設定エラー: %v", err)
			os.Exit(1)
		}
	}

	// XMLファイルの存在確認
	if cfg.JiraXMLFile == "" {
		utils.LogError("XMLファイルパスが指定されていません (引数または JIRA_XML_FILE)")
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.JiraXMLFile); os.IsNotExist(err) {
		utils.LogError("XMLファイルが見つかりません: %s", cfg.JiraXMLFile)
		os.Exit(1)
	}

	if !cfg.JiraConfigured() {
		utils.LogWarn("JIRA認証情報が未設定のため、添付ファイルの転送とユーザー解決はスキップされます")
	}

	// XMLのパース（ネットワーク呼び出しの前に実行）
	parser := services.NewXMLParser(cfg)
	tasks, userMapping, err := parser.Parse(cfg.JiraXMLFile, *limit)
	if err != nil {
		utils.LogError("XML解析エラー: %v", err)
		os.Exit(1)
	}

	if len(tasks) == 0 {
		utils.LogError("XMLファイル内にタスクが見つかりません")
		os.Exit(1)
	}

	// 必要なサービスの初期化
	clickupClient := api.NewClickUpClient(cfg)
	jiraClient := api.NewJiraClient(cfg)
	resolver := services.NewUserResolver(jiraClient, userMapping)
	importService := services.NewImportService(cfg, clickupClient, jiraClient, resolver)

	// インポートの実行
	summary, err := importService.Run(context.Background(), tasks, *dryRun)
	if err != nil {
		utils.LogError("インポート処理に失敗しました: %v", err)
		os.Exit(1)
	}

	services.LogSummary(summary, *dryRun)

	// 合計実行時間の表示
	elapsed := time.Since(startTime)
	utils.LogInfo("インポート処理が完了しました。合計実行時間: %s", elapsed)
}

// カスタムフィールドの一覧を表示する関数
func printCustomFields(cfg *config.Config) error {
	clickupClient := api.NewClickUpClient(cfg)

	fields, err := clickupClient.GetListCustomFields()
	if err != nil {
		return err
	}

	utils.LogInfo("ClickUpリストのカスタムフィールド: %d 件", len(fields))
	for _, field := range fields {
		utils.LogInfo("  - 名前: '%s', ID: %s, タイプ: %s", field.Name, field.ID, field.Type)
		for _, option := range field.TypeConfig.Options {
			name := option.Name
			if name == "" {
				name = option.Label
			}
			utils.LogInfo("      オプション: ID: %s, 名前: '%s'", option.ID, name)
		}
	}

	return nil
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
JIRA XML → ClickUp インポートツール

使用方法:
  %s [オプション] [XMLファイル]

オプション:
  -api-token トークン     ClickUp APIトークン
  -list-id ID            ClickUpリストID
  -jira-base-url URL     JIRAベースURL（添付ファイルダウンロード用）
  -jira-email メール      JIRA basic認証用のメールアドレス
  -jira-api-token トークン JIRA APIトークン
  -dry-run               実際にタスクを作成せず、送信予定の内容を表示する
  -verbose               詳細なデバッグ出力を有効にする
  -limit N               インポートするタスク数の上限（テスト用）
  -list-custom-fields    ClickUpリストのカスタムフィールドを一覧表示する
  -help                  このヘルプを表示する

環境変数:
  CLICKUP_API_TOKEN          ClickUp APIトークン (必須)
  CLICKUP_LIST_ID            ClickUpリストID (必須)
  JIRA_XML_FILE              JIRA XMLエクスポートのファイルパス
  JIRA_BASE_URL              JIRAベースURL (任意)
  JIRA_EMAIL                 JIRAアカウントのメールアドレス (任意)
  JIRA_API_TOKEN             JIRA APIトークン (任意)
  CLICKUP_ASSIGNEE_FIELD_ID  担当者カスタムフィールドのID (任意)
  TASK_INTERVAL              タスク作成間の待機時間 (デフォルト: 1s)
  COMMENT_INTERVAL           コメント追加間の待機時間 (デフォルト: 500ms)

例:
  # すべてのタスクをインポート
  %s export.xml

  # ドライランで送信内容を確認
  %s -dry-run export.xml

  # 先頭3件のみインポート（テスト用）
  %s -limit 3 export.xml

  # カスタムフィールドのIDを調べる
  %s -list-custom-fields
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}
