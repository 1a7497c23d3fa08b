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
	// コマンドラインフラグの定義
	apiToken := flag.String("api-token", "", "ClickUp APIトークン（指定しない場合は環境変数から取得）")
	listID := flag.String("list-id", "", "ClickUpリストID（指定しない場合は環境変数から取得）")
	help := flag.Bool("help", false, "ヘルプを表示する")

	// フラグのパース
	flag.Parse()

	// ヘルプフラグが指定された場合はヘルプを表示
	if *help {
		printHelp()
		return
	}

	utils.LogInfo("ClickUpカスタムフィールド一覧ツール")
	defer utils.Sync()

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

	if err := cfg.ValidateForImport(); err != nil {
		utils.LogError("設定エラー: %v", err)
		os.Exit(1)
	}

	// カスタムフィールドの取得
	clickupClient := api.NewClickUpClient(cfg)
	fields, err := clickupClient.GetListCustomFields()
	if err != nil {
		utils.LogError("カスタムフィールド取得エラー: %v", err)
		os.Exit(1)
	}

	utils.LogInfo("ClickUpリスト %s のカスタムフィールド: %d 件", cfg.ClickUpListID, len(fields))
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

	utils.LogInfo("担当者フィールドを使う場合は、該当フィールドのIDを CLICKUP_ASSIGNEE_FIELD_ID に設定してください。")
}

// ヘルプメッセージを表示する関数
func printHelp() {
	fmt.Printf(`
ClickUpカスタムフィールド一覧ツール

使用方法:
  %s [オプション]

オプション:
  -api-token トークン  ClickUp APIトークン
  -list-id ID         ClickUpリストID
  -help               このヘルプを表示する

環境変数:
  CLICKUP_API_TOKEN   ClickUp APIトークン (必須)
  CLICKUP_LIST_ID     ClickUpリストID (必須)

説明:
  このツールはClickUpリストのカスタムフィールド定義を一覧表示します。
  担当者カスタムフィールドのIDを調べる際に使用してください。
`, os.Args[0])
}
