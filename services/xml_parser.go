package services

import (
	"encoding/xml"
	"fmt"
	"html"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jiratoclickup/config"
	"jiratoclickup/models"
	"jiratoclickup/utils"
)

// jiraDateFormat はJIRAエクスポートの日付形式です（例: "Wed, 9 Jul 2025 14:31:57 +0200"）
const jiraDateFormat = "Mon, 2 Jan 2006 15:04:05 -0700"

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// XMLParser はJIRA XMLエクスポートの読み込みを担当します
type XMLParser struct {
	config *config.Config
}

// NewXMLParser は新しいXMLパーサーを作成します
func NewXMLParser(cfg *config.Config) *XMLParser {
	return &XMLParser{
		config: cfg,
	}
}

// XMLデコード用の内部構造体

type xmlExport struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []xmlItem `xml:"channel>item"`
}

type xmlItem struct {
	Key         string          `xml:"key"`
	Summary     string          `xml:"summary"`
	Description xmlRichText     `xml:"description"`
	Status      string          `xml:"status"`
	Priority    string          `xml:"priority"`
	Assignee    xmlUser         `xml:"assignee"`
	Reporter    xmlUser         `xml:"reporter"`
	Created     string          `xml:"created"`
	Updated     string          `xml:"updated"`
	Due         string          `xml:"due"`
	Project     xmlProject      `xml:"project"`
	Comments    []xmlComment    `xml:"comments>comment"`
	Attachments []xmlAttachment `xml:"attachments>attachment"`
}

type xmlRichText struct {
	Inner string `xml:",innerxml"`
}

type xmlUser struct {
	AccountID string `xml:"accountid,attr"`
	Name      string `xml:",chardata"`
}

type xmlProject struct {
	Key  string `xml:"key,attr"`
	Name string `xml:",chardata"`
}

type xmlComment struct {
	ID      string `xml:"id,attr"`
	Author  string `xml:"author,attr"`
	Created string `xml:"created,attr"`
	Body    string `xml:",innerxml"`
}

type xmlAttachment struct {
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Size    string `xml:"size,attr"`
	Author  string `xml:"author,attr"`
	Created string `xml:"created,attr"`
}

// Parse はXMLファイルを読み込み、タスクの一覧とユーザーマッピングを返します。
// limit が正の場合は先頭から limit 件のみを返します。
func (p *XMLParser) Parse(xmlFile string, limit int) ([]models.JiraTask, models.UserMapping, error) {
	utils.LogInfo("XMLファイル '%s' を読み込みます", xmlFile)

	content, err := os.ReadFile(xmlFile)
	if err != nil {
		return nil, nil, fmt.Errorf("XMLファイル読み込みエラー: %w", err)
	}

	// <rss ルート要素より前のコメント等を取り除く
	if idx := strings.Index(string(content), "<rss"); idx > 0 {
		content = content[idx:]
	}

	decoder := xml.NewDecoder(strings.NewReader(string(content)))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	var export xmlExport
	if err := decoder.Decode(&export); err != nil {
		return nil, nil, fmt.Errorf("XML解析エラー: %w", err)
	}

	utils.LogInfo("XML内に %d 件のアイテムが見つかりました", len(export.Items))

	items := export.Items
	if limit > 0 && limit < len(items) {
		items = items[:limit]
		utils.LogInfo("先頭 %d 件に制限します", len(items))
	}

	// コメント著者の解決に使うため、先にユーザーマッピングを構築する
	userMapping := buildUserMapping(export.Items)
	utils.LogDebug("ユーザーマッピングを構築しました: %d 件", len(userMapping))

	tasks := make([]models.JiraTask, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, p.convertItem(item))
	}

	return tasks, userMapping, nil
}

// buildUserMapping はassignee/reporter要素のaccountid属性からマッピングを構築します
func buildUserMapping(items []xmlItem) models.UserMapping {
	mapping := make(models.UserMapping)

	for _, item := range items {
		if item.Assignee.AccountID != "" && strings.TrimSpace(item.Assignee.Name) != "" {
			mapping[item.Assignee.AccountID] = strings.TrimSpace(item.Assignee.Name)
		}
		if item.Reporter.AccountID != "" && strings.TrimSpace(item.Reporter.Name) != "" {
			mapping[item.Reporter.AccountID] = strings.TrimSpace(item.Reporter.Name)
		}
	}

	return mapping
}

// convertItem はXMLアイテムを型付きタスクに変換します
func (p *XMLParser) convertItem(item xmlItem) models.JiraTask {
	task := models.JiraTask{
		Key:         item.Key,
		Summary:     strings.TrimSpace(item.Summary),
		Description: CleanHTML(item.Description.Inner),
		Status:      strings.TrimSpace(item.Status),
		Priority:    strings.TrimSpace(item.Priority),
		AssigneeID:  item.Assignee.AccountID,
		Assignee:    strings.TrimSpace(item.Assignee.Name),
		ReporterID:  item.Reporter.AccountID,
		Reporter:    strings.TrimSpace(item.Reporter.Name),
		ProjectKey:  item.Project.Key,
		ProjectName: strings.TrimSpace(item.Project.Name),
		Created:     parseJiraDate(item.Created),
		Updated:     parseJiraDate(item.Updated),
		DueDate:     parseJiraDate(item.Due),
	}

	for _, c := range item.Comments {
		task.Comments = append(task.Comments, models.JiraComment{
			ID:       c.ID,
			AuthorID: c.Author,
			Body:     CleanHTML(c.Body),
			Created:  parseJiraDate(c.Created),
		})
	}

	for _, a := range item.Attachments {
		size, _ := strconv.ParseInt(a.Size, 10, 64)
		task.Attachments = append(task.Attachments, models.JiraAttachment{
			ID:       a.ID,
			Name:     a.Name,
			Size:     size,
			AuthorID: a.Author,
			Created:  parseJiraDate(a.Created),
		})
	}

	return task
}

// CleanHTML はHTMLタグを除去しエンティティをデコードします
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}

	// XMLエスケープを戻してからタグを除去する
	text = html.UnescapeString(text)
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// parseJiraDate はJIRAの日付文字列を解析します。解析できない場合はnilを返します
func parseJiraDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	t, err := time.Parse(jiraDateFormat, dateStr)
	if err != nil {
		utils.LogWarn("日付変換エラー: '%s'", dateStr)
		return nil
	}

	return &t
}
