package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiratoclickup/config"
)

const sampleXML = `Some export preamble that is not XML.
<rss version="0.92">
<channel>
<title>Exported issues</title>
<item>
<title>[PROJ-1] Fix login</title>
<key id="10001">PROJ-1</key>
<summary>Fix login</summary>
<description>&lt;p&gt;Broken &amp;amp; slow&lt;/p&gt;</description>
<status>In Progress</status>
<priority>Highest</priority>
<votes>0</votes>
<assignee accountid="acc-1">Taro Yamada</assignee>
<reporter accountid="acc-2">Hanako Tanaka</reporter>
<created>Wed, 9 Jul 2025 14:31:57 +0200</created>
<updated>Thu, 10 Jul 2025 09:00:00 +0200</updated>
<due></due>
<project key="PROJ">Sample Project</project>
<comments>
<comment id="100" author="acc-2" created="Wed, 9 Jul 2025 15:00:00 +0200">&lt;p&gt;First comment&lt;/p&gt;</comment>
<comment id="101" author="acc-1" created="Wed, 9 Jul 2025 16:00:00 +0200">Second comment</comment>
</comments>
<attachments>
<attachment id="argh-1" name="screenshot.png" size="2048" author="acc-1" created="Wed, 9 Jul 2025 15:30:00 +0200"/>
</attachments>
</item>
<item>
<key id="10002">PROJ-2</key>
<summary>Add logout</summary>
<status>Done</status>
<priority>Low</priority>
<due>Fri, 11 Jul 2025 00:00:00 +0200</due>
<project key="PROJ">Sample Project</project>
</item>
</channel>
</rss>`

func writeSampleXML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSampleExport(t *testing.T) {
	parser := NewXMLParser(&config.Config{})
	tasks, users, err := parser.Parse(writeSampleXML(t, sampleXML), 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	task := tasks[0]
	assert.Equal(t, "PROJ-1", task.Key)
	assert.Equal(t, "Fix login", task.Summary)
	assert.Equal(t, "Broken & slow", task.Description)
	assert.Equal(t, "In Progress", task.Status)
	assert.Equal(t, "Highest", task.Priority)
	assert.Equal(t, "acc-1", task.AssigneeID)
	assert.Equal(t, "Taro Yamada", task.Assignee)
	assert.Equal(t, "acc-2", task.ReporterID)
	assert.Equal(t, "PROJ", task.ProjectKey)
	assert.Equal(t, "Sample Project", task.ProjectName)

	require.NotNil(t, task.Created)
	assert.True(t, task.Created.Equal(time.Date(2025, 7, 9, 12, 31, 57, 0, time.UTC)))

	// 空のdue要素は期日なしとして扱う
	assert.Nil(t, task.DueDate)

	// コメントは文書内の順序で保持される
	require.Len(t, task.Comments, 2)
	assert.Equal(t, "First comment", task.Comments[0].Body)
	assert.Equal(t, "acc-2", task.Comments[0].AuthorID)
	assert.Equal(t, "Second comment", task.Comments[1].Body)
	require.NotNil(t, task.Comments[0].Created)

	require.Len(t, task.Attachments, 1)
	assert.Equal(t, "argh-1", task.Attachments[0].ID)
	assert.Equal(t, "screenshot.png", task.Attachments[0].Name)
	assert.Equal(t, int64(2048), task.Attachments[0].Size)

	// 2件目: 任意フィールドの欠落はエラーにならない
	task2 := tasks[1]
	assert.Equal(t, "PROJ-2", task2.Key)
	assert.Empty(t, task2.Assignee)
	assert.Empty(t, task2.Comments)
	require.NotNil(t, task2.DueDate)

	// ユーザーマッピングはassignee/reporterの属性から構築される
	assert.Equal(t, "Taro Yamada", users["acc-1"])
	assert.Equal(t, "Hanako Tanaka", users["acc-2"])
}

func TestParseLimit(t *testing.T) {
	parser := NewXMLParser(&config.Config{})
	tasks, users, err := parser.Parse(writeSampleXML(t, sampleXML), 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "PROJ-1", tasks[0].Key)

	// マッピングは制限前の全アイテムから構築される
	assert.Len(t, users, 2)
}

func TestParseMissingFile(t *testing.T) {
	parser := NewXMLParser(&config.Config{})
	_, _, err := parser.Parse(filepath.Join(t.TempDir(), "nope.xml"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XMLファイル読み込みエラー")
}

func TestParseMalformedXML(t *testing.T) {
	parser := NewXMLParser(&config.Config{})
	_, _, err := parser.Parse(writeSampleXML(t, "<not-an-export>"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XML解析エラー")
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "", CleanHTML(""))
	assert.Equal(t, "Hello world", CleanHTML("<p>Hello   world</p>"))
	assert.Equal(t, "Broken & slow", CleanHTML("&lt;p&gt;Broken &amp;amp; slow&lt;/p&gt;"))
	assert.Equal(t, "a b", CleanHTML("a\n\n  b"))
}

func TestParseJiraDate(t *testing.T) {
	parsed := parseJiraDate("Wed, 9 Jul 2025 14:31:57 +0200")
	require.NotNil(t, parsed)
	assert.Equal(t, 2025, parsed.Year())

	assert.Nil(t, parseJiraDate(""))
	assert.Nil(t, parseJiraDate("2025-07-09"))
}
