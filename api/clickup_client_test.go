package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiratoclickup/config"
	"jiratoclickup/models"
)

func newClickUpTestConfig(baseURL string) *config.Config {
	return &config.Config{
		ClickUpAPIToken: "abc123",
		ClickUpListID:   "900100",
		ClickUpBaseURL:  baseURL,
		TaskInterval:    time.Millisecond,
		CommentInterval: time.Millisecond,
	}
}

func TestTokenPrefix(t *testing.T) {
	// pk_ プレフィックスがなければ付与する
	client := NewClickUpClient(newClickUpTestConfig("http://example.invalid"))
	assert.Equal(t, "pk_abc123", client.authToken)

	// 既にある場合はそのまま使う
	cfg := newClickUpTestConfig("http://example.invalid")
	cfg.ClickUpAPIToken = "pk_xyz"
	client = NewClickUpClient(cfg)
	assert.Equal(t, "pk_xyz", client.authToken)
}

func TestCreateTask(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/list/900100/task", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id": "cu-42"}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	taskID, err := client.CreateTask(&models.ClickUpTaskPayload{
		Name:     "[PROJ-1] Fix login",
		Priority: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "cu-42", taskID)
	assert.Equal(t, "pk_abc123", gotAuth)
	assert.Equal(t, "[PROJ-1] Fix login", gotBody["name"])

	// nilタグは空配列として送信される
	assert.Equal(t, []any{}, gotBody["tags"])
}

func TestCreateTaskRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"err": "Rate limit reached"}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	_, err := client.CreateTask(&models.ClickUpTaskPayload{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "レート制限応答")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestCreateTaskErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"err": "Status not found"}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	_, err := client.CreateTask(&models.ClickUpTaskPayload{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status not found")
}

func TestAddComment(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task/cu-42/comment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	require.NoError(t, client.AddComment("cu-42", "hello"))
	assert.Equal(t, "hello", gotBody["comment_text"])
}

func TestUploadAttachment(t *testing.T) {
	var gotFilename, gotField, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task/cu-42/attachment", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("attachment")
		require.NoError(t, err)
		defer file.Close()
		gotField = "attachment"
		gotFilename = header.Filename
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		gotContent = string(content)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("attachment-data"), 0o644))

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	require.NoError(t, client.UploadAttachment("cu-42", path, "screenshot.png"))

	assert.Equal(t, "attachment", gotField)
	assert.Equal(t, "screenshot.png", gotFilename)
	assert.Equal(t, "attachment-data", gotContent)
}

func TestGetListCustomFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list/900100/field", r.URL.Path)
		fmt.Fprint(w, `{"fields": [
			{"id": "f-1", "name": "Jira Assignee", "type": "labels",
			 "type_config": {"options": [{"id": "o-1", "label": "Taro Yamada"}]}}
		]}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	fields, err := client.GetListCustomFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Jira Assignee", fields[0].Name)
	assert.Equal(t, "labels", fields[0].Type)
	require.Len(t, fields[0].TypeConfig.Options, 1)
	assert.Equal(t, "Taro Yamada", fields[0].TypeConfig.Options[0].Label)
}

func TestCheckAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		if r.Header.Get("Authorization") != "pk_abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"err": "Token invalid"}`)
			return
		}
		fmt.Fprint(w, `{"user": {"id": 1}}`)
	}))
	defer server.Close()

	client := NewClickUpClient(newClickUpTestConfig(server.URL))
	require.NoError(t, client.CheckAuth())

	cfg := newClickUpTestConfig(server.URL)
	cfg.ClickUpAPIToken = "pk_wrong"
	client = NewClickUpClient(cfg)
	err := client.CheckAuth()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "認証失敗")
}
