// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/okizari/go-threadchat/internal/domain"
	"github.com/okizari/go-threadchat/internal/middleware"
	"github.com/okizari/go-threadchat/internal/repository/message"
	"github.com/okizari/go-threadchat/internal/repository/thread"
	"github.com/okizari/go-threadchat/internal/services"
	"github.com/okizari/go-threadchat/internal/services/ai"
)

// scriptedProvider drives turns from handler tests without a live model.
type scriptedProvider struct {
	reply  string
	deltas []string
	err    error
}

func (p *scriptedProvider) ChatCompletion(ctx context.Context, model string, messages []ai.ChatMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *scriptedProvider) StreamChatCompletion(ctx context.Context, model string, messages []ai.ChatMessage, onDelta func(string) error) error {
	if p.err != nil {
		return p.err
	}
	for _, d := range p.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

func newTestRouter(t *testing.T, provider *scriptedProvider) *mux.Router {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Thread{}, &domain.Message{}))

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = "test-key"
	aiConfig.RetryDelay = time.Millisecond
	aiService, err := services.NewAIService(aiConfig, provider, &services.NoOpLogger{})
	require.NoError(t, err)

	chatService, err := services.NewChatService(
		thread.NewThreadRepository(db),
		message.NewMessageRepository(db),
		aiService,
		&services.NoOpLogger{},
	)
	require.NoError(t, err)

	h := NewChatHandler(chatService)
	r := mux.NewRouter()
	r.HandleFunc("/api/threads", h.GetUserThreads).Methods("GET")
	r.HandleFunc("/api/threads", h.CreateThread).Methods("POST")
	r.HandleFunc("/api/threads/{id}/messages", h.GetThreadMessages).Methods("GET")
	r.HandleFunc("/api/threads/{id}/messages", h.SubmitMessage).Methods("POST")
	r.HandleFunc("/api/threads/{id}/stream", h.StreamMessageSSE).Methods("GET")
	return r
}

func doRequest(router *mux.Router, username, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if username != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UsernameKey, username))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func submitBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]string{"message": text})
	require.NoError(t, err)
	return body
}

func TestCreateThreadMintsUUID(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "ok"})

	rec := doRequest(router, "alice", "POST", "/api/threads", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp["id"])
	assert.NoError(t, err)

	// Nothing is listed until a first message arrives.
	rec = doRequest(router, "alice", "GET", "/api/threads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSubmitMessageFullTurn(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "**Hi** there"})
	threadID := uuid.NewString()

	rec := doRequest(router, "alice", "POST", "/api/threads/"+threadID+"/messages", submitBody(t, "Hello"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "**Hi** there", resp["reply"])
	assert.Contains(t, resp["html"], "<strong>Hi</strong>")
	assert.Equal(t, "Hello", resp["thread_title"], "the first message names the thread")

	// The transcript replays both sides of the turn.
	rec = doRequest(router, "alice", "GET", "/api/threads/"+threadID+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var transcript []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	require.Len(t, transcript, 2)
	assert.Equal(t, "user", transcript[0]["role"])
	assert.Equal(t, "Hello", transcript[0]["content"])
	assert.Equal(t, "assistant", transcript[1]["role"])
}

func TestGetUserThreadsNewestFirst(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "ok"})
	first := uuid.NewString()
	second := uuid.NewString()

	rec := doRequest(router, "alice", "POST", "/api/threads/"+first+"/messages", submitBody(t, "first thread"))
	require.Equal(t, http.StatusOK, rec.Code)
	time.Sleep(5 * time.Millisecond)
	rec = doRequest(router, "alice", "POST", "/api/threads/"+second+"/messages", submitBody(t, "second thread"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "alice", "GET", "/api/threads", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var threads []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &threads))
	require.Len(t, threads, 2)
	assert.Equal(t, second, threads[0]["id"], "sidebar lists the newest thread first")
	assert.Equal(t, first, threads[1]["id"])
}

func TestSubmitMessageToForeignThread(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "ok"})
	threadID := uuid.NewString()

	rec := doRequest(router, "alice", "POST", "/api/threads/"+threadID+"/messages", submitBody(t, "mine"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "bob", "POST", "/api/threads/"+threadID+"/messages", submitBody(t, "intrusion"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, "bob", "GET", "/api/threads/"+threadID+"/messages", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitMessageUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{err: errors.New("model down")})
	threadID := uuid.NewString()

	rec := doRequest(router, "alice", "POST", "/api/threads/"+threadID+"/messages", submitBody(t, "Hello"))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Your message was saved")

	// The user message survived the failed turn.
	rec = doRequest(router, "alice", "GET", "/api/threads/"+threadID+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	require.Len(t, transcript, 1)
	assert.Equal(t, "user", transcript[0]["role"])
}

func TestSubmitMessageRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "ok"})

	rec := doRequest(router, "", "POST", "/api/threads/"+uuid.NewString()+"/messages", submitBody(t, "hi"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitMessageBadBody(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{reply: "ok"})

	rec := doRequest(router, "alice", "POST", "/api/threads/"+uuid.NewString()+"/messages", []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamMessageSSE(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{deltas: []string{"Hi ", "there"}})
	threadID := uuid.NewString()

	rec := doRequest(router, "alice", "GET", "/api/threads/"+threadID+"/stream?message=Hello", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: delta")
	assert.Contains(t, body, `{"text":"Hi "}`)
	assert.Contains(t, body, "event: title")
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, `"reply":"Hi there"`)

	// The streamed reply was persisted as one assistant message.
	rec = doRequest(router, "alice", "GET", "/api/threads/"+threadID+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	require.Len(t, transcript, 2)
	assert.Equal(t, "Hi there", transcript[1]["content"])
}

func TestStreamMessageUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, &scriptedProvider{err: errors.New("stream broke")})
	threadID := uuid.NewString()

	rec := doRequest(router, "alice", "GET", "/api/threads/"+threadID+"/stream?message=Hello", nil)
	require.Equal(t, http.StatusOK, rec.Code, "SSE failures arrive as events, not statuses")

	body := rec.Body.String()
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, "Your message was saved")
	assert.NotContains(t, body, "event: done")
}
