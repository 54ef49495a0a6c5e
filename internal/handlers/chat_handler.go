// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okizari/go-threadchat/internal/middleware"
	"github.com/okizari/go-threadchat/internal/services"
	chatservice "github.com/okizari/go-threadchat/internal/services/chat"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

// threadResponse is the sidebar entry shape.
type threadResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// messageResponse is one transcript entry. HTML carries the markdown-rendered
// content for display; Content stays the persisted text.
type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// GetUserThreads returns the authenticated user's threads, newest first.
func (h *ChatHandler) GetUserThreads(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threads, err := h.ChatService.GetUserThreads(r.Context(), username)
	if err != nil {
		writeError(w, "Could not retrieve threads", http.StatusInternalServerError)
		return
	}

	// Storage order is oldest first; the sidebar wants newest first.
	out := make([]threadResponse, 0, len(threads))
	for i := len(threads) - 1; i >= 0; i-- {
		out = append(out, threadResponse{ID: threads[i].ID, Title: threads[i].Title})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateThread mints a fresh thread ID for a "New Chat". Nothing is persisted
// until the first message arrives.
func (h *ChatHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": h.ChatService.NewThreadID()})
}

// GetThreadMessages replays a thread's transcript.
func (h *ChatHandler) GetThreadMessages(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID := mux.Vars(r)["id"]
	messages, err := h.ChatService.GetThreadMessages(r.Context(), username, threadID)
	if err != nil {
		writeChatError(w, err)
		return
	}

	out := make([]messageResponse, len(messages))
	for i, m := range messages {
		out[i] = messageResponse{
			Role:    m.Role,
			Content: m.Content,
			HTML:    chatservice.RenderMarkdown(m.Content),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// SubmitMessage runs one non-streaming turn and returns the full reply.
func (h *ChatHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID := mux.Vars(r)["id"]
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.SubmitTurn(r.Context(), username, threadID, req.Message)
	if err != nil {
		writeChatError(w, err)
		return
	}

	resp := map[string]interface{}{
		"reply": result.Reply,
		"html":  chatservice.RenderMarkdown(result.Reply),
	}
	if result.ThreadNamed {
		resp["thread_title"] = result.ThreadTitle
	}
	writeJSON(w, http.StatusOK, resp)
}

// StreamMessageSSE runs one turn and streams the reply as server-sent events:
// an optional "title" event when the thread gets named, "delta" events with
// text fragments, then "done" or "error".
func (h *ChatHandler) StreamMessageSSE(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID := mux.Vars(r)["id"]
	text := r.URL.Query().Get("message")
	if text == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	result, err := h.ChatService.StreamTurn(r.Context(), username, threadID, text, func(delta string) error {
		return writeSSE(w, flusher, "delta", map[string]string{"text": delta})
	})
	if err != nil {
		_ = writeSSE(w, flusher, "error", map[string]string{"message": userFacingError(err)})
		return
	}

	if result.ThreadNamed {
		_ = writeSSE(w, flusher, "title", map[string]string{
			"thread_id": threadID,
			"title":     result.ThreadTitle,
		})
	}
	_ = writeSSE(w, flusher, "done", map[string]string{"reply": result.Reply})
}

// writeSSE emits one named event with a JSON payload.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// writeChatError maps the turn error taxonomy onto HTTP statuses.
func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case chatservice.IsType(err, chatservice.ErrTypeValidation):
		writeError(w, userFacingError(err), http.StatusBadRequest)
	case chatservice.IsType(err, chatservice.ErrTypeUnauthorized):
		writeError(w, "Unauthorized", http.StatusForbidden)
	case chatservice.IsType(err, chatservice.ErrTypeNotFound):
		writeError(w, "Not found", http.StatusNotFound)
	case chatservice.IsType(err, chatservice.ErrTypeUpstream):
		writeError(w, "The assistant is unavailable right now. Your message was saved.", http.StatusBadGateway)
	default:
		writeError(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func userFacingError(err error) string {
	if chatservice.IsType(err, chatservice.ErrTypeUpstream) {
		return "The assistant is unavailable right now. Your message was saved."
	}
	if ce, ok := err.(*chatservice.ChatError); ok {
		return ce.Message
	}
	return "Something went wrong"
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
