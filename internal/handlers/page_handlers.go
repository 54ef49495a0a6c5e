// File: internal/handlers/page_handlers.go
package handlers

import (
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/okizari/go-threadchat/internal/middleware"
)

// Template cache to avoid parsing templates on every request
var (
	templateCache     map[string]*template.Template
	templateCacheOnce sync.Once
)

// loadTemplateCache creates separate template sets for each page
func loadTemplateCache() {
	templateCache = make(map[string]*template.Template)

	templates := []string{"index.html", "login.html", "register.html", "chat.html", "error.html"}

	for _, tmpl := range templates {
		ts := template.New(tmpl)

		ts, err := ts.ParseFiles("web/templates/layout.html")
		if err != nil {
			log.Fatalf("Error parsing layout for %s: %v", tmpl, err)
		}

		ts, err = ts.ParseFiles("web/templates/" + tmpl)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", tmpl, err)
		}

		templateCache[tmpl] = ts
	}
}

// renderTemplate renders a cached page template with security headers.
func renderTemplate(w http.ResponseWriter, tmpl string, data map[string]interface{}) {
	templateCacheOnce.Do(loadTemplateCache)
	addSecurityHeaders(w)

	if data == nil {
		data = make(map[string]interface{})
	}

	t, ok := templateCache[tmpl]
	if !ok {
		log.Printf("Template %s not found in cache", tmpl)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("Template render error for %s: %v", tmpl, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// ShowIndexPage routes by auth state: a valid session goes straight to chat.
func (h *PageHandler) ShowIndexPage(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie("auth_token"); err == nil {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *PageHandler) ShowLoginPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "login.html", nil)
}

func (h *PageHandler) ShowRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "register.html", nil)
}

func (h *PageHandler) ShowChatPage(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.UsernameFromContext(r.Context())
	renderTemplate(w, "chat.html", map[string]interface{}{
		"Username": username,
	})
}

func (h *PageHandler) ShowErrorPage(w http.ResponseWriter, code, message, description string) {
	renderTemplate(w, "error.html", map[string]interface{}{
		"Code":        code,
		"Message":     message,
		"Description": description,
	})
}
