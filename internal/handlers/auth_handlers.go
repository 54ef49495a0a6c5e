// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/okizari/go-threadchat/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: service}
}

// Register handles new user registrations. Empty fields are rejected before
// any state changes; re-registering an existing username replaces its
// credential.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	if _, err := h.AuthService.Register(r.Context(), username, password); err != nil {
		if errors.Is(err, user_services.ErrInvalidInput) {
			renderTemplate(w, "register.html", map[string]interface{}{
				"Error": "Please enter a username and password.",
			})
			return
		}
		log.Printf("Registration error: %v", err)
		renderTemplate(w, "register.html", map[string]interface{}{
			"Error": "Could not register. Please try again.",
		})
		return
	}

	renderTemplate(w, "login.html", map[string]interface{}{
		"Info": "Registered! Please log in.",
	})
}

// Login validates credentials, sets the session cookie, and redirects to the
// chat surface. The failure message never says which field was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))
	if username == "" || password == "" {
		renderTemplate(w, "login.html", map[string]interface{}{
			"Error": "Username and password are required.",
		})
		return
	}

	token, err := h.AuthService.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, user_services.ErrInvalidCredentials) {
			log.Printf("Login error: %v", err)
		}
		renderTemplate(w, "login.html", map[string]interface{}{
			"Error": "Invalid username or password.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// Logout clears the session cookie and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
