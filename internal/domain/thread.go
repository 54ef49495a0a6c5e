// File: internal/domain/thread.go
package domain

import "time"

// MaxThreadTitleLen is the display-name cap applied when a thread is titled
// from its first user message.
const MaxThreadTitleLen = 30

// Thread represents a single named conversation owned by one user.
// The ID is a random UUID minted by the service layer and never reused.
type Thread struct {
	ID        string    `json:"id" gorm:"primarykey"`
	Title     string    `json:"title"`
	Username  string    `json:"username" gorm:"index;not null"` // owner, immutable after creation
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TitleFromMessage derives a display name from a thread's first user message.
func TitleFromMessage(content string) string {
	runes := []rune(content)
	if len(runes) > MaxThreadTitleLen {
		return string(runes[:MaxThreadTitleLen])
	}
	return content
}
