// File: internal/domain/message.go
package domain

import "time"

// Message roles. The log only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a thread's append-only conversation log.
// The auto-incremented ID doubles as the sequence number: replay orders by it.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ThreadID  string    `json:"thread_id" gorm:"index;not null"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
