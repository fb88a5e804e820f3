package model

import (
	"time"
	"unicode/utf8"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TitleMaxChars is the number of characters of the first message used as title.
const TitleMaxChars = 50

// Thread is a user-owned conversation. ThreadID is chosen by the client and is
// unique per owner only.
type Thread struct {
	ID        uint      `json:"-" bson:"-" gorm:"primaryKey"`
	UserID    string    `json:"-" bson:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_threads_owner_thread,priority:1"`
	ThreadID  string    `json:"threadId" bson:"thread_id" gorm:"type:char(36);not null;uniqueIndex:idx_threads_owner_thread,priority:2"`
	Title     string    `json:"title" bson:"title" gorm:"size:255;not null"`
	NextSeq   int       `json:"-" bson:"-" gorm:"not null;default:0"`
	Messages  []Message `json:"messages" bson:"messages" gorm:"foreignKey:ThreadRef"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" gorm:"index"`
}

// Message is a single immutable entry of a thread.
type Message struct {
	ID        uint   `json:"-" bson:"-" gorm:"primaryKey"`
	ThreadRef uint   `json:"-" bson:"-" gorm:"not null;uniqueIndex:idx_messages_thread_seq,priority:1"`
	Seq       int    `json:"-" bson:"-" gorm:"not null;uniqueIndex:idx_messages_thread_seq,priority:2"`
	Role      Role   `json:"role" bson:"role" gorm:"size:16;not null"`
	Content   string `json:"content" bson:"content" gorm:"type:mediumtext;not null"`
}

// Turn returns the user message followed by the assistant reply.
func Turn(userMessage, reply string) []Message {
	return []Message{
		{Role: RoleUser, Content: userMessage},
		{Role: RoleAssistant, Content: reply},
	}
}

// TitleFrom derives a thread title from its first message.
func TitleFrom(message string) string {
	if utf8.RuneCountInString(message) <= TitleMaxChars {
		return message
	}
	return string([]rune(message)[:TitleMaxChars])
}
