// lawzo/sources/psql/models/conversation.go
package models

import (
	"time"
)

type Conversation struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(255);not null;index"`
	SessionID string    `json:"session_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Category  string    `json:"category" gorm:"type:varchar(100);not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Messages  []Message `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ConversationID string    `json:"conversation_id" gorm:"type:varchar(36);not null;index"`
	Role           string    `json:"role" gorm:"type:varchar(50);not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Timestamp      time.Time `json:"timestamp" gorm:"not null"`
}

func (Message) TableName() string {
	return "messages"
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
