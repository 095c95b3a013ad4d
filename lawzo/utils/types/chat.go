// lawzo/utils/types/chat.go
package types

import "time"

type MessageType string

const (
	MessageGreeting       MessageType = "greeting"
	MessageAcknowledgment MessageType = "acknowledgment"
	MessageHelp           MessageType = "help"
	MessageAnswer         MessageType = "answer"
	MessageSuggestion     MessageType = "suggestion"
	MessageError          MessageType = "error"
)

// HistoryMessage is one prior turn supplied by the client.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Query     string           `json:"query"`
	Category  string           `json:"category"`
	Language  string           `json:"language,omitempty"`
	SessionID string           `json:"session_id"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

type ChatResponse struct {
	Answer             string      `json:"answer"`
	Sources            []string    `json:"sources"`
	ConversationID     string      `json:"conversation_id"`
	Timestamp          time.Time   `json:"timestamp"`
	SuggestedQuestions []string    `json:"suggested_questions"`
	MessageType        MessageType `json:"message_type"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Total         int64                  `json:"total"`
}

type CategoryResponse struct {
	Categories []string `json:"categories"`
}

type LanguageResponse struct {
	Languages map[string]string `json:"languages"`
}

// StageEvent is pushed over the websocket while a chat request runs.
type StageEvent struct {
	Type    string        `json:"type"`
	Stage   string        `json:"stage,omitempty"`
	Payload *ChatResponse `json:"payload,omitempty"`
	Error   string        `json:"error,omitempty"`
}
