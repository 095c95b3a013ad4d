// lawzo/sources/psql/dao/dao.conversation.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lawzo/lawzo/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

func DefaultTitle(category string) string {
	return "Conversation about " + category
}

func (dao *ConversationDAO) GetBySession(ctx context.Context, sessionID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).First(&conv, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// EnsureConversation returns the conversation bound to sessionID, creating it
// on first use. Two requests racing on a new session both end up with the
// row that won the unique index.
func (dao *ConversationDAO) EnsureConversation(ctx context.Context, sessionID, userID, category, title string) (*models.Conversation, error) {
	conv, err := dao.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	if title == "" {
		title = DefaultTitle(category)
	}
	conv = &models.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		Category:  category,
		Title:     title,
	}
	createErr := dao.DB.WithContext(ctx).Create(conv).Error
	if createErr == nil {
		return conv, nil
	}
	existing, err := dao.GetBySession(ctx, sessionID)
	if err != nil || existing == nil {
		return nil, fmt.Errorf("create conversation: %w", createErr)
	}
	return existing, nil
}

func (dao *ConversationDAO) GetByIDForUser(ctx context.Context, id, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).First(&conv, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// AddMessage appends a message and refreshes the conversation's updated_at in
// one transaction.
func (dao *ConversationDAO) AddMessage(ctx context.Context, conversationID, role, content string) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn("updated_at", msg.Timestamp)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("conversation %s not found", conversationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (dao *ConversationDAO) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := dao.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp asc").
		Order("id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByUser pages through a user's conversations, most recently active
// first, and reports the total count.
func (dao *ConversationDAO) ListByUser(ctx context.Context, userID string, skip, limit int) ([]models.Conversation, int64, error) {
	var total int64
	base := dao.DB.WithContext(ctx).Model(&models.Conversation{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var convs []models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Offset(skip).
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// DeleteConversation removes a conversation and all its messages. It reports
// false when the conversation does not exist or belongs to someone else.
func (dao *ConversationDAO) DeleteConversation(ctx context.Context, id, userID string) (bool, error) {
	deleted := false
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.First(&conv, "id = ? AND user_id = ?", id, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&conv).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
