// Package chat is the persistence gateway for conversations and
// messages. Every operation takes the requesting user's id and checks
// ownership before touching a conversation; a conversation that exists
// but belongs to someone else is indistinguishable from one that
// doesn't exist.
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chart"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

// ErrNotFound covers both a missing conversation and one owned by a
// different user.
var ErrNotFound = errors.New("conversation not found")

// DefaultPageSize is the message page size when the caller doesn't ask
// for one.
const DefaultPageSize = 50

type Store struct {
	db *db.DB
}

func NewStore(dbc *db.DB) *Store {
	return &Store{db: dbc}
}

// CreateConversation creates a conversation owned by userID.
func (s *Store) CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*models.Conversation, error) {
	conversation := models.Conversation{
		UserID: userID,
		Title:  title,
	}
	if err := s.db.DB.WithContext(ctx).Create(&conversation).Error; err != nil {
		return nil, errors.Wrap(err, "could not create conversation")
	}
	return &conversation, nil
}

// ListConversations returns userID's conversations, most recently
// updated first.
func (s *Store) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := s.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list conversations")
	}
	return conversations, nil
}

// getOwnedConversation fetches a conversation iff userID owns it.
func (s *Store) getOwnedConversation(tx *gorm.DB, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := tx.Where("id = ? AND user_id = ?", conversationID, userID).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not look up conversation")
	}
	return &conversation, nil
}

// GetConversation returns the conversation iff userID owns it.
func (s *Store) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	return s.getOwnedConversation(s.db.DB.WithContext(ctx), userID, conversationID)
}

// UpdateConversationTitle renames a conversation owned by userID.
func (s *Store) UpdateConversationTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) (*models.Conversation, error) {
	tx := s.db.DB.WithContext(ctx)
	conversation, err := s.getOwnedConversation(tx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	conversation.Title = title
	if err := tx.Save(conversation).Error; err != nil {
		return nil, errors.Wrap(err, "could not update conversation title")
	}
	return conversation, nil
}

// DeleteConversation removes a conversation and all of its messages as
// one transaction; a partial delete is never observable.
func (s *Store) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversation, err := s.getOwnedConversation(tx, userID, conversationID)
		if err != nil {
			return err
		}

		if err := tx.Where("conversation_id = ?", conversation.ID).Delete(&models.Message{}).Error; err != nil {
			return errors.Wrap(err, "could not delete conversation messages")
		}
		if err := tx.Delete(conversation).Error; err != nil {
			return errors.Wrap(err, "could not delete conversation")
		}
		return nil
	})
}

// AppendMessage adds one turn to a conversation owned by userID and
// bumps the conversation's updated_at so recency ordering holds.
func (s *Store) AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, role, content, reasoning string, chartPayload *chart.Chart) (*models.Message, error) {
	if role != models.MessageRoleUser && role != models.MessageRoleAssistant {
		return nil, errors.Errorf("invalid message role %q", role)
	}

	message := models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Reasoning:      reasoning,
	}
	if chartPayload != nil {
		chartJSON, err := json.Marshal(chartPayload)
		if err != nil {
			return nil, errors.Wrap(err, "could not encode chart payload")
		}
		if err := message.Chart.Set(chartJSON); err != nil {
			return nil, errors.Wrap(err, "could not set chart payload")
		}
	} else if err := message.Chart.Set(nil); err != nil {
		return nil, errors.Wrap(err, "could not set empty chart payload")
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversation, err := s.getOwnedConversation(tx, userID, conversationID)
		if err != nil {
			return err
		}

		if err := tx.Create(&message).Error; err != nil {
			return errors.Wrap(err, "could not create message")
		}

		return errors.Wrap(
			tx.Model(conversation).Update("updated_at", time.Now()).Error,
			"could not bump conversation timestamp")
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListMessages returns a page of messages in chronological order.
// Pages are 1-based; page/pageSize values below 1 fall back to the
// first page and DefaultPageSize.
func (s *Store) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	tx := s.db.DB.WithContext(ctx)
	if _, err := s.getOwnedConversation(tx, userID, conversationID); err != nil {
		return nil, err
	}

	messages := []models.Message{}
	err := tx.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list messages")
	}
	return messages, nil
}

// CountUserMessages counts the user-role messages in a conversation.
// The chat handler uses it to detect a conversation's first turn.
func (s *Store) CountUserMessages(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	tx := s.db.DB.WithContext(ctx)
	if _, err := s.getOwnedConversation(tx, userID, conversationID); err != nil {
		return 0, err
	}

	var count int64
	err := tx.Model(&models.Message{}).
		Where("conversation_id = ? AND role = ?", conversationID, models.MessageRoleUser).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not count user messages")
	}
	return count, nil
}
