package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/agent"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

// HistoryWindow returns the limit most recent messages of a
// conversation as agent history, oldest first. The query walks back
// from the newest end, then the slice is reversed so the prompt context
// reads chronologically.
func (s *Store) HistoryWindow(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]agent.HistoryMessage, error) {
	tx := s.db.DB.WithContext(ctx)
	if _, err := s.getOwnedConversation(tx, userID, conversationID); err != nil {
		return nil, err
	}

	messages := []models.Message{}
	err := tx.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch conversation history")
	}

	history := make([]agent.HistoryMessage, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		history = append(history, agent.HistoryMessage{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		})
	}
	return history, nil
}
