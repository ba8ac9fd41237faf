package models

import (
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
)

const (
	// MessageRoleUser marks a message written by the person chatting.
	MessageRoleUser = "user"
	// MessageRoleAssistant marks a reply produced by the recipe agent.
	MessageRoleAssistant = "assistant"
)

// User owns conversations. The email is the identity asserted by the
// fronting auth proxy; deleting a user removes everything they own.
type User struct {
	Model

	Email string `json:"email" gorm:"uniqueIndex;not null"`
	Name  string `json:"name"`

	// PasswordHash is a bcrypt hash, never sent to clients.
	PasswordHash string `json:"-" gorm:"not null"`

	Conversations []Conversation `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Conversation is a titled thread of chat messages belonging to one user.
type Conversation struct {
	Model

	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title  string    `json:"title" gorm:"not null"`

	Messages []Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Message is a single turn within a conversation. Messages are append
// only; order within a conversation is creation time ascending.
type Message struct {
	Model

	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`

	// Role is either MessageRoleUser or MessageRoleAssistant.
	Role    string `json:"role" gorm:"not null"`
	Content string `json:"content" gorm:"type:text;not null"`

	// Reasoning is the agent's chain of thought, when it shares one.
	Reasoning string `json:"reasoning,omitempty" gorm:"type:text"`

	// Chart holds a validated chart payload in JSONB, or SQL NULL.
	Chart pgtype.JSONB `json:"chart" gorm:"type:jsonb"`
}
