package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is similar to gorm.Model, but uses a UUID primary key and sends
// lower snake case JSON, which is what the UI expects. IDs are generated
// in BeforeCreate so the schema works on any database the tests use.
type Model struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
