package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned on sign-up with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, email, name, password string) (*models.User, error) {
	tx := s.db.DB.WithContext(ctx)

	var existing models.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "could not check for existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "could not hash password")
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return &user, nil
}

// GetUserByEmail resolves the identity asserted by the auth proxy to a
// user record.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not look up user")
	}
	return &user, nil
}

// CheckPassword compares a candidate password against the stored hash.
func (s *Store) CheckPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	var user models.User
	err := s.db.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, errors.Wrap(err, "could not look up user")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "could not compare password")
	}
	return true, nil
}

// DeleteUser removes an account and everything it owns in one
// transaction: messages, conversations, then the user row.
func (s *Store) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("id = ?", userID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return errors.Wrap(err, "could not look up user")
		}

		err = tx.Where("conversation_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.Conversation{}).
				Select("id").
				Where("user_id = ?", userID),
		).Delete(&models.Message{}).Error
		if err != nil {
			return errors.Wrap(err, "could not delete user messages")
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Conversation{}).Error; err != nil {
			return errors.Wrap(err, "could not delete user conversations")
		}

		return errors.Wrap(tx.Delete(&user).Error, "could not delete user")
	})
}
