package repositories

import (
	"eduhealth_backend/internal/models"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(msg *models.ChatMessage) error
	FindRecentByUser(userID string, limit int) ([]models.ChatMessage, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) Create(msg *models.ChatMessage) error {
	return r.db.Create(msg).Error
}

// FindRecentByUser returns the last `limit` messages, oldest first, so the
// slice can be fed to the model as conversation history without reordering.
func (r *ChatRepositoryImpl) FindRecentByUser(userID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
