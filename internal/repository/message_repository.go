package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	model := MessageDomainToModel(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	// The model now carries the generated id and timestamp.
	return MessageModelToDomain(model), nil
}

func (r *gormMessageRepository) ListByRoom(ctx context.Context, chatroomID int64) ([]*domain.ChatMessage, error) {
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("chatroom_id = ?", chatroomID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*domain.ChatMessage, len(models))
	for i := range models {
		messages[i] = MessageModelToDomain(&models[i])
	}
	return messages, nil
}
