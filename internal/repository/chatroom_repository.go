package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

type gormChatroomRepository struct {
	db *gorm.DB
}

func NewChatroomRepository(db *gorm.DB) ChatroomRepository {
	return &gormChatroomRepository{db: db}
}

func (r *gormChatroomRepository) CreateWithMembers(ctx context.Context, room *domain.Chatroom, memberIDs []int64) (*domain.Chatroom, error) {
	model := ChatroomDomainToModel(room)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		for _, userID := range memberIDs {
			membership := &MembershipModel{ChatroomID: model.ID, UserID: userID}
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ChatroomModelToDomain(model), nil
}

func (r *gormChatroomRepository) GetByID(ctx context.Context, id int64) (*domain.Chatroom, error) {
	var model ChatroomModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ChatroomModelToDomain(&model), nil
}

func (r *gormChatroomRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Chatroom, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ChatroomModel
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rooms := make([]*domain.Chatroom, len(models))
	for i := range models {
		rooms[i] = ChatroomModelToDomain(&models[i])
	}
	return rooms, nil
}

func (r *gormChatroomRepository) AddMember(ctx context.Context, chatroomID, userID int64) error {
	membership := &MembershipModel{ChatroomID: chatroomID, UserID: userID}
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *gormChatroomRepository) RemoveMember(ctx context.Context, chatroomID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("chatroom_id = ? AND user_id = ?", chatroomID, userID).
		Delete(&MembershipModel{}).Error
}

func (r *gormChatroomRepository) MemberIDs(ctx context.Context, chatroomID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&MembershipModel{}).
		Where("chatroom_id = ?", chatroomID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormChatroomRepository) MemberIDsByRoom(ctx context.Context, chatroomIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(chatroomIDs))
	if len(chatroomIDs) == 0 {
		return result, nil
	}

	var models []MembershipModel
	err := r.db.WithContext(ctx).
		Where("chatroom_id IN ?", chatroomIDs).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for i := range models {
		result[models[i].ChatroomID] = append(result[models[i].ChatroomID], models[i].UserID)
	}
	return result, nil
}

func (r *gormChatroomRepository) RoomIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&MembershipModel{}).
		Where("user_id = ?", userID).
		Order("chatroom_id ASC").
		Distinct().
		Pluck("chatroom_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
