package repository

import (
	"time"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

type ChatroomModel struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	Kind      string    `gorm:"column:kind"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ChatroomModel) TableName() string { return "chatrooms" }

// MembershipModel rows are deliberately NOT unique on (chatroom_id, user_id):
// a repeated group join inserts a second row.
type MembershipModel struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ChatroomID int64     `gorm:"column:chatroom_id;index:idx_room_user"`
	UserID     int64     `gorm:"column:user_id;index:idx_room_user"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (MembershipModel) TableName() string { return "memberships" }

type MessageModel struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ChatroomID int64     `gorm:"column:chatroom_id;index:idx_room_created"`
	SenderID   int64     `gorm:"column:sender_id"`
	Kind       string    `gorm:"column:kind"`
	Content    string    `gorm:"column:content"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_room_created"`
}

func (MessageModel) TableName() string { return "messages" }

// UserModel mirrors the externally owned user table; the chat core only
// reads it for enrichment. Writes happen in the seeder and tests.
type UserModel struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Username    string    `gorm:"column:username"`
	DisplayName string    `gorm:"column:display_name"`
	AvatarRef   string    `gorm:"column:avatar_ref"`
	Email       string    `gorm:"column:email"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (UserModel) TableName() string { return "users" }

// Conversion functions

func ChatroomModelToDomain(m *ChatroomModel) *domain.Chatroom {
	if m == nil {
		return nil
	}
	return &domain.Chatroom{
		ID:        m.ID,
		Name:      m.Name,
		Kind:      domain.RoomKind(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}

func ChatroomDomainToModel(room *domain.Chatroom) *ChatroomModel {
	if room == nil {
		return nil
	}
	return &ChatroomModel{
		ID:        room.ID,
		Name:      room.Name,
		Kind:      string(room.Kind),
		CreatedAt: room.CreatedAt,
	}
}

func MessageModelToDomain(m *MessageModel) *domain.ChatMessage {
	if m == nil {
		return nil
	}
	return &domain.ChatMessage{
		ID:         m.ID,
		ChatroomID: m.ChatroomID,
		SenderID:   m.SenderID,
		Kind:       domain.MessageKind(m.Kind),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

func MessageDomainToModel(msg *domain.ChatMessage) *MessageModel {
	if msg == nil {
		return nil
	}
	return &MessageModel{
		ID:         msg.ID,
		ChatroomID: msg.ChatroomID,
		SenderID:   msg.SenderID,
		Kind:       string(msg.Kind),
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
}

func UserModelToDomain(m *UserModel) *domain.UserSummary {
	if m == nil {
		return nil
	}
	return &domain.UserSummary{
		ID:          m.ID,
		Username:    m.Username,
		DisplayName: m.DisplayName,
		AvatarRef:   m.AvatarRef,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
	}
}

func UserDomainToModel(u *domain.UserSummary) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarRef:   u.AvatarRef,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}
