package repository

import (
	"context"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

type ChatroomRepository interface {
	// CreateWithMembers inserts the room and one membership per member id as
	// a single transaction. Either everything lands or nothing does.
	CreateWithMembers(ctx context.Context, room *domain.Chatroom, memberIDs []int64) (*domain.Chatroom, error)
	GetByID(ctx context.Context, id int64) (*domain.Chatroom, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Chatroom, error)
	AddMember(ctx context.Context, chatroomID, userID int64) error
	// RemoveMember deletes every membership row matching the pair.
	RemoveMember(ctx context.Context, chatroomID, userID int64) error
	MemberIDs(ctx context.Context, chatroomID int64) ([]int64, error)
	// MemberIDsByRoom resolves memberships for many rooms in one query.
	MemberIDsByRoom(ctx context.Context, chatroomIDs []int64) (map[int64][]int64, error)
	RoomIDsForUser(ctx context.Context, userID int64) ([]int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	ListByRoom(ctx context.Context, chatroomID int64) ([]*domain.ChatMessage, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.UserSummary) error
	GetByID(ctx context.Context, id int64) (*domain.UserSummary, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.UserSummary, error)
}
