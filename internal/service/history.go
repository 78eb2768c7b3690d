package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/repository"
)

// HistoryService is the durable, append-only message log. It does not check
// sender membership before accepting a message: any append for any room is
// accepted.
type HistoryService struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
}

func NewHistoryService(msgRepo repository.MessageRepository, userRepo repository.UserRepository) *HistoryService {
	return &HistoryService{
		msgRepo:  msgRepo,
		userRepo: userRepo,
	}
}

// Append persists a new message and returns the stored record including its
// generated id and timestamp.
func (s *HistoryService) Append(ctx context.Context, chatroomID, senderID int64, kind domain.MessageKind, content string) (*domain.ChatMessage, error) {
	if chatroomID == 0 {
		return nil, domain.NewValidation("chatroomId is required")
	}
	if senderID == 0 {
		return nil, domain.NewValidation("senderId is required")
	}
	if !kind.Valid() {
		return nil, domain.NewValidation("unknown message kind %q", kind)
	}
	if content == "" {
		return nil, domain.NewValidation("content is required")
	}

	msg, err := s.msgRepo.Create(ctx, domain.NewChatMessage(chatroomID, senderID, kind, content))
	if err != nil {
		return nil, domain.NewPersistence("failed to append message", err)
	}
	return msg, nil
}

// List returns the room's messages ordered by creation time ascending, each
// joined with a sender summary. Senders are resolved in one batched query
// over the distinct sender ids.
func (s *HistoryService) List(ctx context.Context, chatroomID int64) ([]*domain.HistoryEntry, error) {
	if chatroomID == 0 {
		return nil, domain.NewValidation("chatroomId is required")
	}

	messages, err := s.msgRepo.ListByRoom(ctx, chatroomID)
	if err != nil {
		return nil, domain.NewPersistence("failed to load history", err)
	}

	senderIDs := lo.Uniq(lo.Map(messages, func(m *domain.ChatMessage, _ int) int64 {
		return m.SenderID
	}))
	senders, err := s.userRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, domain.NewPersistence("failed to resolve senders", err)
	}
	sendersByID := lo.KeyBy(senders, func(u *domain.UserSummary) int64 { return u.ID })

	entries := make([]*domain.HistoryEntry, len(messages))
	for i, msg := range messages {
		entries[i] = &domain.HistoryEntry{
			Message: msg,
			Sender:  sendersByID[msg.SenderID],
		}
	}
	return entries, nil
}
