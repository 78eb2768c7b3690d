package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/repository"
)

// DirectoryService owns chatroom metadata and membership. It enforces the
// structural rules of the two room kinds: one-to-one rooms are created with
// exactly two members and their membership never changes; group membership
// is mutable.
type DirectoryService struct {
	roomRepo repository.ChatroomRepository
	userRepo repository.UserRepository
}

func NewDirectoryService(roomRepo repository.ChatroomRepository, userRepo repository.UserRepository) *DirectoryService {
	return &DirectoryService{
		roomRepo: roomRepo,
		userRepo: userRepo,
	}
}

// CreateOneToOne creates a one-to-one room and both memberships as a single
// transaction. No dedup check is made against an existing room for the same
// pair; repeated calls create a new room each time.
func (s *DirectoryService) CreateOneToOne(ctx context.Context, friendID, userID int64) (*domain.Chatroom, error) {
	if friendID == 0 {
		return nil, domain.NewValidation("friendId is required")
	}
	if userID == 0 {
		return nil, domain.NewValidation("userId is required")
	}

	room := domain.NewOneToOneChatroom(fmt.Sprintf("chatroom-%06d", rand.Intn(1000000)))
	created, err := s.roomRepo.CreateWithMembers(ctx, room, []int64{userID, friendID})
	if err != nil {
		return nil, domain.NewPersistence("failed to create one-to-one chatroom", err)
	}
	return created, nil
}

// CreateGroup creates a group room with the owner as its first member.
func (s *DirectoryService) CreateGroup(ctx context.Context, name string, ownerID int64) (*domain.Chatroom, error) {
	if name == "" {
		return nil, domain.NewValidation("name is required")
	}
	if ownerID == 0 {
		return nil, domain.NewValidation("userId is required")
	}

	room := domain.NewGroupChatroom(name)
	created, err := s.roomRepo.CreateWithMembers(ctx, room, []int64{ownerID})
	if err != nil {
		return nil, domain.NewPersistence("failed to create group chatroom", err)
	}
	return created, nil
}

// Join adds a user to a group room. Joining a one-to-one room is
// structurally disallowed. Join is not idempotent: a second join by the
// same user inserts a second membership row.
func (s *DirectoryService) Join(ctx context.Context, chatroomID, userID int64) error {
	room, err := s.getRoom(ctx, chatroomID)
	if err != nil {
		return err
	}
	if room.IsOneToOne() {
		return domain.NewInvalidOperation("cannot join a one-to-one chatroom")
	}

	if err := s.roomRepo.AddMember(ctx, chatroomID, userID); err != nil {
		return domain.NewPersistence("failed to join chatroom", err)
	}
	return nil
}

// Quit removes a user from a group room, deleting every membership row the
// user holds in it. Quitting a one-to-one room is structurally disallowed.
func (s *DirectoryService) Quit(ctx context.Context, chatroomID, userID int64) error {
	room, err := s.getRoom(ctx, chatroomID)
	if err != nil {
		return err
	}
	if room.IsOneToOne() {
		return domain.NewInvalidOperation("cannot quit a one-to-one chatroom")
	}

	if err := s.roomRepo.RemoveMember(ctx, chatroomID, userID); err != nil {
		return domain.NewPersistence("failed to quit chatroom", err)
	}
	return nil
}

// Members resolves a room's membership into ordered user summaries. The
// user lookup is one batched query over the distinct member ids.
func (s *DirectoryService) Members(ctx context.Context, chatroomID int64) ([]*domain.UserSummary, error) {
	if _, err := s.getRoom(ctx, chatroomID); err != nil {
		return nil, err
	}

	memberIDs, err := s.roomRepo.MemberIDs(ctx, chatroomID)
	if err != nil {
		return nil, domain.NewPersistence("failed to resolve memberships", err)
	}

	users, err := s.userRepo.GetByIDs(ctx, lo.Uniq(memberIDs))
	if err != nil {
		return nil, domain.NewPersistence("failed to resolve members", err)
	}
	return users, nil
}

// ListForUser returns every room the user belongs to, each annotated with
// its live member count and member ids. Membership resolution for all rooms
// happens in a single query.
func (s *DirectoryService) ListForUser(ctx context.Context, userID int64) ([]*domain.RoomSummary, error) {
	if userID == 0 {
		return nil, domain.NewValidation("userId is required")
	}

	roomIDs, err := s.roomRepo.RoomIDsForUser(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistence("failed to resolve user memberships", err)
	}

	rooms, err := s.roomRepo.GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, domain.NewPersistence("failed to load chatrooms", err)
	}

	membersByRoom, err := s.roomRepo.MemberIDsByRoom(ctx, roomIDs)
	if err != nil {
		return nil, domain.NewPersistence("failed to resolve memberships", err)
	}

	summaries := make([]*domain.RoomSummary, len(rooms))
	for i, room := range rooms {
		memberIDs := membersByRoom[room.ID]
		summaries[i] = &domain.RoomSummary{
			Room:        room,
			MemberCount: len(memberIDs),
			MemberIDs:   memberIDs,
		}
	}
	return summaries, nil
}

// Info returns the room's metadata with its resolved members.
func (s *DirectoryService) Info(ctx context.Context, chatroomID int64) (*domain.RoomInfo, error) {
	room, err := s.getRoom(ctx, chatroomID)
	if err != nil {
		return nil, err
	}

	members, err := s.Members(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	return &domain.RoomInfo{Room: room, Members: members}, nil
}

func (s *DirectoryService) getRoom(ctx context.Context, chatroomID int64) (*domain.Chatroom, error) {
	if chatroomID == 0 {
		return nil, domain.NewValidation("chatroomId is required")
	}
	room, err := s.roomRepo.GetByID(ctx, chatroomID)
	if err != nil {
		return nil, domain.NewPersistence("failed to load chatroom", err)
	}
	if room == nil {
		return nil, domain.NewNotFound("chatroom %d does not exist", chatroomID)
	}
	return room, nil
}
