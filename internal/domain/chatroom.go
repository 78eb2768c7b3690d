package domain

import "time"

type RoomKind string

const (
	RoomKindOneToOne RoomKind = "one_to_one"
	RoomKindGroup    RoomKind = "group"
)

type Chatroom struct {
	ID        int64
	Name      string
	Kind      RoomKind
	CreatedAt time.Time
}

func (c *Chatroom) IsOneToOne() bool {
	return c != nil && c.Kind == RoomKindOneToOne
}

// Membership ties a user to a chatroom. One-to-one rooms carry exactly two
// memberships for their entire lifetime; group memberships are mutable.
type Membership struct {
	ID         int64
	ChatroomID int64
	UserID     int64
	CreatedAt  time.Time
}

// RoomSummary is a chatroom annotated with its live membership, as returned
// by the per-user room listing.
type RoomSummary struct {
	Room        *Chatroom
	MemberCount int
	MemberIDs   []int64
}

// RoomInfo is the full room view: metadata plus resolved member identities.
type RoomInfo struct {
	Room    *Chatroom
	Members []*UserSummary
}

func NewOneToOneChatroom(name string) *Chatroom {
	return &Chatroom{
		Name: name,
		Kind: RoomKindOneToOne,
	}
}

func NewGroupChatroom(name string) *Chatroom {
	return &Chatroom{
		Name: name,
		Kind: RoomKindGroup,
	}
}
