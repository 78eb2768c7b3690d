package domain

import "time"

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
)

func (k MessageKind) Valid() bool {
	return k == MessageKindText || k == MessageKindImage
}

// ChatMessage is one entry in a chatroom's append-only history. Immutable
// once persisted; history ordering is CreatedAt ascending with ID as the
// tiebreak.
type ChatMessage struct {
	ID         int64
	ChatroomID int64
	SenderID   int64
	Kind       MessageKind
	Content    string
	CreatedAt  time.Time
}

// HistoryEntry is a ChatMessage joined with a lightweight sender profile.
type HistoryEntry struct {
	Message *ChatMessage
	Sender  *UserSummary
}

func NewChatMessage(chatroomID, senderID int64, kind MessageKind, content string) *ChatMessage {
	return &ChatMessage{
		ChatroomID: chatroomID,
		SenderID:   senderID,
		Kind:       kind,
		Content:    content,
	}
}
