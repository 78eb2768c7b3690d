package domain

// Room event type tags as they appear on the wire.
const (
	EventTypeJoinRoom    = "joinRoom"
	EventTypeSendMessage = "sendMessage"
)

// MessagePayload mirrors the client-facing message shape: a kind plus raw
// content (text body or image reference).
type MessagePayload struct {
	Type    MessageKind `json:"type"`
	Content string      `json:"content"`
}

// RoomEvent is the outbound envelope fanned out to every connection joined
// to a room. ChatroomID tags the originating room so a connection joined to
// several rooms can tell deliveries apart.
type RoomEvent struct {
	Type       string          `json:"type"`
	ChatroomID int64           `json:"chatroomId"`
	UserID     int64           `json:"userId"`
	Message    *MessagePayload `json:"message,omitempty"`
}

func NewJoinedRoomEvent(chatroomID, userID int64) RoomEvent {
	return RoomEvent{
		Type:       EventTypeJoinRoom,
		ChatroomID: chatroomID,
		UserID:     userID,
	}
}

func NewMessageEvent(msg *ChatMessage) RoomEvent {
	return RoomEvent{
		Type:       EventTypeSendMessage,
		ChatroomID: msg.ChatroomID,
		UserID:     msg.SenderID,
		Message: &MessagePayload{
			Type:    msg.Kind,
			Content: msg.Content,
		},
	}
}
