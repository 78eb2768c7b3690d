package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

// HistoryAppender is the slice of the history store the gateway needs:
// durable persistence of an inbound message before any fan-out.
type HistoryAppender interface {
	Append(ctx context.Context, chatroomID, senderID int64, kind domain.MessageKind, content string) (*domain.ChatMessage, error)
}

// Envelope is the inbound frame: an event name selecting a handler from the
// command table, plus that handler's payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	ChatroomID int64 `json:"chatroomId" validate:"required"`
	UserID     int64 `json:"userId" validate:"required"`
}

type sendMessagePayload struct {
	SendUserID int64           `json:"sendUserId" validate:"required"`
	ChatroomID int64           `json:"chatroomId" validate:"required"`
	Message    *messagePayload `json:"message" validate:"required"`
}

type messagePayload struct {
	Type    string `json:"type" validate:"required,oneof=text image"`
	Content string `json:"content" validate:"required"`
}

type handlerFunc func(ctx context.Context, connID string, data json.RawMessage) error

// Gateway dispatches inbound events from live connections. Each event is a
// one-shot transition: joinRoom updates the registry and announces the join;
// sendMessage persists, then broadcasts. Errors are returned to the caller
// so the transport can report them to the originating connection only.
type Gateway struct {
	registry     *Registry
	broadcaster  *Broadcaster
	history      HistoryAppender
	validate     *validator.Validate
	storeTimeout time.Duration
	log          zerolog.Logger
	handlers     map[string]handlerFunc
}

func NewGateway(
	registry *Registry,
	broadcaster *Broadcaster,
	history HistoryAppender,
	storeTimeout time.Duration,
	log zerolog.Logger,
) *Gateway {
	g := &Gateway{
		registry:     registry,
		broadcaster:  broadcaster,
		history:      history,
		validate:     validator.New(),
		storeTimeout: storeTimeout,
		log:          log,
	}
	g.handlers = map[string]handlerFunc{
		domain.EventTypeJoinRoom:    g.handleJoinRoom,
		domain.EventTypeSendMessage: g.handleSendMessage,
	}
	return g
}

// Dispatch routes one inbound frame to its handler. The payload is decoded
// and validated against the handler's schema before any side effect runs.
func (g *Gateway) Dispatch(ctx context.Context, connID string, frame []byte) error {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return domain.NewValidation("malformed frame: %v", err)
	}

	handler, ok := g.handlers[env.Event]
	if !ok {
		return domain.NewValidation("unknown event %q", env.Event)
	}
	return handler(ctx, connID, env.Data)
}

// handleJoinRoom adds the connection to the room and announces the join to
// everyone already there. No directory membership check is made first: a
// connection may declare itself joined to any room.
func (g *Gateway) handleJoinRoom(ctx context.Context, connID string, data json.RawMessage) error {
	var payload joinRoomPayload
	if err := g.decode(data, &payload); err != nil {
		return err
	}

	g.registry.JoinRoom(connID, payload.ChatroomID)
	g.broadcaster.Broadcast(payload.ChatroomID, domain.NewJoinedRoomEvent(payload.ChatroomID, payload.UserID))

	g.log.Debug().
		Str("conn_id", connID).
		Int64("chatroom_id", payload.ChatroomID).
		Int64("user_id", payload.UserID).
		Msg("connection joined room")
	return nil
}

// handleSendMessage persists the message, then fans it out. Persistence must
// complete before the broadcast is invoked; if it fails, no broadcast occurs
// and the failure surfaces to the sender only.
func (g *Gateway) handleSendMessage(ctx context.Context, connID string, data json.RawMessage) error {
	var payload sendMessagePayload
	if err := g.decode(data, &payload); err != nil {
		return err
	}

	storeCtx, cancel := context.WithTimeout(ctx, g.storeTimeout)
	defer cancel()

	msg, err := g.history.Append(
		storeCtx,
		payload.ChatroomID,
		payload.SendUserID,
		domain.MessageKind(payload.Message.Type),
		payload.Message.Content,
	)
	if err != nil {
		g.log.Warn().
			Str("conn_id", connID).
			Int64("chatroom_id", payload.ChatroomID).
			Err(err).
			Msg("message not persisted, skipping broadcast")
		return err
	}

	g.broadcaster.Broadcast(payload.ChatroomID, domain.NewMessageEvent(msg))
	return nil
}

func (g *Gateway) decode(data json.RawMessage, payload any) error {
	if len(data) == 0 {
		return domain.NewValidation("missing event payload")
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return domain.NewValidation("malformed event payload: %v", err)
	}
	if err := g.validate.Struct(payload); err != nil {
		return domain.NewValidation("invalid event payload: %v", err)
	}
	return nil
}
