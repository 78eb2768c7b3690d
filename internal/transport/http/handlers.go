package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/realtime"
	"github.com/xiaoqingming18/qm-chat-server/internal/service"
)

type Handler struct {
	directory   *service.DirectoryService
	history     *service.HistoryService
	registry    *realtime.Registry
	broadcaster *realtime.Broadcaster
	gateway     *realtime.Gateway
	bufferSize  int
	log         zerolog.Logger
}

func NewHandler(
	directory *service.DirectoryService,
	history *service.HistoryService,
	registry *realtime.Registry,
	broadcaster *realtime.Broadcaster,
	gateway *realtime.Gateway,
	bufferSize int,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		directory:   directory,
		history:     history,
		registry:    registry,
		broadcaster: broadcaster,
		gateway:     gateway,
		bufferSize:  bufferSize,
		log:         log,
	}
}

// Response DTOs

type roomJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

type userJSON struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarRef   string    `json:"avatarRef,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type roomSummaryJSON struct {
	roomJSON
	MemberCount int     `json:"memberCount"`
	MemberIDs   []int64 `json:"memberIds"`
}

type historyEntryJSON struct {
	ID         int64     `json:"id"`
	ChatroomID int64     `json:"chatroomId"`
	SenderID   int64     `json:"senderId"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	Sender     *userJSON `json:"sender,omitempty"`
}

func toRoomJSON(room *domain.Chatroom) roomJSON {
	return roomJSON{
		ID:        room.ID,
		Name:      room.Name,
		Kind:      string(room.Kind),
		CreatedAt: room.CreatedAt,
	}
}

func toUserJSON(u *domain.UserSummary) *userJSON {
	if u == nil {
		return nil
	}
	return &userJSON{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarRef:   u.AvatarRef,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

// Chatroom surface

func (h *Handler) CreateOneToOne(c *fiber.Ctx) error {
	friendID := c.QueryInt("friendId")
	if friendID == 0 {
		return domain.NewValidation("friendId is required")
	}

	room, err := h.directory.CreateOneToOne(c.Context(), int64(friendID), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(toRoomJSON(room))
}

func (h *Handler) CreateGroup(c *fiber.Ctx) error {
	room, err := h.directory.CreateGroup(c.Context(), c.Query("name"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(toRoomJSON(room))
}

func (h *Handler) Members(c *fiber.Ctx) error {
	chatroomID := c.QueryInt("chatroomId")
	if chatroomID == 0 {
		return domain.NewValidation("chatroomId is required")
	}

	members, err := h.directory.Members(c.Context(), int64(chatroomID))
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(members, func(u *domain.UserSummary, _ int) *userJSON {
		return toUserJSON(u)
	}))
}

func (h *Handler) ListForUser(c *fiber.Ctx) error {
	summaries, err := h.directory.ListForUser(c.Context(), currentUserID(c))
	if err != nil {
		return err
	}

	out := make([]roomSummaryJSON, len(summaries))
	for i, s := range summaries {
		out[i] = roomSummaryJSON{
			roomJSON:    toRoomJSON(s.Room),
			MemberCount: s.MemberCount,
			MemberIDs:   s.MemberIDs,
		}
	}
	return c.JSON(out)
}

func (h *Handler) Info(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id == 0 {
		return domain.NewValidation("id is required")
	}

	info, err := h.directory.Info(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"room": toRoomJSON(info.Room),
		"members": lo.Map(info.Members, func(u *domain.UserSummary, _ int) *userJSON {
			return toUserJSON(u)
		}),
	})
}

func (h *Handler) Join(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id == 0 {
		return domain.NewValidation("id is required")
	}
	joinUserID := c.QueryInt("joinUserId")
	if joinUserID == 0 {
		return domain.NewValidation("joinUserId is required")
	}

	if err := h.directory.Join(c.Context(), int64(id), int64(joinUserID)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "joined"})
}

func (h *Handler) Quit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id == 0 {
		return domain.NewValidation("id is required")
	}
	quitUserID := c.QueryInt("quitUserId")
	if quitUserID == 0 {
		return domain.NewValidation("quitUserId is required")
	}

	if err := h.directory.Quit(c.Context(), int64(id), int64(quitUserID)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "quit"})
}

// History surface

func (h *Handler) History(c *fiber.Ctx) error {
	chatroomID := c.QueryInt("chatroomId")
	if chatroomID == 0 {
		return domain.NewValidation("chatroomId is required")
	}

	entries, err := h.history.List(c.Context(), int64(chatroomID))
	if err != nil {
		return err
	}

	out := make([]historyEntryJSON, len(entries))
	for i, e := range entries {
		out[i] = historyEntryJSON{
			ID:         e.Message.ID,
			ChatroomID: e.Message.ChatroomID,
			SenderID:   e.Message.SenderID,
			Type:       string(e.Message.Kind),
			Content:    e.Message.Content,
			CreatedAt:  e.Message.CreatedAt,
			Sender:     toUserJSON(e.Sender),
		}
	}
	return c.JSON(out)
}

type appendMessageRequest struct {
	ChatroomID int64  `json:"chatroomId"`
	SenderID   int64  `json:"senderId"`
	Type       string `json:"type"`
	Content    string `json:"content"`
}

func (h *Handler) AppendMessage(c *fiber.Ctx) error {
	var req appendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidation("malformed request body: %v", err)
	}

	msg, err := h.history.Append(c.Context(), req.ChatroomID, req.SenderID, domain.MessageKind(req.Type), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(historyEntryJSON{
		ID:         msg.ID,
		ChatroomID: msg.ChatroomID,
		SenderID:   msg.SenderID,
		Type:       string(msg.Kind),
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	})
}

// Real-time channel

// ServeWebSocket owns one connection's lifecycle: register, serve the read
// loop, and tear everything down on disconnect.
func (h *Handler) ServeWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals(localUserID).(int64)
	connID := uuid.NewString()

	client := realtime.NewClient(conn, h.gateway, connID, userID, h.bufferSize, h.log)
	h.registry.Register(connID, userID)
	h.broadcaster.Attach(connID, client)

	h.log.Info().Str("conn_id", connID).Int64("user_id", userID).Msg("connection established")

	defer func() {
		h.broadcaster.Detach(connID)
		h.registry.Unregister(connID)
		conn.Close()
		h.log.Info().Str("conn_id", connID).Int64("user_id", userID).Msg("connection closed")
	}()

	client.Serve(context.Background())
}
