package http

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/xiaoqingming18/qm-chat-server/internal/auth"
	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/realtime"
	"github.com/xiaoqingming18/qm-chat-server/internal/service"
)

type ServerConfig struct {
	Address        string
	SendBufferSize int
}

type Server struct {
	app     *fiber.App
	handler *Handler
	config  ServerConfig
}

func NewServer(
	directory *service.DirectoryService,
	history *service.HistoryService,
	registry *realtime.Registry,
	broadcaster *realtime.Broadcaster,
	gateway *realtime.Gateway,
	verifier *auth.Verifier,
	config ServerConfig,
	log zerolog.Logger,
) *Server {
	handler := NewHandler(directory, history, registry, broadcaster, gateway, config.SendBufferSize, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
	})

	s := &Server{
		app:     app,
		handler: handler,
		config:  config,
	}
	s.registerRoutes(verifier)
	return s
}

func (s *Server) registerRoutes(verifier *auth.Verifier) {
	requireLogin := RequireLogin(verifier)

	chatroom := s.app.Group("/chatroom", requireLogin)
	chatroom.Get("/create-one-to-one", s.handler.CreateOneToOne)
	chatroom.Get("/create-group", s.handler.CreateGroup)
	chatroom.Get("/members", s.handler.Members)
	chatroom.Get("/list", s.handler.ListForUser)
	chatroom.Get("/info/:id", s.handler.Info)
	chatroom.Get("/join/:id", s.handler.Join)
	chatroom.Get("/quit/:id", s.handler.Quit)

	history := s.app.Group("/chat-history", requireLogin)
	history.Get("/list", s.handler.History)
	history.Post("/add", s.handler.AppendMessage)

	s.app.Use("/ws", UpgradeGuard(verifier))
	s.app.Get("/ws", websocket.New(s.handler.ServeWebSocket))
}

func (s *Server) Start() error {
	return s.app.Listen(s.config.Address)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler maps domain error codes to HTTP statuses and renders the
// structured {code, message} body every domain failure carries.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *domain.Error
		if errors.As(err, &de) {
			status := statusForCode(de.Code)
			if status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return c.Status(status).JSON(fiber.Map{
				"code":    de.Code,
				"message": de.Message,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"code":    "http_error",
				"message": fe.Message,
			})
		}

		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    domain.CodePersistence,
			"message": "internal error",
		})
	}
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidOperation:
		return fiber.StatusBadRequest
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
