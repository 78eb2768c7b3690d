package http

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/xiaoqingming18/qm-chat-server/internal/auth"
	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

const localUserID = "userId"

// RequireLogin resolves the caller's identity from the Authorization header
// once and stores it for the handler chain. Token issuance belongs to the
// external auth service; only verification happens here.
func RequireLogin(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return domain.NewUnauthorized("missing access token", nil)
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			return err
		}

		c.Locals(localUserID, claims.UserID)
		return c.Next()
	}
}

// UpgradeGuard authenticates the websocket handshake. The token travels as
// a query parameter since browsers cannot set headers on upgrade requests.
func UpgradeGuard(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := verifier.Verify(c.Query("token"))
		if err != nil {
			return err
		}

		c.Locals(localUserID, claims.UserID)
		return c.Next()
	}
}

// currentUserID returns the identity resolved at handshake or request time.
func currentUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localUserID).(int64)
	return id
}
