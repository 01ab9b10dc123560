package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"umkm-pos/internal/middleware"
	"umkm-pos/internal/ws"
	"umkm-pos/pkg/apperror"
)

// UpgradeWS lets websocket upgrades from users with a company through.
func UpgradeWS(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	profile := middleware.ProfileFrom(c)
	if !profile.HasCompany() {
		return apperror.Respond(c, apperror.Forbidden("user is not assigned to a company"))
	}
	c.Locals("ws_user_id", profile.ID)
	c.Locals("ws_company_id", *profile.CompanyID)
	return c.Next()
}

// ServeWS subscribes the connection to its company's events.
func ServeWS(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(uuid.UUID)
		companyID, _ := conn.Locals("ws_company_id").(uuid.UUID)
		hub.Serve(conn, userID, companyID)
	})
}
