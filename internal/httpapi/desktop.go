package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/bridge"
	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/service"
)

// DesktopHandler owns the hand-off surface between the dashboard and the
// desktop app: installer downloads, the auth hand-off, and the companion
// socket.
type DesktopHandler struct {
	auth   *service.AuthService
	hub    *bridge.Hub
	cfg    config.DesktopConfig
	logger *slog.Logger
}

func NewDesktopHandler(auth *service.AuthService, hub *bridge.Hub, cfg config.DesktopConfig, logger *slog.Logger) *DesktopHandler {
	return &DesktopHandler{auth: auth, hub: hub, cfg: cfg, logger: logger}
}

// Download resolves the installer for the caller's platform. An explicit
// ?platform= overrides User-Agent sniffing.
func (h *DesktopHandler) Download(c *gin.Context) {
	platform := c.Query("platform")
	if platform == "" {
		platform = bridge.DetectPlatform(c.GetHeader("User-Agent"))
	}
	target := bridge.DownloadTarget(h.cfg, platform)
	c.JSON(http.StatusOK, gin.H{
		"platform": platform,
		"url":      target.URL,
		"filename": target.Filename,
	})
}

// Handoff mints a short-lived token and routes it to the desktop app:
// pushed over the companion socket when one is connected, otherwise
// returned as a deep link for the browser to open. Exactly one path runs.
func (h *DesktopHandler) Handoff(c *gin.Context) {
	user := currentUser(c)

	token, err := h.auth.IssueCustomToken(c.Request.Context(), user.UID)
	if err != nil {
		h.logger.Error("failed to mint desktop token", "uid", user.UID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create custom token."})
		return
	}

	payload := bridge.HandoffPayload{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
	}

	if h.hub.Connected(user.UID) && h.hub.Send(user.UID, payload) {
		c.JSON(http.StatusOK, gin.H{"delivery": "socket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"delivery": "deeplink",
		"url":      bridge.DeepLink(h.cfg.Protocol, payload),
	})
}

// Socket upgrades the companion's connection. The session middleware has
// already authenticated the request.
func (h *DesktopHandler) Socket(c *gin.Context) {
	user := currentUser(c)
	if err := h.hub.ServeWS(c.Writer, c.Request, user.UID); err != nil {
		h.logger.Error("websocket upgrade failed", "uid", user.UID, "error", err)
	}
}
