package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/service"
)

// CallbackHandler preserves the verification contract the desktop app was
// built against: POST {token} in, user claims plus a fresh custom token out.
type CallbackHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewCallbackHandler(auth *service.AuthService, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{auth: auth, logger: logger}
}

func (h *CallbackHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"error":   "Method Not Allowed. Use POST.",
		})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body.",
		})
		return
	}

	raw, ok := body["token"].(string)
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "ID token is required and must be a string.",
		})
		return
	}

	token := strings.TrimSpace(raw)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "ID token cannot be empty.",
		})
		return
	}

	claims, customToken, err := h.auth.VerifyIDToken(c.Request.Context(), token)
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid or expired ID token.",
		})
		return
	case err != nil:
		h.logger.Error("auth callback failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error during authentication.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Authentication successful.",
		"user":        claims,
		"customToken": customToken,
	})
}
