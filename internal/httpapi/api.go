package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
)

const (
	// SessionCookie carries the web session token.
	SessionCookie = "reetreev_session"

	ctxUserKey    = "authUser"
	ctxSessionKey = "authSession"
)

// errEmptyField signals the decoder already wrote the 400 response.
var errEmptyField = errors.New("required field missing")

// tokenFromRequest reads the session token from the Authorization header or
// the session cookie, in that order. Websocket upgrades may pass it as a
// query parameter instead.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if tok, found := strings.CutPrefix(header, "Bearer "); found {
			return tok
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// requireSession resolves the request's token to a user and aborts with 401
// when it cannot.
func requireSession(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, session, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxSessionKey, session)
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.UserProfile {
	return c.MustGet(ctxUserKey).(domain.UserProfile)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserDisabled),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrTooManyRequests):
		code := service.AuthErrorCode(err)
		status := http.StatusUnauthorized
		switch code {
		case "email-already-in-use":
			status = http.StatusConflict
		case "weak-password":
			status = http.StatusBadRequest
		case "too-many-requests":
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": service.AuthErrorMessage(code), "code": code})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
	case errors.Is(err, service.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrPresetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
	case errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrInvalidProvider):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider"})
	case errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message role"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
