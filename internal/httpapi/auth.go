package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/authstate"
	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
	"github.com/reetreev/dashboard/internal/validate"
)

type AuthHandler struct {
	auth     *service.AuthService
	observer *authstate.Observer
	logger   *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, observer *authstate.Observer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, observer: observer, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/signup", h.signUp)
	r.POST("/login", h.logIn)
	r.POST("/logout", h.logOut)
	r.GET("/session", h.session)
	r.POST("/reset", h.requestReset)
	r.POST("/reset/confirm", h.confirmReset)
}

type signUpPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DisplayName     string `json:"displayName"`
}

func (h *AuthHandler) signUp(c *gin.Context) {
	var payload signUpPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	// Field errors come back as a name-to-message map for inline rendering.
	if result := validate.SignupFormData(validate.SignupForm{
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
		DisplayName:     payload.DisplayName,
	}); !result.IsValid {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	email := strings.TrimSpace(payload.Email)
	displayName := strings.TrimSpace(payload.DisplayName)

	user, session, err := h.auth.SignUp(c.Request.Context(), email, payload.Password, displayName)
	if err != nil {
		handleError(c, err)
		return
	}

	h.notifySession(c, &user)
	h.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": session.Token})
}

type logInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) logIn(c *gin.Context) {
	var payload logInPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if result := validate.LoginFormData(validate.LoginForm{
		Email:    payload.Email,
		Password: payload.Password,
	}); !result.IsValid {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	user, session, err := h.auth.SignIn(c.Request.Context(), strings.TrimSpace(payload.Email), payload.Password)
	if err != nil {
		h.logger.Info("login rejected", "email", payload.Email, "error", err)
		handleError(c, err)
		return
	}

	h.notifySession(c, &user)
	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": session.Token})
}

func (h *AuthHandler) logOut(c *gin.Context) {
	if token := tokenFromRequest(c); token != "" {
		if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
			h.logger.Error("failed to revoke session", "error", err)
		}
	}
	h.notifySession(c, nil)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) session(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, _, err := h.auth.Verify(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

func (h *AuthHandler) requestReset(c *gin.Context) {
	var payload resetRequestPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if result := validate.PasswordResetFormData(validate.PasswordResetForm{
		Email: payload.Email,
	}); !result.IsValid {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	reset, err := h.auth.RequestPasswordReset(c.Request.Context(), strings.TrimSpace(payload.Email))
	if err != nil {
		// Unknown addresses get the same answer as known ones.
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusOK, gin.H{"message": "If an account exists, a reset link has been sent."})
			return
		}
		handleError(c, err)
		return
	}

	// There is no mail transport here; the token is returned to the caller,
	// which forwards it through its own channel.
	c.JSON(http.StatusOK, gin.H{
		"message":    "If an account exists, a reset link has been sent.",
		"resetToken": reset.Token,
	})
}

type resetConfirmPayload struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) confirmReset(c *gin.Context) {
	var payload resetConfirmPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), payload.Token, payload.NewPassword); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated. Please sign in again."})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session domain.AuthSession) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(SessionCookie, session.Token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) notifySession(c *gin.Context, user *domain.UserProfile) {
	if h.observer == nil {
		return
	}
	var claims *service.IdentityClaims
	if user != nil {
		claims = &service.IdentityClaims{
			UID:   user.UID,
			Email: user.Email,
			Name:  user.DisplayName,
		}
	}
	h.observer.OnSessionChange(c.Request.Context(), claims)
}
