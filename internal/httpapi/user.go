package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
	"github.com/reetreev/dashboard/internal/validate"
)

type UserHandler struct {
	users    *service.UserService
	profiles *service.ProfileService
	sessions *service.SessionService
	presets  *service.PresetService
}

func NewUserHandler(
	users *service.UserService,
	profiles *service.ProfileService,
	sessions *service.SessionService,
	presets *service.PresetService,
) *UserHandler {
	return &UserHandler{users: users, profiles: profiles, sessions: sessions, presets: presets}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.getProfile)
	r.PUT("/profile", h.updateProfile)
	r.DELETE("/profile", h.deleteAccount)
	r.GET("/apikey", h.apiKeyStatus)
	r.POST("/apikey", h.saveAPIKey)
	r.DELETE("/apikey", h.removeAPIKey)
}

func (h *UserHandler) getProfile(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, user)
}

type updateUserPayload struct {
	DisplayName string `json:"displayName"`
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	user := currentUser(c)
	var payload updateUserPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if result := validate.DisplayName(payload.DisplayName); !result.IsValid {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	displayName := strings.TrimSpace(payload.DisplayName)
	if err := h.users.UpdateDisplayName(c.Request.Context(), user.UID, displayName); err != nil {
		handleError(c, err)
		return
	}
	user.DisplayName = displayName
	c.JSON(http.StatusOK, user)
}

type apiKeyPayload struct {
	APIKey string `json:"apiKey"`
}

// apiKeyStatus reports presence only; the sealed key is never returned.
func (h *UserHandler) apiKeyStatus(c *gin.Context) {
	user := currentUser(c)
	hasKey, err := h.profiles.UserKeyStatus(c.Request.Context(), user.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasApiKey": hasKey})
}

func (h *UserHandler) saveAPIKey(c *gin.Context) {
	user := currentUser(c)
	var payload apiKeyPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if strings.TrimSpace(payload.APIKey) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey is required"})
		return
	}
	if err := h.profiles.SaveUserKey(c.Request.Context(), user.UID, payload.APIKey); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) removeAPIKey(c *gin.Context) {
	user := currentUser(c)
	if err := h.profiles.RemoveUserKey(c.Request.Context(), user.UID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) deleteAccount(c *gin.Context) {
	user := currentUser(c)
	if err := h.users.DeleteAccount(c.Request.Context(), user.UID); err != nil {
		handleError(c, err)
		return
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Batch serves GET /api/v1/batch?include=profile,sessions,presets. The
// requested collections are fetched concurrently and keyed by name.
func (h *UserHandler) Batch(c *gin.Context) {
	user := currentUser(c)
	include := c.DefaultQuery("include", "profile,sessions,presets")

	wanted := make(map[string]bool)
	for _, part := range strings.Split(include, ",") {
		if part = strings.TrimSpace(part); part != "" {
			wanted[part] = true
		}
	}

	var (
		profile  *domain.UserProfile
		sessions []domain.Session
		presets  []domain.PromptPreset
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	if wanted["profile"] {
		g.Go(func() error {
			stored, err := h.users.Get(ctx, user.UID)
			if err != nil {
				return err
			}
			profile = &stored
			return nil
		})
	}
	if wanted["sessions"] {
		g.Go(func() error {
			var err error
			sessions, err = h.sessions.ListSessions(ctx, user.UID)
			return err
		})
	}
	if wanted["presets"] {
		g.Go(func() error {
			var err error
			presets, err = h.presets.List(ctx, user.UID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		handleError(c, err)
		return
	}

	response := gin.H{}
	if wanted["profile"] {
		response["profile"] = profile
	}
	if wanted["sessions"] {
		response["sessions"] = renderSessions(sessions)
	}
	if wanted["presets"] {
		response["presets"] = presets
	}
	c.JSON(http.StatusOK, response)
}
