package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.listProfiles)
	r.POST("/", h.createProfile)
	r.GET("/default", h.getDefault)
	r.GET("/:id", h.getProfile)
	r.PUT("/:id", h.updateProfile)
	r.DELETE("/:id", h.deleteProfile)
	r.PUT("/:id/default", h.setDefault)
}

type profilePayload struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Model        *string          `json:"model"`
	Provider     *domain.Provider `json:"provider"`
	APIKey       *string          `json:"apiKey"`
	Temperature  *float64         `json:"temperature"`
	MaxTokens    *int             `json:"maxTokens"`
	SystemPrompt *string          `json:"systemPrompt"`
	IsDefault    *bool            `json:"isDefault"`
	IsActive     *bool            `json:"isActive"`
}

func decodeProfilePayload(c *gin.Context) (profilePayload, error) {
	var payload profilePayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return profilePayload{}, err
	}
	return payload, nil
}

func (h *ProfileHandler) listProfiles(c *gin.Context) {
	user := currentUser(c)
	profiles, err := h.profiles.List(c.Request.Context(), user.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) createProfile(c *gin.Context) {
	user := currentUser(c)
	payload, err := decodeProfilePayload(c)
	if err != nil {
		return
	}
	if payload.Name == nil || *payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if payload.Provider == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider is required"})
		return
	}

	data := service.CreateProfileData{
		Name:     *payload.Name,
		Provider: *payload.Provider,
		APIKey:   payload.APIKey,
	}
	if payload.Description != nil {
		data.Description = *payload.Description
	}
	if payload.Model != nil {
		data.Model = *payload.Model
	}
	if payload.Temperature != nil {
		data.Temperature = *payload.Temperature
	}
	if payload.MaxTokens != nil {
		data.MaxTokens = *payload.MaxTokens
	}
	if payload.SystemPrompt != nil {
		data.SystemPrompt = *payload.SystemPrompt
	}
	if payload.IsDefault != nil {
		data.IsDefault = *payload.IsDefault
	}

	profile, err := h.profiles.Create(c.Request.Context(), user.UID, data)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) getProfile(c *gin.Context) {
	user := currentUser(c)
	profile, err := h.profiles.Get(c.Request.Context(), user.UID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) updateProfile(c *gin.Context) {
	user := currentUser(c)
	payload, err := decodeProfilePayload(c)
	if err != nil {
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), user.UID, c.Param("id"), service.UpdateProfileData{
		Name:         payload.Name,
		Description:  payload.Description,
		Model:        payload.Model,
		Provider:     payload.Provider,
		APIKey:       payload.APIKey,
		Temperature:  payload.Temperature,
		MaxTokens:    payload.MaxTokens,
		SystemPrompt: payload.SystemPrompt,
		IsDefault:    payload.IsDefault,
		IsActive:     payload.IsActive,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) deleteProfile(c *gin.Context) {
	user := currentUser(c)
	if err := h.profiles.Delete(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) getDefault(c *gin.Context) {
	user := currentUser(c)
	profile, err := h.profiles.GetDefault(c.Request.Context(), user.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) setDefault(c *gin.Context) {
	user := currentUser(c)
	if err := h.profiles.SetDefault(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "default profile updated"})
}
