package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/service"
)

type PresetHandler struct {
	presets *service.PresetService
}

func NewPresetHandler(presets *service.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

func (h *PresetHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.listPresets)
	r.POST("/", h.createPreset)
	r.PUT("/:id", h.updatePreset)
	r.DELETE("/:id", h.deletePreset)
}

type presetPayload struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

func decodePresetPayload(c *gin.Context) (presetPayload, error) {
	var payload presetPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return presetPayload{}, err
	}
	if payload.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return presetPayload{}, errEmptyField
	}
	if payload.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return presetPayload{}, errEmptyField
	}
	return payload, nil
}

func (h *PresetHandler) listPresets(c *gin.Context) {
	user := currentUser(c)
	presets, err := h.presets.List(c.Request.Context(), user.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presets)
}

func (h *PresetHandler) createPreset(c *gin.Context) {
	user := currentUser(c)
	payload, err := decodePresetPayload(c)
	if err != nil {
		return
	}

	preset, err := h.presets.Create(c.Request.Context(), user.UID, payload.Title, payload.Prompt)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, preset)
}

func (h *PresetHandler) updatePreset(c *gin.Context) {
	user := currentUser(c)
	payload, err := decodePresetPayload(c)
	if err != nil {
		return
	}

	preset, err := h.presets.Update(c.Request.Context(), user.UID, c.Param("id"), payload.Title, payload.Prompt)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, preset)
}

func (h *PresetHandler) deletePreset(c *gin.Context) {
	user := currentUser(c)
	if err := h.presets.Delete(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
