package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.listSessions)
	r.POST("/", h.createSession)
	r.GET("/search", h.searchSessions)
	r.GET("/:id", h.getSessionDetails)
	r.DELETE("/:id", h.deleteSession)
	r.POST("/:id/end", h.endSession)
	r.POST("/:id/transcripts", h.addTranscript)
	r.POST("/:id/messages", h.addMessage)
	r.PUT("/:id/summary", h.setSummary)
}

func (h *SessionHandler) listSessions(c *gin.Context) {
	user := currentUser(c)
	sessions, err := h.sessions.ListSessions(c.Request.Context(), user.UID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderSessions(sessions))
}

type createSessionPayload struct {
	Title string `json:"title"`
}

func (h *SessionHandler) createSession(c *gin.Context) {
	user := currentUser(c)
	var payload createSessionPayload
	if c.Request.ContentLength > 0 {
		if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), user.UID, payload.Title)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderSession(session))
}

func (h *SessionHandler) searchSessions(c *gin.Context) {
	user := currentUser(c)
	sessions, err := h.sessions.SearchConversations(c.Request.Context(), user.UID, c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderSessions(sessions))
}

func (h *SessionHandler) getSessionDetails(c *gin.Context) {
	user := currentUser(c)
	details, err := h.sessions.GetSessionDetails(c.Request.Context(), user.UID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderSessionDetails(details))
}

func (h *SessionHandler) deleteSession(c *gin.Context) {
	user := currentUser(c)
	if err := h.sessions.DeleteSession(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) endSession(c *gin.Context) {
	user := currentUser(c)
	if err := h.sessions.EndSession(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

type transcriptPayload struct {
	StartAt *int64  `json:"start_at"`
	EndAt   *int64  `json:"end_at"`
	Speaker *string `json:"speaker"`
	Text    string  `json:"text"`
	Lang    *string `json:"lang"`
}

func (h *SessionHandler) addTranscript(c *gin.Context) {
	user := currentUser(c)
	var payload transcriptPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if payload.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	transcript := domain.Transcript{
		SessionID: c.Param("id"),
		Speaker:   payload.Speaker,
		Text:      payload.Text,
		Lang:      payload.Lang,
	}
	if payload.StartAt != nil {
		transcript.StartAt = domain.FromMillis(*payload.StartAt)
	} else {
		transcript.StartAt = time.Now().UTC()
	}
	if payload.EndAt != nil {
		endAt := domain.FromMillis(*payload.EndAt)
		transcript.EndAt = &endAt
	}

	created, err := h.sessions.AddTranscript(c.Request.Context(), user.UID, transcript)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderTranscript(created))
}

type messagePayload struct {
	SentAt  *int64  `json:"sent_at"`
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Tokens  *int    `json:"tokens"`
	Model   *string `json:"model"`
}

func (h *SessionHandler) addMessage(c *gin.Context) {
	user := currentUser(c)
	var payload messagePayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if payload.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	message := domain.AiMessage{
		SessionID: c.Param("id"),
		Role:      domain.MessageRole(payload.Role),
		Content:   payload.Content,
		Tokens:    payload.Tokens,
		Model:     payload.Model,
	}
	if payload.SentAt != nil {
		message.SentAt = domain.FromMillis(*payload.SentAt)
	}

	created, err := h.sessions.AddMessage(c.Request.Context(), user.UID, message)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderMessage(created))
}

type summaryPayload struct {
	Model      *string `json:"model"`
	Text       string  `json:"text"`
	TLDR       string  `json:"tldr"`
	BulletJSON string  `json:"bullet_json"`
	ActionJSON string  `json:"action_json"`
	TokensUsed *int    `json:"tokens_used"`
}

func (h *SessionHandler) setSummary(c *gin.Context) {
	user := currentUser(c)
	var payload summaryPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	summary, err := h.sessions.SetSummary(c.Request.Context(), user.UID, domain.Summary{
		SessionID:  c.Param("id"),
		Model:      payload.Model,
		Text:       payload.Text,
		TLDR:       payload.TLDR,
		BulletJSON: payload.BulletJSON,
		ActionJSON: payload.ActionJSON,
		TokensUsed: payload.TokensUsed,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderSummary(summary))
}
