package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"city311/dao"
	"city311/model"
	"city311/service"
)

// ChatHandler is the single conversational entry point. It owns the
// session lifecycle around each turn: load (or create), process one
// utterance, save back.
func ChatHandler(dlg *service.DialogueService, sessions dao.SessionStore, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}

		ctx := c.Request.Context()

		var session *model.Session
		if req.SessionID != "" {
			loaded, err := sessions.Get(ctx, req.SessionID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session load failed"})
				return
			}
			session = loaded
		}
		if session == nil {
			session = dlg.NewSession()
			log.Infow("session created", "session_id", session.ID)
		}

		replies := dlg.Process(ctx, session, req.Message)

		if err := sessions.Save(ctx, session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
			return
		}

		resp := model.ChatResponse{
			SessionID: session.ID,
			Replies:   replies,
			State:     session.State,
			City:      session.CityProfile.City,
		}
		if session.Collecting() {
			resp.AwaitingField = session.PendingFields[0]
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ResetSessionHandler discards a session entirely (the in-conversation
// 'reset' keyword only clears the active form).
func ResetSessionHandler(sessions dao.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
			return
		}
		if err := sessions.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
