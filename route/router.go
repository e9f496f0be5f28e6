package route

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"city311/api"
	"city311/dao"
	"city311/service"
)

func Register(r *gin.Engine, dlg *service.DialogueService, sessions dao.SessionStore, tickets *dao.TicketStore, log *zap.SugaredLogger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	chatGroup := r.Group("/chat")
	{
		chatGroup.POST("", api.ChatHandler(dlg, sessions, log)) // POST /chat
	}

	sessionGroup := r.Group("/session")
	{
		sessionGroup.DELETE("/:id", api.ResetSessionHandler(sessions))
	}

	ticketGroup := r.Group("/tickets")
	{
		ticketGroup.GET("", api.ListTicketsHandler(tickets))
		ticketGroup.GET("/export", api.ExportTicketsHandler(tickets))
	}
}
