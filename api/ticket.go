package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"city311/dao"
)

func ListTicketsHandler(tickets *dao.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := tickets.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tickets": list, "total": len(list)})
	}
}

// ExportTicketsHandler streams every ticket as CSV, one row per
// ticket.
func ExportTicketsHandler(tickets *dao.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="tickets.csv"`)
		if err := tickets.ExportCSV(c.Request.Context(), c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
}
