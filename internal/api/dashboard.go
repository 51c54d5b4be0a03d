package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wburns02/ReactCRM-sub015/internal/database"
	"github.com/wburns02/ReactCRM-sub015/internal/sms"
	"github.com/wburns02/ReactCRM-sub015/pkg/models"
)

type DashboardHandler struct {
	Client *sms.Client
}

func NewDashboardHandler(client *sms.Client) *DashboardHandler {
	return &DashboardHandler{Client: client}
}

func (h *DashboardHandler) GetOutcomes(c *gin.Context) {
	rows, err := database.DB.Query("SELECT id, contact_id, status, occurred_at, created_at FROM call_outcomes ORDER BY occurred_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	var outcomes []models.CallOutcomeRecord
	for rows.Next() {
		var o models.CallOutcomeRecord
		if err := rows.Scan(&o.ID, &o.ContactID, &o.Status, &o.OccurredAt, &o.CreatedAt); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		outcomes = append(outcomes, o)
	}

	if outcomes == nil {
		outcomes = []models.CallOutcomeRecord{}
	}
	c.JSON(http.StatusOK, outcomes)
}

type SendRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// SendSms sends a one-off message outside any sequence (operator action)
func (h *DashboardHandler) SendSms(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	to, err := sms.NormalizePhone(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Client.Send(to, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Message sent"})
}
