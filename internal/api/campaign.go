package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
)

type CampaignHandler struct {
	Engine *campaign.Engine
}

func NewCampaignHandler(engine *campaign.Engine) *CampaignHandler {
	return &CampaignHandler{Engine: engine}
}

// GetPlan returns the active day plan with per-block consumption
func (h *CampaignHandler) GetPlan(c *gin.Context) {
	plan := h.Engine.Plan()
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No day planned yet"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

type PlanDayRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

// PlanDay builds the block plan for a date and makes it active
func (h *CampaignHandler) PlanDay(c *gin.Context) {
	var req PlanDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	blocks := h.Engine.PlanDay(date)
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "blocks": blocks})
}

type OutcomeRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds, defaults to now
}

// RecordOutcome records one completed call against the day plan and pacing window
func (h *CampaignHandler) RecordOutcome(c *gin.Context) {
	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := campaign.ParseContactCallStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts := time.Now()
	if req.Timestamp > 0 {
		ts = time.UnixMilli(req.Timestamp)
	}

	ev := campaign.CallOutcome{ContactID: req.ContactID, Status: status, Timestamp: ts}
	if err := h.Engine.RecordCallOutcome(ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Outcome recorded",
		"pacing": h.Engine.PacingSignal(),
	})
}

// GetPacing returns the current pacing signal
func (h *CampaignHandler) GetPacing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"signal": h.Engine.PacingSignal()})
}

type EnqueueRequest struct {
	Contact campaign.Contact `json:"contact" binding:"required"`
	Status  string           `json:"status" binding:"required"`
}

// EnqueueSequence materializes the follow-up sequence for a contact/disposition
func (h *CampaignHandler) EnqueueSequence(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := campaign.ParseContactCallStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	steps, err := h.Engine.EnqueueSequence(req.Contact, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// No mapping or no phone is a valid empty outcome, not an error
	if steps == nil {
		steps = []campaign.PendingSmsStep{}
	}
	c.JSON(http.StatusOK, gin.H{"enqueued": len(steps), "steps": steps})
}

// GetSteps lists follow-up steps, optionally filtered by status or contact
func (h *CampaignHandler) GetSteps(c *gin.Context) {
	filter := campaign.StepFilter{
		Status:    campaign.StepStatus(c.Query("status")),
		ContactID: c.Query("contact_id"),
	}

	steps, err := h.Engine.Steps(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if steps == nil {
		steps = []campaign.PendingSmsStep{}
	}
	c.JSON(http.StatusOK, steps)
}

// GetAudit returns the engine's recent action trail
func (h *CampaignHandler) GetAudit(c *gin.Context) {
	c.JSON(http.StatusOK, h.Engine.Audit())
}

// Dispatch triggers an immediate dispatcher run outside the polling cycle
func (h *CampaignHandler) Dispatch(c *gin.Context) {
	sent, failed := h.Engine.DispatchDue()
	c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failed})
}
