package webhook

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
	"github.com/wburns02/ReactCRM-sub015/pkg/models"
)

type Handler struct {
	Config *config.Config
	Engine *campaign.Engine
}

func NewHandler(cfg *config.Config, engine *campaign.Engine) *Handler {
	return &Handler{
		Config: cfg,
		Engine: engine,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	token := c.Query("verify_token")
	challenge := c.Query("challenge")

	if token != "" {
		if token == h.Config.VerifyToken {
			log.Println("Webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

// HandleCallEvent ingests call-completed events from the dialer. Each call is
// validated at this boundary, recorded against the day plan, and handed to
// the sequence builder. A disposition the engine does not know is dropped
// with a log line, never forwarded.
func (h *Handler) HandleCallEvent(c *gin.Context) {
	var payload models.DialerWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	for _, call := range payload.Calls {
		status, err := campaign.ParseContactCallStatus(call.Disposition)
		if err != nil {
			log.Printf("Rejected call event %s: %v", call.CallID, err)
			continue
		}

		ev := campaign.CallOutcome{
			ContactID: call.ContactID,
			Status:    status,
			Timestamp: time.UnixMilli(call.CompletedAt),
		}
		if err := h.Engine.RecordCallOutcome(ev); err != nil {
			log.Printf("Error recording outcome for call %s: %v", call.CallID, err)
			continue
		}
		log.Printf("Recorded %s call from %s (%s)", status, call.ContactID, call.AccountName)

		// Store outcome in DB
		stmt, err := database.DB.Prepare("INSERT INTO call_outcomes(contact_id, status, occurred_at) VALUES(?, ?, ?)")
		if err != nil {
			log.Printf("Error preparing db statement: %v", err)
		} else {
			if _, err := stmt.Exec(call.ContactID, string(status), ev.Timestamp); err != nil {
				log.Printf("Error inserting into db: %v", err)
			}
			stmt.Close()
		}

		// Auto-save Contact
		_, err = database.DB.Exec(`INSERT INTO campaign_contacts(id, account_name, phone) VALUES(?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET account_name=excluded.account_name, phone=excluded.phone`,
			call.ContactID, call.AccountName, call.Phone)
		if err != nil {
			log.Printf("Error saving contact: %v", err)
		}

		// The engine broadcasts sequence_enqueued through its event callback,
		// so nothing is notified here.
		contact := campaign.Contact{ID: call.ContactID, AccountName: call.AccountName, Phone: call.Phone}
		if _, err := h.Engine.EnqueueSequence(contact, status); err != nil {
			log.Printf("Error enqueueing sequence for %s: %v", call.ContactID, err)
			continue
		}
	}

	c.Status(http.StatusOK)
}
