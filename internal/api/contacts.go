package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wburns02/ReactCRM-sub015/internal/database"
	"github.com/wburns02/ReactCRM-sub015/pkg/models"
)

type ContactHandler struct{}

func NewContactHandler() *ContactHandler {
	return &ContactHandler{}
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	rows, err := database.DB.Query("SELECT id, account_name, phone, created_at FROM campaign_contacts ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var contact models.Contact
		if err := rows.Scan(&contact.ID, &contact.AccountName, &contact.Phone, &contact.CreatedAt); err != nil {
			log.Printf("Error scanning contact: %v", err)
			continue
		}
		contacts = append(contacts, contact)
	}

	// Return empty array instead of null
	if contacts == nil {
		contacts = []models.Contact{}
	}

	c.JSON(http.StatusOK, contacts)
}

// CreateContactRequest for adding new contacts
type CreateContactRequest struct {
	ID          string `json:"id" binding:"required"`
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Use UPSERT to avoid duplicates
	_, err := database.DB.Exec(`INSERT INTO campaign_contacts(id, account_name, phone) VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET account_name=excluded.account_name, phone=excluded.phone`,
		req.ID, req.AccountName, req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "Contact created", "id": req.ID})
}

type UpdateContactRequest struct {
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id := c.Param("id")
	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := database.DB.Exec("UPDATE campaign_contacts SET account_name = ?, phone = ? WHERE id = ?",
		req.AccountName, req.Phone, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Contact updated"})
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")

	result, err := database.DB.Exec("DELETE FROM campaign_contacts WHERE id = ?", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Contact deleted"})
}

func (h *ContactHandler) ExportContacts(c *gin.Context) {
	rows, err := database.DB.Query("SELECT id, account_name, phone, created_at FROM campaign_contacts ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	// Build CSV content
	csv := "ID,Account Name,Phone,Created At\n"
	for rows.Next() {
		var id, accountName, phone, createdAt string
		if err := rows.Scan(&id, &accountName, &phone, &createdAt); err != nil {
			continue
		}
		csv += fmt.Sprintf("%s,%s,%s,%s\n", id, accountName, phone, createdAt)
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=contacts.csv")
	c.String(http.StatusOK, csv)
}
