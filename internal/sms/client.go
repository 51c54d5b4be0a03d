package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
)

// Client talks to the SMS provider's REST API. It implements campaign.Sender.
type Client struct {
	Config *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{Config: cfg}
}

// --- Message Structures ---

type OutboundMessage struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type SendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// --- Helper Functions ---

func (c *Client) sendRequest(method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.Config.SmsAPIToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

// Send delivers one SMS. A non-2xx provider response is a failure; the caller
// decides what failure means for the task.
func (c *Client) Send(to, message string) error {
	url := fmt.Sprintf("%s/messages", c.Config.SmsAPIBaseURL)
	msg := OutboundMessage{
		From: c.Config.SmsFromNumber,
		To:   to,
		Body: message,
	}
	_, err := c.sendRequest("POST", url, msg)

	// Mirror the outbound message into the local history (fire and forget).
	status := "sent"
	if err != nil {
		status = "failed"
	}
	go func() {
		stmt, prepErr := database.DB.Prepare("INSERT INTO sms_history(contact_phone, body, status) VALUES(?, ?, ?)")
		if prepErr != nil {
			log.Printf("Error preparing sms history insert: %v", prepErr)
			return
		}
		defer stmt.Close()
		if _, execErr := stmt.Exec(to, message, status); execErr != nil {
			log.Printf("Error recording sms history: %v", execErr)
		}
	}()

	return err
}
