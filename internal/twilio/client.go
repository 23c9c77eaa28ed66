// Package twilio wraps the Twilio messaging API as the outbound reminder
// gateway.
package twilio

import (
	"fmt"
	"log"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client sends WhatsApp messages from a fixed configured sender number.
type Client struct {
	client       *twilio.RestClient
	fromWhatsApp string
	logger       *log.Logger
}

// New creates a Twilio client bound to the configured WhatsApp sender
// number. Missing credentials fail here, at startup, rather than on the
// first send.
func New(accountSID, authToken, fromWhatsApp string, logger *log.Logger) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio credentials missing: set TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN")
	}
	if normalizeWhatsAppAddress(fromWhatsApp) == "" {
		return nil, fmt.Errorf("twilio sender WhatsApp number is not configured")
	}

	return &Client{
		client:       twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		fromWhatsApp: fromWhatsApp,
		logger:       logger,
	}, nil
}

// SendWhatsAppMessage delivers body to the given recipient over WhatsApp.
// The returned error is opaque; no delivery receipt is consumed.
func (c *Client) SendWhatsAppMessage(to, body string) error {
	if c.client == nil {
		return fmt.Errorf("twilio client not initialised")
	}

	sender := normalizeWhatsAppAddress(c.fromWhatsApp)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}

	recipient := normalizeWhatsAppAddress(to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message error: %w", err)
	}

	if resp.Sid != nil {
		c.logger.Printf("twilio: message %s accepted for %s", *resp.Sid, recipient)
	}
	return nil
}

func normalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
