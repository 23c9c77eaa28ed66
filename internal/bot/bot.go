// Package bot ties the webhook intake and the periodic scan together.
package bot

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/robfig/cron/v3"

	"remindly/internal/command"
	"remindly/internal/config"
	"remindly/internal/model"
	"remindly/internal/scanner"
	"remindly/internal/store"
)

const helpText = "I didn't understand that. To set a reminder, please use the format: 'remind me to [TASK] at [TIME]'."

const guidanceText = "Please specify the task AND the time. Example: 'remind me to clean the kitchen at 8 PM'."

// Bot coordinates reminder intake, the scheduler, and replies to the sender.
type Bot struct {
	cfg     *config.Config
	store   store.Store
	scanner *scanner.Scanner
	cron    *cron.Cron
	logger  *log.Logger
}

// New creates a fully configured Bot instance.
func New(cfg *config.Config, st store.Store, sc *scanner.Scanner, logger *log.Logger) *Bot {
	return &Bot{
		cfg:     cfg,
		store:   st,
		scanner: sc,
		cron:    cron.New(cron.WithLocation(cfg.LocalTimezone)),
		logger:  logger,
	}
}

// StartScheduler runs one scan pass every minute. Ticks may overlap a slow
// pass; the store's per-row status keeps that safe.
func (b *Bot) StartScheduler() error {
	_, err := b.cron.AddFunc("* * * * *", func() {
		if _, err := b.scanner.Run(context.Background()); err != nil {
			b.logger.Printf("scan pass aborted: %v", err)
		}
	})
	if err != nil {
		return err
	}
	b.cron.Start()
	return nil
}

// StopScheduler stops the cron scheduler and waits for a running pass.
func (b *Bot) StopScheduler() {
	if b.cron == nil {
		return
	}
	<-b.cron.Stop().Done()
}

// Handler returns the HTTP handler for incoming Twilio messages.
func (b *Bot) Handler() http.HandlerFunc {
	return b.handleIncomingMessage
}

// handleIncomingMessage processes Twilio webhook POST requests. The sender
// always gets a synchronous TwiML reply: a confirmation, guidance, or an
// apology when the store write failed.
func (b *Bot) handleIncomingMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		b.logger.Printf("webhook: parse error: %v", err)
		b.writeTwilioResponse(w, "Sorry, I couldn't understand that request.")
		return
	}

	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))
	if from == "" || body == "" {
		b.writeTwilioResponse(w, "I need a message to work with. Please try again.")
		return
	}

	cmd, err := command.Parse(strings.ToLower(body))
	switch {
	case errors.Is(err, command.ErrNotReminder):
		b.writeTwilioResponse(w, helpText)
		return
	case err != nil:
		b.writeTwilioResponse(w, guidanceText)
		return
	}

	rec := model.Reminder{
		Recipient: sanitizeWhatsAppNumber(from),
		Task:      cmd.Task,
		Time:      cmd.Time,
		Status:    model.StatusPending,
	}

	ctx, cancel := context.WithTimeout(r.Context(), b.cfg.CallTimeout)
	defer cancel()

	id, err := b.store.Append(ctx, rec)
	if err != nil {
		b.logger.Printf("webhook: save reminder for %s: %v", rec.Recipient, err)
		b.writeTwilioResponse(w, "Sorry, I couldn't save the reminder. Please try again later.")
		return
	}

	b.logger.Printf("webhook: saved reminder %d for %s at %q", id, rec.Recipient, rec.Time)
	b.writeTwilioResponse(w, fmt.Sprintf("Got it! I've set a reminder to '%s' for %s.", cmd.Task, cmd.Time))
}

func (b *Bot) writeTwilioResponse(w http.ResponseWriter, message string) {
	twiml := struct {
		XMLName xml.Name `xml:"Response"`
		Message string   `xml:"Message"`
	}{
		Message: message,
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := xml.NewEncoder(w).Encode(twiml); err != nil {
		b.logger.Printf("twilio response encode: %v", err)
	}
}

func sanitizeWhatsAppNumber(from string) string {
	// Twilio prepends whatsapp: to the number.
	return strings.TrimPrefix(from, "whatsapp:")
}
