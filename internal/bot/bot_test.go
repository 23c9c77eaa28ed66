package bot

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"remindly/internal/config"
	"remindly/internal/model"
	"remindly/internal/store"
)

type fakeStore struct {
	rows      []store.Row
	appendErr error
}

func (f *fakeStore) VerifySchema(context.Context) error { return nil }

func (f *fakeStore) Append(_ context.Context, rec model.Reminder) (int, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	id := len(f.rows) + 1
	f.rows = append(f.rows, store.Row{ID: id, Reminder: rec})
	return id, nil
}

func (f *fakeStore) ListAll(context.Context) ([]store.Row, error) { return f.rows, nil }

func (f *fakeStore) UpdateStatus(context.Context, int, model.Status) error { return nil }

func newTestBot(t *testing.T) (*Bot, *fakeStore) {
	t.Helper()

	st := &fakeStore{}
	cfg := &config.Config{LocalTimezone: time.UTC, CallTimeout: time.Second}
	return New(cfg, st, nil, log.New(io.Discard, "", 0)), st
}

func postWebhook(t *testing.T, b *Bot, from, body string) string {
	t.Helper()

	form := url.Values{"From": {from}, "Body": {body}}
	req := httptest.NewRequest(http.MethodPost, "/twilio/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	b.Handler().ServeHTTP(rr, req)

	if ct := rr.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("content type = %q, want application/xml", ct)
	}
	return rr.Body.String()
}

func TestWebhookSavesReminder(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)

	reply := postWebhook(t, b, "whatsapp:+1555", "Remind me to water the plants at 9:00 AM")
	if !strings.Contains(reply, "Got it!") || !strings.Contains(reply, "water the plants") {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(st.rows) != 1 {
		t.Fatalf("expected one appended row, got %d", len(st.rows))
	}
	rec := st.rows[0].Reminder
	if rec.Recipient != "+1555" {
		t.Fatalf("recipient = %q, want +1555 (whatsapp: prefix stripped)", rec.Recipient)
	}
	if rec.Task != "water the plants" || rec.Time != "9:00 am" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Status != model.StatusPending {
		t.Fatalf("status = %q, want Pending", rec.Status)
	}
}

func TestWebhookRepliesWithHelpForNonCommands(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)

	reply := postWebhook(t, b, "whatsapp:+1555", "hello")
	if !strings.Contains(reply, "remind me to [TASK] at [TIME]") {
		t.Fatalf("expected the help text, got %q", reply)
	}
	if len(st.rows) != 0 {
		t.Fatalf("non-commands must not be persisted")
	}
}

func TestWebhookRepliesWithGuidanceOnParseFailure(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)

	for _, body := range []string{"remind me to clean", "remind me to  at 8 pm"} {
		reply := postWebhook(t, b, "whatsapp:+1555", body)
		if !strings.Contains(reply, "task AND the time") {
			t.Fatalf("body %q: expected guidance, got %q", body, reply)
		}
	}
	if len(st.rows) != 0 {
		t.Fatalf("parse failures must not be persisted")
	}
}

func TestWebhookAcceptsUnvalidatedTime(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)

	// The time segment is not checked against the time grammar here; the
	// scanner is the only component that parses it.
	reply := postWebhook(t, b, "whatsapp:+1555", "remind me to stretch at some point tonight")
	if !strings.Contains(reply, "Got it!") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(st.rows) != 1 || st.rows[0].Reminder.Time != "some point tonight" {
		t.Fatalf("unexpected rows: %+v", st.rows)
	}
}

func TestWebhookReportsStoreFailure(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)
	st.appendErr = errors.New("table unavailable")

	reply := postWebhook(t, b, "whatsapp:+1555", "remind me to water the plants at 9:00 am")
	if !strings.Contains(reply, "couldn't save the reminder") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestWebhookRequiresSenderAndBody(t *testing.T) {
	t.Parallel()
	b, st := newTestBot(t)

	reply := postWebhook(t, b, "", "remind me to x at 8 pm")
	if !strings.Contains(reply, "I need a message to work with") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	reply = postWebhook(t, b, "whatsapp:+1555", "   ")
	if !strings.Contains(reply, "I need a message to work with") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(st.rows) != 0 {
		t.Fatalf("nothing should have been persisted")
	}
}
