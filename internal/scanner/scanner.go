// Package scanner implements the due-reminder scan: one pass over the whole
// reminder table that dispatches every pending row whose time of day has been
// reached, isolating failures to the row they occur on.
package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmhodges/clock"

	"remindly/internal/model"
	"remindly/internal/store"
	"remindly/internal/timefmt"
)

// Gateway delivers one rendered reminder to one recipient.
type Gateway interface {
	SendWhatsAppMessage(to, body string) error
}

// Failure records one row a pass could not fully handle, with its cause.
type Failure struct {
	Row int
	Err error
}

// Report summarises one pass. Warnings carry conditions an operator should
// reconcile, currently only the duplicate-delivery window opened by a status
// write failing after a successful send.
type Report struct {
	Examined   int
	Dispatched int
	Failures   []Failure
	Warnings   []string
}

// Scanner evaluates the reminder table against the current minute. It keeps
// no state between passes; the table's status column is the only memory, so
// repeated and even overlapping passes are safe.
type Scanner struct {
	store   store.Store
	gateway Gateway
	clk     clock.Clock
	loc     *time.Location
	timeout time.Duration
	logger  *log.Logger
}

// New creates a Scanner evaluating reminders in loc. Every store write and
// gateway call is bounded by timeout.
func New(st store.Store, gw Gateway, loc *time.Location, timeout time.Duration, logger *log.Logger) *Scanner {
	return &Scanner{
		store:   st,
		gateway: gw,
		clk:     clock.New(),
		loc:     loc,
		timeout: timeout,
		logger:  logger,
	}
}

// Run performs one pass over the whole table. The returned error is set only
// for structural failures (schema mismatch, unreadable store, cancellation);
// per-row problems land in the Report and never abort the pass.
func (s *Scanner) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := s.store.VerifySchema(ctx); err != nil {
		return report, fmt.Errorf("verify schema: %w", err)
	}

	// Whole minutes keep the due comparison stable within a polling
	// interval regardless of sub-minute clock skew.
	now := s.clk.Now().In(s.loc).Truncate(time.Minute)

	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list reminders: %w", err)
	}
	s.logger.Printf("scan at %s over %d rows", now.Format("15:04"), len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Examined++

		if row.Err != nil {
			report.Failures = append(report.Failures, Failure{Row: row.ID, Err: row.Err})
			s.logger.Printf("row %d: %v", row.ID, row.Err)
			continue
		}
		rec := row.Reminder
		if rec.Status != model.StatusPending {
			continue
		}

		td, err := timefmt.Parse(rec.Time)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Row: row.ID, Err: err})
			s.logger.Printf("row %d: %v", row.ID, err)
			continue
		}
		if td.On(now).After(now) {
			continue
		}

		if err := s.send(ctx, rec); err != nil {
			report.Failures = append(report.Failures, Failure{Row: row.ID, Err: fmt.Errorf("send: %w", err)})
			s.logger.Printf("row %d: send failed, will retry next pass: %v", row.ID, err)
			continue
		}
		report.Dispatched++
		s.logger.Printf("row %d: sent %q to %s", row.ID, rec.Task, rec.Recipient)

		if err := s.markSent(ctx, row.ID); err != nil {
			warning := fmt.Sprintf("row %d: delivered but status write failed, next pass may send a duplicate: %v", row.ID, err)
			report.Failures = append(report.Failures, Failure{Row: row.ID, Err: err})
			report.Warnings = append(report.Warnings, warning)
			s.logger.Print(warning)
		}
	}

	s.logger.Printf("scan finished: %d examined, %d dispatched, %d failed", report.Examined, report.Dispatched, len(report.Failures))
	return report, nil
}

// send invokes the gateway under the configured timeout. The Twilio call has
// no context parameter, so the bound is enforced around it.
func (s *Scanner) send(ctx context.Context, rec model.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.gateway.SendWhatsAppMessage(rec.Recipient, rec.Body())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The in-flight send may still land; the row stays Pending and
		// the duplicate-delivery tradeoff applies.
		return ctx.Err()
	}
}

func (s *Scanner) markSent(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.UpdateStatus(ctx, id, model.StatusSent)
}
