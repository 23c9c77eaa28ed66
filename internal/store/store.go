// Package store defines the narrow view of the reminder table the engine
// needs, plus the two backends that provide it: a Google Sheet and a SQL
// database.
package store

import (
	"context"
	"fmt"
	"strings"

	"remindly/internal/model"
)

// Row is one stored reminder together with its table position. IDs are
// 1-based, assigned in append order, and stable for the lifetime of the
// table. Err is set when the row exists but could not be decoded; such rows
// are surfaced individually and never fail a whole listing.
type Row struct {
	ID       int
	Reminder model.Reminder
	Err      error
}

// Store is the reminder table as consumed by the webhook and the scanner.
// All mutation is one row or one cell at a time; rows are never deleted.
type Store interface {
	// VerifySchema fails when the table does not declare the expected
	// columns. A mismatch is a startup failure, not a per-record one.
	VerifySchema(ctx context.Context) error
	// Append durably adds a row and returns its id. Concurrent appends
	// each get a distinct row.
	Append(ctx context.Context, rec model.Reminder) (int, error)
	// ListAll returns every row in table order.
	ListAll(ctx context.Context) ([]Row, error)
	// UpdateStatus writes the status cell of one row, addressed by id.
	UpdateStatus(ctx context.Context, id int, status model.Status) error
}

// decodeRow validates the raw cell values of one table row. Required fields
// must be present; an unknown status literal is a decode failure, while the
// scanner decides what the known ones mean.
func decodeRow(id int, recipient, task, timeText, status string) Row {
	row := Row{ID: id}

	parsed, ok := model.ParseStatus(strings.TrimSpace(status))

	switch {
	case strings.TrimSpace(recipient) == "":
		row.Err = fmt.Errorf("row %d: recipient is empty", id)
	case strings.TrimSpace(task) == "":
		row.Err = fmt.Errorf("row %d: task is empty", id)
	case strings.TrimSpace(timeText) == "":
		row.Err = fmt.Errorf("row %d: time is empty", id)
	case !ok:
		row.Err = fmt.Errorf("row %d: unknown status %q", id, status)
	default:
		row.Reminder = model.Reminder{
			Recipient: recipient,
			Task:      task,
			Time:      timeText,
			Status:    parsed,
		}
	}

	return row
}
