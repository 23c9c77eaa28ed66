package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a stored reminder. Transitions are
// monotonic: Pending may become Sent or Failed, and neither Sent nor Failed
// ever changes again.
type Status string

const (
	StatusPending Status = "Pending"
	StatusSent    Status = "Sent"
	// StatusFailed is declared in the table schema but the dispatcher does
	// not currently write it; malformed rows stay Pending and are retried.
	StatusFailed Status = "Failed"
)

// ParseStatus canonicalizes a raw status cell. Matching is case-insensitive
// so a hand-edited "pending" still reads as Pending rather than turning the
// row into a permanent decode failure.
func ParseStatus(raw string) (Status, bool) {
	for _, known := range []Status{StatusPending, StatusSent, StatusFailed} {
		if strings.EqualFold(raw, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Reminder is one row of the reminder table: who to message, what about, and
// the wall-clock time of day it should fire. Time is kept as the user's raw
// text; it is parsed only when the scanner evaluates the row against today's
// date.
type Reminder struct {
	Recipient string
	Task      string
	Time      string
	Status    Status
}

// Body renders the outbound message text for this reminder.
func (r Reminder) Body() string {
	return fmt.Sprintf("REMINDER: It's time to %s.", r.Task)
}
