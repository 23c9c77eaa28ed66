// Package command parses the reminder grammar understood by the webhook:
//
//	remind me to <task> at <time>
package command

import (
	"errors"
	"strings"
)

const (
	prefix    = "remind me to"
	separator = " at "
)

// ErrNotReminder means the message is not a reminder command at all; the
// caller should answer with usage guidance rather than an error.
var ErrNotReminder = errors.New("not a reminder command")

var (
	ErrMissingTime = errors.New("no \" at <time>\" part found")
	ErrEmptyTask   = errors.New("task is empty")
	ErrEmptyTime   = errors.New("time is empty")
)

// Command is a successfully parsed reminder request. Time is the user's raw
// time text; it is not validated here.
type Command struct {
	Task string
	Time string
}

// Parse recognizes the reminder grammar in msg, which the caller must have
// lowercased. The split happens at the first " at ", so a task containing
// the word "at" pushes everything after it into the time segment.
func Parse(msg string) (Command, error) {
	if !strings.HasPrefix(msg, prefix) {
		return Command{}, ErrNotReminder
	}

	head, tail, found := strings.Cut(msg, separator)
	if !found {
		return Command{}, ErrMissingTime
	}

	task := strings.TrimSpace(strings.Replace(head, prefix, "", 1))
	if task == "" {
		return Command{}, ErrEmptyTask
	}

	timeText := strings.TrimSpace(tail)
	if timeText == "" {
		return Command{}, ErrEmptyTime
	}

	return Command{Task: task, Time: timeText}, nil
}
