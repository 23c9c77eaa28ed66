package command

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Command
	}{
		{"remind me to clean the kitchen at 8 pm", Command{"clean the kitchen", "8 pm"}},
		{"remind me to water the plants at 9:00 am", Command{"water the plants", "9:00 am"}},
		{"remind me to call mum at 7 am ", Command{"call mum", "7 am"}},
		// The first " at " wins; the rest lands in the time segment.
		{"remind me to look at the sky at 8 pm", Command{"look", "the sky at 8 pm"}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  error
	}{
		{"hello", ErrNotReminder},
		{"", ErrNotReminder},
		{"set a reminder at 8 pm", ErrNotReminder},
		{"remind me to clean", ErrMissingTime},
		{"remind me to  at 8 pm", ErrEmptyTask},
		{"remind me to clean at ", ErrEmptyTime},
	}

	for _, tc := range cases {
		if _, err := Parse(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("Parse(%q) = %v, want %v", tc.input, err, tc.want)
		}
	}
}
