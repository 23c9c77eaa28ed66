package timefmt

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]TimeOfDay{
		"8 pm":     {20, 0},
		"8 PM":     {20, 0},
		"9:00 am":  {9, 0},
		"12:30 pm": {12, 30},
		"12 am":    {0, 0},
		"12 pm":    {12, 0},
		" 4:05 PM": {16, 5},
		"10 am":    {10, 0},
	}

	for input, want := range cases {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %+v, want %+v", input, got, want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "tomorrow", "8", "20:00", "25 pm", "8 pm tomorrow", "noon"} {
		if _, err := Parse(input); !errors.Is(err, ErrBadTime) {
			t.Fatalf("Parse(%q) = %v, want ErrBadTime", input, err)
		}
	}
}

func TestOnSplicesDate(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	day := time.Date(2024, time.March, 14, 23, 59, 48, 12, loc)
	got := TimeOfDay{Hour: 9, Minute: 30}.On(day)
	want := time.Date(2024, time.March, 14, 9, 30, 0, 0, loc)

	if !got.Equal(want) {
		t.Fatalf("On() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Fatalf("On() location = %v, want %v", got.Location(), loc)
	}
}
