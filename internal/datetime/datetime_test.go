package datetime

import (
	"testing"
	"time"
)

func TestParseDateLeapYears(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		ok    bool
	}{
		{"2000-02-29", true},
		{"1900-02-29", false},
		{"2060-02-31", false},
		{"1971-11-10", true},
		{"2024-2-29", true},
		{"2023-02-29", false},
	}
	for _, tc := range cases {
		_, ok := ParseDate(tc.value)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.value, ok, tc.ok)
		}
	}
}

func TestParseDateMixedWidths(t *testing.T) {
	t.Parallel()

	want := time.Date(1989, time.March, 7, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{"1989-03-07", "1989-3-7", "1989-03-7", "1989-3-07"} {
		got, ok := ParseDate(value)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", value)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestParseDateMonthYear(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate("2021-7")
	if !ok {
		t.Fatalf("ParseDate failed for month-year form")
	}
	want := time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "tomorrow", "21-03-07", "1989/03/07", "1989-13-01", "1989-00-10", "1989-1-0", "19890-1-1", "1989-003-1"} {
		if _, ok := ParseDate(value); ok {
			t.Errorf("ParseDate(%q) unexpectedly succeeded", value)
		}
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"00:00", 0, true},
		{"23:59", 23*time.Hour + 59*time.Minute, true},
		{"09:30", 9*time.Hour + 30*time.Minute, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:30", 0, false},
		{"0930", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.value)
		if ok != tc.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tc.value, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseTime(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
	got, ok := ParseDate(Format(in))
	if !ok {
		t.Fatalf("Format produced an unparseable string")
	}
	if !got.Equal(in) {
		t.Fatalf("round trip mismatch: %v != %v", got, in)
	}
}
