package util

import (
	"testing"
	"time"
)

func TestTruncateAtWord(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short enough", "hello world", 20, "hello world"},
		{"cuts at word", "hello wonderful world", 14, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"no spaces", "abcdefghij", 5, "abcde"},
		{"zero max", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateAtWord(tt.in, tt.max); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeHashtags(t *testing.T) {
	got := NormalizeHashtags([]string{"#golang", " cli ", "#", "", "linux"})
	want := []string{"golang", "cli", "linux"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCapHashtags(t *testing.T) {
	tags := []string{"a", "b", "c", "d"}
	if got := CapHashtags(tags, 2); len(got) != 2 {
		t.Errorf("got %v, want 2 entries", got)
	}
	if got := CapHashtags(tags, 10); len(got) != 4 {
		t.Errorf("got %v, want all 4", got)
	}
	if got := CapHashtags(tags, 0); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
	if got := CapHashtags(tags, -1); len(got) != 0 {
		t.Errorf("negative max should cap to zero, got %v", got)
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midweek",
			time.Date(2025, 3, 6, 15, 30, 0, 0, time.UTC), // Thursday
			time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			"already monday",
			time.Date(2025, 3, 3, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the prior week",
			time.Date(2025, 3, 9, 1, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MondayOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMonday(t *testing.T) {
	in := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC) // Thursday
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := NextMonday(in); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
