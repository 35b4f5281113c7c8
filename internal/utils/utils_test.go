package utils

import (
	"math"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  float64
		places int
		expect float64
	}{
		{input: 0.12345, places: 3, expect: 0.123},
		{input: 0.1236, places: 3, expect: 0.124},
		{input: 64.99999999999999, places: 2, expect: 65},
		{input: -1.005, places: 1, expect: -1},
		{input: 72, places: 2, expect: 72},
	}

	for _, tt := range tests {
		if got := Round(tt.input, tt.places); got != tt.expect {
			t.Fatalf("Round(%v, %d): expected %v, got %v", tt.input, tt.places, tt.expect, got)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(-0.2, 0, 1); got != 0 {
		t.Fatalf("expected lower bound, got %v", got)
	}
	if got := Clamp(140, 0, 100); got != 100 {
		t.Fatalf("expected upper bound, got %v", got)
	}
	if got := Clamp(0.4, 0, 1); got != 0.4 {
		t.Fatalf("expected value unchanged, got %v", got)
	}
	if got := Clamp(math.NaN(), 0, 1); got != 0 {
		t.Fatalf("expected NaN to collapse to lower bound, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("привет мир", 6); got != "привет" {
		t.Fatalf("unexpected rune truncation: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
