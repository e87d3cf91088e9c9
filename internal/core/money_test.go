package core

import "testing"

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		out    float64
	}{
		{374.5, 2, 374.5},
		{6.375, 1, 6.4},
		{2.675, 2, 2.68}, // half away from zero on the decimal representation
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{85.0, 1, 85.0},
		{0.1 + 0.2, 2, 0.3},
		{2974.5, 2, 2974.5},
	}
	for _, tc := range cases {
		if got := Round(tc.in, tc.places); got != tc.out {
			t.Fatalf("Round(%v, %d) = %v, want %v", tc.in, tc.places, got, tc.out)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		25.5:   "25.50",
		0:      "0.00",
		-3.125: "-3.13",
		1e3:    "1000.00",
		15:     "15.00",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(85); got != "85.0" {
		t.Fatalf("got %q", got)
	}
	if got := FormatPercentage(6.4); got != "6.4" {
		t.Fatalf("got %q", got)
	}
}
