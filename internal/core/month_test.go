package core

import (
	"errors"
	"testing"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"2026-02", Month{2026, 2}, true},
		{"2026-2", Month{2026, 2}, true},
		{"2026-13", Month{2026, 13}, true}, // not range checked
		{"0999-01", Month{999, 1}, true},
		{"February", Month{}, false},
		{"2026", Month{}, false},
		{"2026-02-01", Month{}, false},
		{"2026-ab", Month{}, false},
		{"-02", Month{}, false},
		{"", Month{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %+v, got %+v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidMonthFormat) {
			t.Fatalf("%q expected ErrInvalidMonthFormat, got %v", tc.in, err)
		}
	}
}

func TestMonthStringAndContains(t *testing.T) {
	m := Month{Year: 2026, Number: 2}
	if m.String() != "2026-02" {
		t.Fatalf("unexpected string %q", m.String())
	}
	if !m.Contains(NewDate(2026, 2, 28)) {
		t.Fatalf("expected 2026-02-28 in %s", m)
	}
	if m.Contains(NewDate(2026, 3, 1)) || m.Contains(NewDate(2025, 2, 1)) {
		t.Fatalf("unexpected containment for %s", m)
	}
	if got := NewDate(2026, 2, 14).CalendarMonth(); got != m {
		t.Fatalf("CalendarMonth = %+v", got)
	}
}
