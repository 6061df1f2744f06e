package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{"12.345", 1234},
		{"12.346", 1235},
		{"1500", 150000},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-5", 0},  // negative input coerces to zero
		{"1.2.3", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in).Cents; got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseScore(t *testing.T) {
	if got := ParseScore("720"); got != 720 {
		t.Fatalf("ParseScore(720) = %d", got)
	}
	for _, in := range []string{"", "abc", "-1", "7.2"} {
		if got := ParseScore(in); got != 0 {
			t.Fatalf("ParseScore(%q) = %d, want 0", in, got)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{5, "0.05"},
		{-1234, "-12.34"},
		{150000, "1500.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 1999_99})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "1999.99" {
		t.Fatalf("marshal gave %s", out)
	}

	cases := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{`"12.34"`, 1234},
		{"1200", 120000},
		{"null", 0},
		{`"oops"`, 0}, // bad input never errors, only zeroes
		{`"12,34"`, 1234},
		{`"-5.00"`, 0}, // quoted text is form input: negatives coerce to zero
		{`""`, 0},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("unmarshal %q: %v", tc.in, err)
		}
		if m.Cents != tc.want {
			t.Fatalf("unmarshal %q = %d cents, want %d", tc.in, m.Cents, tc.want)
		}
	}
}
