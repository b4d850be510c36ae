package model

import "testing"

func TestParsePair_Canonical(t *testing.T) {
	p, err := ParsePair("EUR/USD")
	if err != nil {
		t.Fatalf("ParsePair: %v", err)
	}
	if p.Base != "EUR" || p.Quote != "USD" {
		t.Errorf("got %s/%s, want EUR/USD", p.Base, p.Quote)
	}
	if p.String() != "EUR/USD" {
		t.Errorf("String() = %q, want EUR/USD", p.String())
	}
}

func TestParsePair_NormalizesCase(t *testing.T) {
	p, err := ParsePair(" gbp / jpy ")
	if err != nil {
		t.Fatalf("ParsePair: %v", err)
	}
	if p.String() != "GBP/JPY" {
		t.Errorf("String() = %q, want GBP/JPY", p.String())
	}
}

func TestParsePair_Invalid(t *testing.T) {
	cases := []string{
		"",
		"EURUSD",
		"EUR/EUR",   // base == quote
		"EU/USD",    // short base
		"EURO/USD",  // long base
		"EUR/US1",   // non-letter
		"EUR/",      // empty quote
		"/USD",      // empty base
	}
	for _, in := range cases {
		if _, err := ParsePair(in); err == nil {
			t.Errorf("ParsePair(%q): expected error", in)
		}
	}
}
