package model

import (
	"fmt"
	"strings"
)

// Pair identifies a currency pair by its 3-letter base and quote codes.
type Pair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// ParsePair parses a canonical "BASE/QUOTE" string (e.g. "EUR/USD").
// Codes are upper-cased and validated.
func ParsePair(s string) (Pair, error) {
	base, quote, ok := strings.Cut(s, "/")
	if !ok {
		return Pair{}, fmt.Errorf("pair %q: want BASE/QUOTE", s)
	}
	p := Pair{
		Base:  strings.ToUpper(strings.TrimSpace(base)),
		Quote: strings.ToUpper(strings.TrimSpace(quote)),
	}
	if err := p.Validate(); err != nil {
		return Pair{}, err
	}
	return p, nil
}

// Validate checks that both codes are 3 upper-case letters and distinct.
func (p Pair) Validate() error {
	if !validCode(p.Base) || !validCode(p.Quote) {
		return fmt.Errorf("pair %s/%s: codes must be 3 letters", p.Base, p.Quote)
	}
	if p.Base == p.Quote {
		return fmt.Errorf("pair %s/%s: base and quote must differ", p.Base, p.Quote)
	}
	return nil
}

// String returns the canonical "BASE/QUOTE" form.
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

func validCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
