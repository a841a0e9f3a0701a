// Package expiration derives issuance and expiration times from marine
// bulletin text.
//
// Bulletins do not share a single convention. The Parser tries an
// ordered list of strategies for each timestamp and falls back to the
// current time for issuance and to a fixed validity window for
// expiration. Fallbacks are reported as warnings on the Result.
package expiration

import (
	"fmt"
	"time"
)

const (
	// DefaultValidity is how long a bulletin is valid when its text
	// carries no expiration.
	DefaultValidity = 6 * time.Hour

	// MaxStaleness is how far past its expiration a bulletin may be
	// before it is rejected.
	MaxStaleness = 24 * time.Hour
)

// Result holds the derived timestamps, both in UTC.
type Result struct {
	IssuedAt         time.Time
	ExpiresAt        time.Time
	IssuanceSource   string
	ExpirationSource string
	Warnings         []string
}

// Parser applies issuance and expiration strategies in order.
type Parser struct {
	Issuance        []IssuanceStrategy
	Expiration      []ExpirationStrategy
	DefaultValidity time.Duration
	MaxStaleness    time.Duration
}

// NewParser returns a Parser with the standard strategy order. Explicit
// expiration tokens win over the superseded phrase.
func NewParser() *Parser {
	return &Parser{
		Issuance: []IssuanceStrategy{
			UTCIssuance{},
			LocalIssuance{},
		},
		Expiration: []ExpirationStrategy{
			ExplicitExpiration{},
			SupersededExpiration{},
		},
		DefaultValidity: DefaultValidity,
		MaxStaleness:    MaxStaleness,
	}
}

// Parse derives the issuance and expiration of text. timeZone is the
// IANA name of the zone the bulletin covers and now is the time of the
// fetch.
//
// A *ParseError is returned if timeZone cannot be loaded. A
// *StaleForecastError is returned if the expiration is not after the
// issuance or lies more than MaxStaleness before now.
func (p *Parser) Parse(text string, timeZone string, now time.Time) (Result, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return Result{}, &ParseError{TimeZone: timeZone, Err: err}
	}

	var res Result

	for _, s := range p.Issuance {
		if t, ok := s.Issuance(text, loc); ok {
			res.IssuedAt = t
			res.IssuanceSource = s.Name()
			break
		}
	}

	if res.IssuanceSource == "" {
		res.IssuedAt = now.In(loc)
		res.IssuanceSource = "fetch_time"
		res.Warnings = append(res.Warnings, "no issuance time found, using fetch time")
	}

	for _, s := range p.Expiration {
		if t, ok := s.Expiration(text, res.IssuedAt, loc); ok {
			res.ExpiresAt = t
			res.ExpirationSource = s.Name()
			break
		}
	}

	if res.ExpirationSource == "" {
		validity := p.DefaultValidity
		if validity == 0 {
			validity = DefaultValidity
		}

		res.ExpiresAt = res.IssuedAt.Add(validity)
		res.ExpirationSource = "default"
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no expiration found, using issuance + %s", validity))
	}

	res.IssuedAt = res.IssuedAt.UTC()
	res.ExpiresAt = res.ExpiresAt.UTC()

	if err := p.checkStale(res, now); err != nil {
		return Result{}, err
	}

	return res, nil
}

func (p *Parser) checkStale(res Result, now time.Time) error {
	if !res.ExpiresAt.After(res.IssuedAt) {
		return &StaleForecastError{
			IssuedAt:  res.IssuedAt,
			ExpiresAt: res.ExpiresAt,
			Reason:    "expiration is not after issuance",
		}
	}

	maxStale := p.MaxStaleness
	if maxStale == 0 {
		maxStale = MaxStaleness
	}

	if now.Sub(res.ExpiresAt) > maxStale {
		return &StaleForecastError{
			IssuedAt:  res.IssuedAt,
			ExpiresAt: res.ExpiresAt,
			Reason:    fmt.Sprintf("expired more than %s ago", maxStale),
		}
	}

	return nil
}
