// Package model defines the normalized data types shared by providers,
// consensus building, and rendering.
//
// The central type is [PlayerRank], the canonical row every provider
// normalizes into. Rows that fail [PlayerRank.Validate] are dropped by
// providers rather than surfaced as errors, so a single malformed row never
// aborts a fetch.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Scoring identifies a fantasy scoring format.
type Scoring string

// Supported scoring formats.
const (
	ScoringPPR      Scoring = "ppr"
	ScoringHalf     Scoring = "half"
	ScoringStandard Scoring = "standard"
)

// ParseScoring validates and normalizes a scoring format string.
func ParseScoring(s string) (Scoring, error) {
	switch Scoring(strings.ToLower(strings.TrimSpace(s))) {
	case ScoringPPR:
		return ScoringPPR, nil
	case ScoringHalf:
		return ScoringHalf, nil
	case ScoringStandard:
		return ScoringStandard, nil
	}
	return "", fmt.Errorf("invalid scoring format: %q (must be 'ppr', 'half', or 'standard')", s)
}

// Position is a roster position abbreviation.
type Position = string

// The closed set of valid positions.
var Positions = []Position{"QB", "RB", "WR", "TE", "K", "DST"}

// ValidPosition reports whether pos (already uppercased) is in the closed set.
func ValidPosition(pos string) bool {
	for _, p := range Positions {
		if pos == p {
			return true
		}
	}
	return false
}

// NormalizePosition maps raw position tokens to the canonical set.
// "D/ST" becomes "DST"; any other slash-joined compound keeps only the first
// segment (e.g. "RB/WR" -> "RB"). The result is uppercased and trimmed but
// not guaranteed to be valid; callers validate via the row.
func NormalizePosition(raw string) string {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	if pos == "D/ST" || pos == "DST" {
		return "DST"
	}
	if i := strings.Index(pos, "/"); i >= 0 {
		pos = pos[:i]
	}
	return pos
}

// PlayerRank is a single normalized ranking row.
type PlayerRank struct {
	Rank    int       `json:"rank"`           // 1-based overall rank
	Name    string    `json:"name"`           // player display name
	Team    string    `json:"team"`           // team abbreviation, uppercase, may be empty
	Pos     Position  `json:"pos"`            // one of Positions
	Bye     *int      `json:"bye,omitempty"`  // bye week, nil when unknown
	Source  string    `json:"source"`         // originating provider identifier
	Scoring Scoring   `json:"scoring"`        // scoring format the rank applies to
	Date    time.Time `json:"date"`           // fetch/publication date
	Notes   string    `json:"notes,omitempty"`
}

// Validate checks the required-field constraints for a normalized row.
func (p PlayerRank) Validate() error {
	if p.Rank < 1 {
		return fmt.Errorf("rank must be positive, got %d", p.Rank)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !ValidPosition(p.Pos) {
		return fmt.Errorf("invalid position %q", p.Pos)
	}
	if p.Bye != nil && *p.Bye < 0 {
		return fmt.Errorf("bye week must be non-negative, got %d", *p.Bye)
	}
	if _, err := ParseScoring(string(p.Scoring)); err != nil {
		return err
	}
	return nil
}

// Bye returns a pointer to week, for literal PlayerRank construction.
func Bye(week int) *int { return &week }
