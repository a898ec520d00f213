package model

import (
	"testing"
	"time"
)

func TestParseScoring(t *testing.T) {
	tests := []struct {
		in      string
		want    Scoring
		wantErr bool
	}{
		{"ppr", ScoringPPR, false},
		{"PPR", ScoringPPR, false},
		{" half ", ScoringHalf, false},
		{"standard", ScoringStandard, false},
		{"superflex", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScoring(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScoring(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScoring(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RB", "RB"},
		{" wr ", "WR"},
		{"D/ST", "DST"},
		{"dst", "DST"},
		{"WR/RB", "WR"},
		{"rb/wr/te", "RB"},
	}
	for _, tt := range tests {
		if got := NormalizePosition(tt.in); got != tt.want {
			t.Errorf("NormalizePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlayerRankValidate(t *testing.T) {
	valid := PlayerRank{
		Rank:    1,
		Name:    "Justin Jefferson",
		Team:    "MIN",
		Pos:     "WR",
		Bye:     Bye(6),
		Source:  "espn-editorial",
		Scoring: ScoringPPR,
		Date:    time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PlayerRank)
	}{
		{"zero rank", func(p *PlayerRank) { p.Rank = 0 }},
		{"blank name", func(p *PlayerRank) { p.Name = "  " }},
		{"bad position", func(p *PlayerRank) { p.Pos = "FLEX" }},
		{"negative bye", func(p *PlayerRank) { p.Bye = Bye(-1) }},
		{"bad scoring", func(p *PlayerRank) { p.Scoring = "superflex" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if p.Validate() == nil {
				t.Error("invalid row accepted")
			}
		})
	}
}
