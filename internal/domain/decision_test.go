package domain

import (
	"errors"
	"testing"
)

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, TierDiamond},
		{90, TierDiamond},
		{89.9, TierPlatinum},
		{80, TierPlatinum},
		{75, TierGold},
		{70, TierGold},
		{60, TierSilver},
		{55, TierSilver},
		{45, TierBronze},
		{40, TierBronze},
		{39.9, TierRejected},
		{0, TierRejected},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestMarginAnalysisScenario(t *testing.T) {
	analysis := &MarginAnalysis{
		Scenarios: []MarginScenario{
			{Name: ScenarioOptimistic, Margin: 50},
			{Name: ScenarioRealistic, Margin: 30},
			{Name: ScenarioConservative, Err: "non-positive sale price quantile"},
		},
	}

	if s := analysis.Scenario(ScenarioRealistic); s == nil || s.Margin != 30 {
		t.Errorf("Scenario(realistic) = %+v, want margin 30", s)
	}
	if s := analysis.Scenario(ScenarioConservative); s != nil {
		t.Errorf("failed scenario should be nil, got %+v", s)
	}
	if s := analysis.Scenario("unknown"); s != nil {
		t.Errorf("unknown scenario should be nil, got %+v", s)
	}

	var nilAnalysis *MarginAnalysis
	if s := nilAnalysis.Scenario(ScenarioRealistic); s != nil {
		t.Errorf("nil analysis should yield nil scenario, got %+v", s)
	}
}

func TestCandidateValidate(t *testing.T) {
	valid := &Candidate{ID: "c1", Title: "Produto", Price: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid candidate rejected: %v", err)
	}

	tests := []struct {
		name      string
		candidate *Candidate
		want      error
	}{
		{"nil", nil, ErrInvalidCandidate},
		{"missing id", &Candidate{Title: "Produto", Price: 10}, ErrInvalidCandidate},
		{"missing title", &Candidate{ID: "c1", Price: 10}, ErrInvalidCandidate},
		{"zero price", &Candidate{ID: "c1", Title: "Produto"}, ErrInvalidPrice},
		{"negative price", &Candidate{ID: "c1", Title: "Produto", Price: -1}, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.candidate.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCandidateDisplayTitle(t *testing.T) {
	c := &Candidate{Title: "Garden Hose", TranslatedTitle: "Mangueira de Jardim"}
	if got := c.DisplayTitle(); got != "Mangueira de Jardim" {
		t.Errorf("DisplayTitle() = %q, want translated title", got)
	}

	c.TranslatedTitle = ""
	if got := c.DisplayTitle(); got != "Garden Hose" {
		t.Errorf("DisplayTitle() = %q, want original title", got)
	}
}

func TestMatchCandidateBestScore(t *testing.T) {
	mc := &MatchCandidate{ImageScore: 40, SemanticScore: 85, TextualScore: 60}
	if got := mc.BestScore(); got != 85 {
		t.Errorf("BestScore() = %v, want 85", got)
	}

	empty := &MatchCandidate{}
	if got := empty.BestScore(); got != 0 {
		t.Errorf("BestScore() = %v, want 0", got)
	}
}
