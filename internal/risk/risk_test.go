package risk

import (
	"strings"
	"testing"
)

func TestBaseScore(t *testing.T) {
	a := Compute("feature-notes.yml", "title: tidy notes widget\n")
	if a.Score != 20 {
		t.Errorf("expected base score 20, got %d", a.Score)
	}
	if a.Level != LevelLow {
		t.Errorf("expected low, got %s", a.Level)
	}
}

func TestCategoryDeltas(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"incident-hotfix.yml", "", 55},            // hotfix name
		{"release.yml", "", 40},                    // release name
		{"feature-x.yml", "harden auth flow", 35},  // auth
		{"feature-x.yml", "security review", 40},   // security
		{"feature-x.yml", "run db migration", 40},  // one db/migration category
		{"feature-x.yml", "billing invoices", 40},  // billing
		{"feature-x.yml", "reduce latency", 30},    // latency
		{"feature-api.yml", "", 35},                // api in name
		{"feature-x.yml", "expose public api", 35}, // public api in text
	}

	for _, tc := range cases {
		a := Compute(tc.name, tc.content)
		if a.Score != tc.want {
			t.Errorf("Compute(%q, %q) = %d, want %d", tc.name, tc.content, a.Score, tc.want)
		}
	}
}

func TestSignalsStackAndClamp(t *testing.T) {
	content := "auth security migration payment performance public api"
	a := Compute("incident-hotfix-release.yml", content)
	// 20+35+20+15+20+20+20+10+15 = 175, clamped.
	if a.Score != 100 {
		t.Errorf("expected clamp to 100, got %d", a.Score)
	}
	if a.Level != LevelCritical {
		t.Errorf("expected critical, got %s", a.Level)
	}
}

func TestMonotonicity(t *testing.T) {
	keywords := []string{"auth", "security", "migration", "payment", "latency", "public api"}
	prev := Compute("feature-x.yml", "").Score
	var content strings.Builder
	for _, kw := range keywords {
		content.WriteString(kw + " ")
		got := Compute("feature-x.yml", content.String()).Score
		if got < prev {
			t.Errorf("score decreased after adding %q: %d -> %d", kw, prev, got)
		}
		prev = got
	}
}

func TestLevelThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, LevelLow}, {39, LevelLow},
		{40, LevelMedium}, {59, LevelMedium},
		{60, LevelHigh}, {79, LevelHigh},
		{80, LevelCritical}, {100, LevelCritical},
	}
	for _, tc := range cases {
		if got := levelFor(tc.score); got != tc.want {
			t.Errorf("levelFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
