// Package risk scores the blast radius of a task from keyword signals in its
// name and content. Scoring is additive and deterministic: every matching
// category stacks a fixed delta onto a base score, clamped to [0,100].
// False positives (a task merely mentioning "security" in prose) are an
// accepted conservative bias.
package risk

import "strings"

// Levels ordered by severity.
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

// Assessment is a computed risk score and level.
type Assessment struct {
	Score int
	Level string
}

const baseScore = 20

// Compute scores a task from its file name and full document content.
func Compute(name, content string) Assessment {
	base := strings.ToLower(name)
	text := base + " " + strings.ToLower(content)

	score := baseScore
	add := func(cond bool, points int) {
		if cond {
			score += points
		}
	}

	add(strings.Contains(base, "hotfix"), 35)
	add(strings.Contains(base, "release"), 20)
	add(strings.Contains(text, "auth") || strings.Contains(text, "authorization"), 15)
	add(strings.Contains(text, "security"), 20)
	add(strings.Contains(text, "migration") || strings.Contains(text, "schema") || strings.Contains(text, "db"), 20)
	add(strings.Contains(text, "payment") || strings.Contains(text, "billing"), 20)
	add(strings.Contains(text, "performance") || strings.Contains(text, "latency"), 10)
	add(strings.Contains(text, "public api") || strings.Contains(base, "api"), 15)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return Assessment{Score: score, Level: levelFor(score)}
}

func levelFor(score int) string {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}
