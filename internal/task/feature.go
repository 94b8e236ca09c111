package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FeatureTypes are the supported feature task types.
var FeatureTypes = []string{"standard", "api", "data", "ui", "performance"}

// skillByType maps a feature type to the skill its task declares.
var skillByType = map[string]string{
	"standard":    "oneshot-feature",
	"api":         "api-contract",
	"data":        "db-migration-safe",
	"ui":          "oneshot-feature",
	"performance": "performance-check",
}

// IsFeatureType reports whether typ is a supported feature type.
func IsFeatureType(typ string) bool {
	for _, t := range FeatureTypes {
		if typ == t {
			return true
		}
	}
	return false
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeSlug lowercases, collapses non-alphanumeric runs to hyphens, trims
// edge hyphens, and caps length at 60.
func SanitizeSlug(value string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}

// TitleFromSlug turns "auth-hardening" into "Auth Hardening".
func TitleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	var words []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(words, " ")
}

var featureIDPattern = regexp.MustCompile(`(?m)^id:\s*FEAT-(\d+)`)

// NextFeatureID scans existing task files for FEAT-NNN ids and returns the
// next one, zero-padded to three digits.
func NextFeatureID(tasksDir string) string {
	max := 0
	entries, err := os.ReadDir(tasksDir)
	if err == nil {
		for _, e := range entries {
			name := e.Name()
			if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(tasksDir, name))
			if err != nil {
				continue
			}
			if m := featureIDPattern.FindSubmatch(data); m != nil {
				if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
					max = n
				}
			}
		}
	}
	return fmt.Sprintf("FEAT-%03d", max+1)
}

// FeatureYAML renders a new feature task document.
func FeatureYAML(id, slug, title, typ string) string {
	if title == "" {
		title = fmt.Sprintf("Implement %s feature", TitleFromSlug(slug))
	}
	skill, ok := skillByType[typ]
	if !ok {
		skill = "oneshot-feature"
	}
	pretty := TitleFromSlug(slug)

	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", id)
	fmt.Fprintf(&b, "title: %q\n", title)
	b.WriteString("owner_agent: implementer\n")
	b.WriteString("supporting_agents:\n  - reviewer\n  - security-auditor\n")
	fmt.Fprintf(&b, "skill: %s\n", skill)
	b.WriteString("context:\n")
	fmt.Fprintf(&b, "  business_goal: \"Deliver %s with measurable value and reliability.\"\n", pretty)
	fmt.Fprintf(&b, "  technical_scope: \"Implement %s end-to-end with tests and release-safe behavior.\"\n", slug)
	b.WriteString("acceptance_criteria:\n")
	fmt.Fprintf(&b, "  - \"Core user path for %s works as expected.\"\n", slug)
	b.WriteString("  - \"Edge cases and invalid inputs are handled safely.\"\n")
	b.WriteString("  - \"Automated tests cover success and failure paths.\"\n")
	b.WriteString("  - \"Security and review quality gates pass without blockers.\"\n")
	b.WriteString("implementation_plan:\n")
	b.WriteString("  - \"Design minimal implementation satisfying acceptance criteria.\"\n")
	b.WriteString("  - \"Implement feature and required tests.\"\n")
	b.WriteString("  - \"Run validation and resolve findings.\"\n")
	b.WriteString("  - \"Prepare concise delivery notes and residual risks.\"\n")
	b.WriteString("quality_gates:\n  tests: required\n  security: required\n  review: required\n")
	b.WriteString("status: todo\n")
	return b.String()
}
