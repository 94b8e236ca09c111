// Package metrics persists per-run gate metrics and derives tuning
// recommendations from them.
package metrics

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Record is one run's metrics line in the JSONL log.
type Record struct {
	TS               string `json:"ts"`
	Task             string `json:"task"`
	TaskType         string `json:"task_type"`
	RiskScore        int    `json:"risk_score"`
	Result           string `json:"result"`
	DurationMS       int64  `json:"duration_ms"`
	CacheHits        int    `json:"cache_hits"`
	TestsGate        string `json:"tests_gate"`
	SecurityGate     string `json:"security_gate"`
	TypeSpecificGate string `json:"type_specific_gate"`
	OracleGate       string `json:"oracle_gate"`
}

// Append writes one record to the JSONL log at path, creating parents as
// needed.
func Append(path string, r Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open metrics log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// ErrNoMetrics is returned when the metrics log is absent or holds no
// parseable rows.
var ErrNoMetrics = errors.New("no valid metrics rows found")

// Load reads every parseable record from the JSONL log. Unparseable lines
// are skipped. An absent file or a log with zero usable rows is ErrNoMetrics.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNoMetrics
	}
	defer f.Close()

	var rows []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil, ErrNoMetrics
	}
	return rows, nil
}

// Stats aggregates a metrics history.
type Stats struct {
	Total         int
	Pass          int
	Fail          int
	AvgDurationMS int64
	CacheHitRate  int
	HighRiskFails int
}

// highRiskScore marks a run as high risk for tuning purposes.
const highRiskScore = 70

// Aggregate folds records into summary statistics.
func Aggregate(rows []Record) Stats {
	s := Stats{Total: len(rows)}
	if s.Total == 0 {
		return s
	}
	var durationSum int64
	cacheHits := 0
	for _, r := range rows {
		if r.Result == "pass" {
			s.Pass++
		}
		durationSum += r.DurationMS
		cacheHits += r.CacheHits
		if r.RiskScore >= highRiskScore && r.Result == "fail" {
			s.HighRiskFails++
		}
	}
	s.Fail = s.Total - s.Pass
	s.AvgDurationMS = int64(math.Round(float64(durationSum) / float64(s.Total)))
	s.CacheHitRate = int(math.Round(float64(cacheHits) / float64(s.Total) * 100))
	return s
}

// Recommendations derives tuning advice from aggregated stats. A healthy
// history yields a single keep-monitoring line.
func Recommendations(s Stats) []string {
	var rec []string
	if s.Fail > s.Pass {
		rec = append(rec, "Increase strictness: enforce strict-manual-gates for all runs.")
	}
	if s.AvgDurationMS > 60000 {
		rec = append(rec, "Optimize run duration: add narrower test commands or split task scope.")
	}
	if s.CacheHitRate < 30 {
		rec = append(rec, "Improve cache hit rate: avoid task file churn and stabilize lockfiles during runs.")
	}
	if s.HighRiskFails > 0 {
		rec = append(rec, "Lower high risk threshold to 60 and require strict-manual-gates on high risk tasks.")
	}
	if len(rec) == 0 {
		rec = append(rec, "Current tuning is healthy. Keep monitoring weekly.")
	}
	return rec
}

// RenderReport formats the recommendations document.
func RenderReport(s Stats, rec []string, now time.Time) string {
	out := "# Auto-Tuning Recommendations\n\n"
	out += fmt.Sprintf("- Generated: %s\n", now.UTC().Format(time.RFC3339))
	out += fmt.Sprintf("- Runs analyzed: %d\n", s.Total)
	out += fmt.Sprintf("- Pass: %d\n", s.Pass)
	out += fmt.Sprintf("- Fail: %d\n", s.Fail)
	out += fmt.Sprintf("- Avg duration (ms): %d\n", s.AvgDurationMS)
	out += fmt.Sprintf("- Cache hit rate (%%): %d\n\n", s.CacheHitRate)
	out += "## Recommendations\n\n"
	for _, item := range rec {
		out += fmt.Sprintf("- %s\n", item)
	}
	return out
}
