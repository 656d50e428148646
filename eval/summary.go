package eval

import (
	"math"

	"github.com/goark/go-cvss/v3/metric"

	"github.com/aquasecurity/cvrf-eval/cvrf"
)

const SeverityUnknown = "Unknown"

// VulnerabilitySummary condenses the results of one vulnerability.
type VulnerabilitySummary struct {
	Ordinal    int
	CVE        string
	Severity   string
	Score      float64
	Fixed      int
	Vulnerable int
}

type Summary struct {
	Advisory        string
	Platform        string
	Vulnerabilities []VulnerabilitySummary
	// Severities counts vulnerabilities that leave at least one product vulnerable.
	Severities map[string]int
}

func (r *Report) Summary() Summary {
	s := Summary{
		Advisory:   r.Model.Identification(),
		Platform:   r.Platform,
		Severities: map[string]int{},
	}
	for _, v := range r.Model.Vulnerabilities {
		severity, score := VulnerabilitySeverity(v)
		vs := VulnerabilitySummary{Ordinal: v.Ordinal, CVE: v.CVE, Severity: severity, Score: score}
		for _, id := range r.ProductIDs {
			if r.Status(v, id) == StatusFixed {
				vs.Fixed++
			} else {
				vs.Vulnerable++
			}
		}
		if vs.Vulnerable > 0 {
			s.Severities[severity]++
		}
		s.Vulnerabilities = append(s.Vulnerabilities, vs)
	}
	return s
}

// VulnerabilitySeverity returns the highest severity among the score sets of
// v. Scores come from BaseScore when present, else from the CVSS v3 vector.
func VulnerabilitySeverity(v *cvrf.Vulnerability) (string, float64) {
	severity, best := SeverityUnknown, math.NaN()
	for _, set := range v.ScoreSets {
		sev, score, ok := ScoreSetSeverity(set)
		if !ok {
			continue
		}
		if math.IsNaN(best) || score > best {
			severity, best = sev, score
		}
	}
	return severity, best
}

func ScoreSetSeverity(s *cvrf.ScoreSet) (string, float64, bool) {
	if s.Vector != "" {
		if bm, err := metric.NewBase().Decode(s.Vector); err == nil {
			score := bm.Score()
			if !math.IsNaN(s.BaseScore) {
				score = s.BaseScore
			}
			return bm.Severity().String(), score, true
		}
	}
	if math.IsNaN(s.BaseScore) {
		return "", 0, false
	}
	return severityFromScore(s.BaseScore), s.BaseScore, true
}

// severityFromScore applies the CVSS v3 qualitative rating scale.
func severityFromScore(score float64) string {
	switch {
	case score == 0:
		return "None"
	case score < 4.0:
		return "Low"
	case score < 7.0:
		return "Medium"
	case score < 9.0:
		return "High"
	default:
		return "Critical"
	}
}
