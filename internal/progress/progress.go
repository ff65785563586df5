// Package progress derives completion statistics from compliance
// state. Every function here is pure: no side effects, fully
// deterministic, recomputed on each call.
package progress

import (
	"sort"

	"github.com/veriflowhq/veriflow/internal/model"
)

// MaxCriticalGaps caps the critical-gap list to the most severe
// entries.
const MaxCriticalGaps = 5

// FrameworkProgress summarizes completion against one framework.
type FrameworkProgress struct {
	FrameworkID string `json:"framework_id"`
	Total       int    `json:"total"`     // Controls mapped to this framework
	Compliant   int    `json:"compliant"` // Answer yes or na
	Percent     int    `json:"percent"`   // Compliant / Total
	Gaps        int    `json:"gaps"`      // Answer no
	Partial     int    `json:"partial"`   // Answer partial
}

// DomainProgress summarizes completion within one control domain.
type DomainProgress struct {
	Domain    string `json:"domain"`
	Total     int    `json:"total"`
	Answered  int    `json:"answered"`
	Compliant int    `json:"compliant"`
	Gaps      int    `json:"gaps"`
	Percent   int    `json:"percent"` // Answered / Total
}

// Stats summarizes the whole catalog.
type Stats struct {
	TotalControls int `json:"total_controls"`
	Answered      int `json:"answered"`
	Compliant     int `json:"compliant"`
	Gaps          int `json:"gaps"`
	Partial       int `json:"partial"`
	Percent       int `json:"percent"` // Compliant / Total
}

// Gap pairs a non-compliant control with its response.
type Gap struct {
	Control  model.Control         `json:"control"`
	Response model.ControlResponse `json:"response"`
}

// Framework computes progress against one framework across the given
// controls (built-in plus active custom).
func Framework(s model.Snapshot, controls []model.Control, frameworkID string) FrameworkProgress {
	p := FrameworkProgress{FrameworkID: frameworkID}
	for _, ctrl := range controls {
		if !mapsTo(ctrl, frameworkID) {
			continue
		}
		p.Total++
		r, ok := s.Responses[ctrl.ID]
		if !ok {
			continue
		}
		switch {
		case r.Answer.Compliant():
			p.Compliant++
		case r.Answer == model.AnswerNo:
			p.Gaps++
		case r.Answer == model.AnswerPartial:
			p.Partial++
		}
	}
	p.Percent = percent(p.Compliant, p.Total)
	return p
}

// AllFrameworks computes progress for every framework mapped by the
// given controls, sorted by framework id.
func AllFrameworks(s model.Snapshot, controls []model.Control) []FrameworkProgress {
	seen := make(map[string]bool)
	var ids []string
	for _, ctrl := range controls {
		for _, m := range ctrl.Mappings {
			if !seen[m.FrameworkID] {
				seen[m.FrameworkID] = true
				ids = append(ids, m.FrameworkID)
			}
		}
	}
	sort.Strings(ids)
	out := make([]FrameworkProgress, 0, len(ids))
	for _, id := range ids {
		out = append(out, Framework(s, controls, id))
	}
	return out
}

// Domain computes progress within one control domain.
func Domain(s model.Snapshot, controls []model.Control, domain string) DomainProgress {
	p := DomainProgress{Domain: domain}
	for _, ctrl := range controls {
		if ctrl.Domain != domain {
			continue
		}
		p.Total++
		r, ok := s.Responses[ctrl.ID]
		if !ok || r.Answer == model.AnswerUnset {
			continue
		}
		p.Answered++
		switch {
		case r.Answer.Compliant():
			p.Compliant++
		case r.Answer == model.AnswerNo:
			p.Gaps++
		}
	}
	p.Percent = percent(p.Answered, p.Total)
	return p
}

// AllDomains computes progress for every domain across the given
// controls, sorted by domain name.
func AllDomains(s model.Snapshot, controls []model.Control) []DomainProgress {
	seen := make(map[string]bool)
	var domains []string
	for _, ctrl := range controls {
		if !seen[ctrl.Domain] {
			seen[ctrl.Domain] = true
			domains = append(domains, ctrl.Domain)
		}
	}
	sort.Strings(domains)
	out := make([]DomainProgress, 0, len(domains))
	for _, d := range domains {
		out = append(out, Domain(s, controls, d))
	}
	return out
}

// Overall computes catalog-wide statistics.
func Overall(s model.Snapshot, controls []model.Control) Stats {
	st := Stats{TotalControls: len(controls)}
	for _, ctrl := range controls {
		r, ok := s.Responses[ctrl.ID]
		if !ok || r.Answer == model.AnswerUnset {
			continue
		}
		st.Answered++
		switch {
		case r.Answer.Compliant():
			st.Compliant++
		case r.Answer == model.AnswerNo:
			st.Gaps++
		case r.Answer == model.AnswerPartial:
			st.Partial++
		}
	}
	st.Percent = percent(st.Compliant, st.TotalControls)
	return st
}

// CriticalGaps returns controls answered "no" whose risk is critical
// or high, most severe first, capped to MaxCriticalGaps. Ordering is
// deterministic: severity rank, then control id.
func CriticalGaps(s model.Snapshot, controls []model.Control) []Gap {
	var gaps []Gap
	for _, ctrl := range controls {
		if ctrl.Risk != model.RiskCritical && ctrl.Risk != model.RiskHigh {
			continue
		}
		r, ok := s.Responses[ctrl.ID]
		if !ok || r.Answer != model.AnswerNo {
			continue
		}
		gaps = append(gaps, Gap{Control: ctrl, Response: r})
	}
	sort.Slice(gaps, func(i, j int) bool {
		ri, rj := gaps[i].Control.Risk.Rank(), gaps[j].Control.Risk.Rank()
		if ri != rj {
			return ri > rj
		}
		return gaps[i].Control.ID < gaps[j].Control.ID
	})
	if len(gaps) > MaxCriticalGaps {
		gaps = gaps[:MaxCriticalGaps]
	}
	return gaps
}

// percent computes a rounded integer percentage, 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part*100 + total/2) / total
}

func mapsTo(ctrl model.Control, frameworkID string) bool {
	for _, m := range ctrl.Mappings {
		if m.FrameworkID == frameworkID {
			return true
		}
	}
	return false
}
