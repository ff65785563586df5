package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/veriflowhq/veriflow/internal/progress"
)

func TestRenderStatusReport_Golden(t *testing.T) {
	report := StatusReport{
		Org: "acme",
		Stats: progress.Stats{
			TotalControls: 14, Answered: 3, Compliant: 1,
			Gaps: 1, Partial: 1, Percent: 7,
		},
		Frameworks: []progress.FrameworkProgress{
			{FrameworkID: "ISO27001", Total: 8, Compliant: 1, Percent: 13, Gaps: 1},
			{FrameworkID: "SOC2", Total: 12, Compliant: 1, Percent: 8, Gaps: 1, Partial: 1},
		},
		Domains: []progress.DomainProgress{
			{Domain: "Access Control", Total: 3, Answered: 2, Compliant: 1, Gaps: 1, Percent: 67},
			{Domain: "Data Protection", Total: 3, Answered: 1, Percent: 33},
		},
	}

	var buf bytes.Buffer
	RenderStatusReport(&buf, report)

	g := goldie.New(t)
	g.Assert(t, "status_report", buf.Bytes())
}
