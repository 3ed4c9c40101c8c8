package app

import (
	"fmt"
	"strings"

	"lottolab/internal/fairness"
)

// RenderMarkdown formats a fairness report as markdown with the topN
// strongest pair signals.
func RenderMarkdown(r *FairnessReport, topN int) string {
	var b strings.Builder
	mode := "main numbers"
	if r.IncludeBonus {
		mode = "main numbers + bonus"
	}

	fmt.Fprintf(&b, "# Fairness report\n\n")
	fmt.Fprintf(&b, "- Draws analysed: **%d** (#%d to #%d, %s)\n", r.Draws, r.FirstDraw, r.LastDraw, mode)
	fmt.Fprintf(&b, "- Dataset: `%s`\n", r.DatasetHash.Short())
	fmt.Fprintf(&b, "- Run: `%s` at %s\n\n", r.RunID, r.GeneratedAt)

	u := r.Uniformity
	fmt.Fprintf(&b, "## Uniformity\n\n")
	fmt.Fprintf(&b, "| statistic | df | p-value | expected per number |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %.3f | %d | %s | %.2f |\n\n", u.Statistic, u.DegreesOfFreedom, formatP(u.PValue), u.Expected)
	if u.PValue < 0.01 {
		b.WriteString("Number frequencies deviate from uniform at the 1% level.\n\n")
	} else {
		b.WriteString("No evidence against uniform number frequencies.\n\n")
	}

	fmt.Fprintf(&b, "## Pair co-occurrence\n\n")
	fmt.Fprintf(&b, "%d pairs tested, **%d** significant at FDR q = %g. ", len(r.Pairs), len(r.Significant), r.Q)
	fmt.Fprintf(&b, "Chance of a given pair per draw: %.5f.\n\n", r.ExactPairProbability)

	writePairs(&b, "Strongest pair signals", r.TopPairs(topN))
	if len(r.Significant) > 0 {
		writePairs(&b, "Significant pairs", r.Significant)
	}
	return b.String()
}

func writePairs(b *strings.Builder, title string, pairs []fairness.PairResult) {
	fmt.Fprintf(b, "### %s\n\n", title)
	b.WriteString("| pair | observed | expected | lift | z | p-value | q-value |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, p := range pairs {
		fmt.Fprintf(b, "| %d-%d | %d | %.2f | %.2f | %.2f | %s | %s |\n",
			p.A, p.B, p.Observed, p.Expected, p.Lift, p.Z, formatP(p.PValue), formatP(p.QValue))
	}
	b.WriteString("\n")
}

func formatP(p float64) string {
	if p < 1e-4 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}
