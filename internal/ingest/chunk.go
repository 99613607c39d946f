package ingest

import (
	"fmt"
	"strings"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// referenceFields maps REFERENCE_DATA keys to display labels, in emission
// order. Only fields present in the record make it into the passage.
var referenceFields = []struct{ key, label string }{
	{"sharesOutstanding", "Shares outstanding (M)"},
	{"analystTarget", "Analyst target price"},
	{"epsTrailing", "Trailing EPS"},
	{"epsForward", "Forward EPS"},
	{"divPerShare", "Dividend per share"},
	{"revenue", "Revenue ($B)"},
	{"revenueGrowth", "Revenue growth (%)"},
	{"ebitMargin", "EBIT margin (%)"},
	{"ebitdaMargin", "EBITDA margin (%)"},
	{"roe", "Return on equity (%)"},
	{"netDebtToEbitda", "Net debt/EBITDA"},
	{"fcf", "Free cash flow ($B)"},
	{"fcfMargin", "FCF margin (%)"},
}

// ChunkStock maps one ticker's record (plus optional reference and freshness
// entries) onto its ordered passage list. Each field group emits zero, one,
// or one-per-item passages with fixed section naming, tags and prior weight.
// Groups whose core sub-fields are absent emit nothing; chunking never fails
// on sparse data.
func ChunkStock(ticker string, rec *StockRecord, ref ReferenceRecord, fresh *FreshnessRecord) []domain.Passage {
	var passages []domain.Passage
	emit := func(section, subsection, content string, tags []string, weight float64) {
		passages = append(passages, domain.Passage{
			Ticker:     ticker,
			Section:    section,
			Subsection: subsection,
			Content:    content,
			Tags:       tags,
			Weight:     weight,
		})
	}

	// Company overview.
	var overview []string
	if !rec.Company.Empty() {
		overview = append(overview, fmt.Sprintf("%s (ASX: %s)", rec.Company, ticker))
	}
	if !rec.Sector.Empty() {
		overview = append(overview, fmt.Sprintf("Sector: %s", rec.Sector))
	}
	for _, v := range []Value{rec.HeroDescription, rec.HeroCompanyDescription, rec.Identity.Overview} {
		if !v.Empty() {
			overview = append(overview, cleanHTML(v.String()))
		}
	}
	if len(overview) > 0 {
		emit("overview", "company_description", strings.Join(overview, "\n"),
			[]string{"overview", "fundamentals"}, 1.0)
	}

	// Headline metrics, joined into a single passage.
	if len(rec.HeroMetrics) > 0 {
		pairs := make([]string, 0, len(rec.HeroMetrics))
		for _, m := range rec.HeroMetrics {
			pairs = append(pairs, fmt.Sprintf("%s: %s", m.Label, cleanHTML(m.Value.String())))
		}
		emit("overview", "key_metrics",
			fmt.Sprintf("Key metrics for %s: %s", ticker, strings.Join(pairs, ", ")),
			[]string{"metrics", "fundamentals"}, 0.8)
	}

	// Identity table, rows flattened into "label: value" lines.
	var idLines []string
	for _, row := range rec.Identity.Rows {
		for _, cell := range row {
			if len(cell) >= 2 {
				idLines = append(idLines, fmt.Sprintf("%s: %s", cell[0], cleanHTML(cell[1].String())))
			}
		}
	}
	if len(idLines) > 0 {
		emit("identity", "financial_data",
			fmt.Sprintf("Financial identity for %s:\n%s", ticker, strings.Join(idLines, "\n")),
			[]string{"identity", "financials", "fundamentals"}, 0.9)
	}

	// Risk skew.
	if rec.Skew != nil && (rec.Skew.Direction.IsSet() || rec.Skew.Rationale.IsSet()) {
		emit("verdict", "skew",
			fmt.Sprintf("Risk skew for %s: %s. %s",
				ticker, rec.Skew.Direction.Or("unknown"), cleanHTML(rec.Skew.Rationale.String())),
			[]string{"skew", "risk", "verdict"}, 1.0)
	}

	// Verdict with per-dimension scores.
	if rec.Verdict != nil && (rec.Verdict.Text.IsSet() || len(rec.Verdict.Scores) > 0) {
		parts := []string{fmt.Sprintf("Verdict for %s: %s", ticker, cleanHTML(rec.Verdict.Text.String()))}
		for _, sc := range rec.Verdict.Scores {
			parts = append(parts, fmt.Sprintf("  %s: %s (%s)",
				sc.Label, sc.Score, cleanHTML(sc.DirText.String())))
		}
		emit("verdict", "summary", strings.Join(parts, "\n"),
			[]string{"verdict", "thesis", "summary"}, 1.2)
	}

	// One passage per hypothesis, tagged with tier and direction.
	for _, hyp := range rec.Hypotheses {
		parts := []string{
			fmt.Sprintf("Hypothesis: %s", cleanHTML(hyp.Title.String())),
			fmt.Sprintf("Direction: %s", hyp.Direction),
			fmt.Sprintf("Probability: %s", hyp.Score),
			fmt.Sprintf("Status: %s", cleanHTML(hyp.StatusText.String())),
			fmt.Sprintf("Description: %s", cleanHTML(hyp.Description.String())),
		}
		if line := joinCleaned(hyp.Requires, "; "); line != "" {
			parts = append(parts, "Requires: "+line)
		}
		if line := joinCleaned(hyp.Supporting, " | "); line != "" {
			parts = append(parts, "Supporting evidence: "+line)
		}
		if line := joinCleaned(hyp.Contradicting, " | "); line != "" {
			parts = append(parts, "Contradicting evidence: "+line)
		}

		tags := []string{"hypothesis"}
		if !hyp.Tier.Empty() {
			tags = append(tags, hyp.Tier.String())
		}
		if !hyp.Direction.Empty() {
			tags = append(tags, hyp.Direction.String())
		}
		emit("hypothesis", hyp.Tier.String(), strings.Join(parts, "\n"), tags, 1.3)
	}

	// Narrative sub-fields, each its own passage when present.
	if n := rec.Narrative; n != nil {
		if !n.TheNarrative.Empty() {
			emit("narrative", "the_narrative",
				fmt.Sprintf("Market narrative for %s: %s", ticker, cleanHTML(n.TheNarrative.String())),
				[]string{"narrative", "thesis"}, 1.1)
		}
		if pi := n.PriceImplication; pi != nil && !pi.Content.Empty() {
			emit("narrative", "price_implication",
				fmt.Sprintf("Price implications for %s (%s): %s",
					ticker, cleanHTML(pi.Label.String()), cleanHTML(pi.Content.String())),
				[]string{"narrative", "price", "valuation"}, 1.0)
		}
		if !n.EvidenceCheck.Empty() {
			emit("narrative", "evidence_check",
				fmt.Sprintf("Evidence check for %s: %s", ticker, cleanHTML(n.EvidenceCheck.String())),
				[]string{"narrative", "evidence"}, 1.0)
		}
		if !n.NarrativeStability.Empty() {
			emit("narrative", "stability",
				fmt.Sprintf("Narrative stability for %s: %s", ticker, cleanHTML(n.NarrativeStability.String())),
				[]string{"narrative", "stability", "risk"}, 1.0)
		}
	}

	// One passage per evidence card, plus a table passage when the card
	// carries a tabular appendix.
	for _, card := range rec.Evidence.Cards {
		parts := []string{
			fmt.Sprintf("Evidence: %s", cleanHTML(card.Title.String())),
			fmt.Sprintf("Epistemic status: %s", cleanHTML(card.EpistemicLabel.String())),
			fmt.Sprintf("Finding: %s", cleanHTML(card.Finding.String())),
		}
		if !card.Tension.Empty() {
			parts = append(parts, fmt.Sprintf("Tension: %s", cleanHTML(card.Tension.String())))
		}
		if !card.Source.Empty() {
			parts = append(parts, fmt.Sprintf("Source: %s", cleanHTML(card.Source.String())))
		}
		tags := []string{"evidence"}
		for _, t := range card.Tags {
			tags = append(tags, cleanHTML(t.Text.String()))
		}
		emit("evidence", fmt.Sprintf("card_%s", card.Number), strings.Join(parts, "\n"), tags, 1.1)

		if tbl := card.Table; tbl != nil {
			lines := []string{joinValues(tbl.Headers, " | ")}
			for _, row := range tbl.Rows {
				lines = append(lines, joinCleaned(row, " | "))
			}
			emit("evidence", fmt.Sprintf("card_%s_table", card.Number),
				fmt.Sprintf("Data table for %s:\n%s", cleanHTML(card.Title.String()), strings.Join(lines, "\n")),
				[]string{"evidence", "data"}, 0.8)
		}
	}

	// Evidence alignment summary.
	if as := rec.Evidence.AlignmentSummary; as != nil && as.Summary != nil {
		s := as.Summary
		emit("evidence", "alignment_summary",
			fmt.Sprintf("Evidence alignment summary for %s: T1 support: %s, T2 support: %s, T3 support: %s, T4 support: %s",
				ticker, s.T1.Or("-"), s.T2.Or("-"), s.T3.Or("-"), s.T4.Or("-")),
			[]string{"evidence", "summary", "alignment"}, 1.0)
	}

	// Discriminating evidence rows.
	if d := rec.Discriminators; d != nil {
		for i, row := range d.Rows {
			tags := []string{"discriminator"}
			if !row.Diagnosticity.Empty() {
				tags = append(tags, strings.ToLower(row.Diagnosticity.String()))
			}
			emit("discriminator", fmt.Sprintf("disc_%d", i+1),
				fmt.Sprintf("Discriminator (%s) for %s: %s — Discriminates between: %s — Current reading: %s",
					row.Diagnosticity, ticker,
					cleanHTML(row.Evidence.String()),
					cleanHTML(row.DiscriminatesBetween.String()),
					cleanHTML(row.CurrentReading.String())),
				tags, 1.2)
		}
		if !d.NonDiscriminating.Empty() {
			emit("discriminator", "non_discriminating",
				fmt.Sprintf("Non-discriminating evidence for %s: %s",
					ticker, cleanHTML(d.NonDiscriminating.String())),
				[]string{"discriminator", "noise"}, 0.6)
		}
	}

	// Tripwire cards, conditions rendered as "if -> then" lines.
	for _, tw := range rec.Tripwires.Cards {
		lines := make([]string, 0, len(tw.Conditions))
		for _, cond := range tw.Conditions {
			lines = append(lines, fmt.Sprintf("%s → %s",
				cleanHTML(cond.If.String()), cleanHTML(cond.Then.String())))
		}
		name := cleanHTML(tw.Name.String())
		emit("tripwire", name,
			fmt.Sprintf("Tripwire for %s: %s (Date: %s)\n%s",
				ticker, name, cleanHTML(tw.Date.String()), strings.Join(lines, "\n")),
			[]string{"tripwire", "catalyst", "risk"}, 1.2)
	}

	// Research gaps.
	if len(rec.Gaps.CouldntAssess) > 0 {
		lines := make([]string, 0, len(rec.Gaps.CouldntAssess))
		for _, g := range rec.Gaps.CouldntAssess {
			lines = append(lines, "- "+cleanHTML(g.String()))
		}
		emit("gaps", "unknowns",
			fmt.Sprintf("Research gaps for %s (what we couldn't assess):\n%s",
				ticker, strings.Join(lines, "\n")),
			[]string{"gaps", "limitations"}, 0.9)
	}

	// Technical analysis.
	if ta := rec.TechnicalAnalysis; ta != nil {
		parts := []string{
			fmt.Sprintf("Technical analysis for %s (%s):", ticker, ta.Date),
			fmt.Sprintf("Regime: %s, Clarity: %s", ta.Regime, ta.Clarity),
		}
		if ta.Price != nil {
			parts = append(parts, fmt.Sprintf("Price: %s%s", ta.Price.Currency, ta.Price.Current))
		}
		if ma := ta.MovingAverages; ma != nil {
			if ma.MA50 != nil {
				parts = append(parts, fmt.Sprintf("50-day MA: %s", ma.MA50.Value))
			}
			if ma.MA200 != nil {
				parts = append(parts, fmt.Sprintf("200-day MA: %s", ma.MA200.Value))
			}
			if ma.Crossover != nil {
				parts = append(parts, fmt.Sprintf("Crossover: %s (%s)", ma.Crossover.Type, ma.Crossover.Date))
			}
		}
		if ta.Volatility != nil {
			parts = append(parts, fmt.Sprintf("Annualised volatility: %s%%", ta.Volatility.Annualised))
		}
		emit("technical", "analysis", strings.Join(parts, "\n"),
			[]string{"technical", "price", "chart"}, 0.8)
	}

	// Reference data, built from the fixed field-label dictionary.
	if ref != nil {
		parts := []string{fmt.Sprintf("Reference data for %s:", ticker)}
		for _, f := range referenceFields {
			if v, ok := ref[f.key]; ok && v.IsSet() {
				parts = append(parts, fmt.Sprintf("  %s: %s", f.label, v))
			}
		}
		if buys, ok := ref["analystBuys"]; ok && buys.IsSet() {
			parts = append(parts, fmt.Sprintf("  Analyst consensus: %s Buy, %s Hold, %s Sell",
				buys.Or("0"), ref["analystHolds"].Or("0"), ref["analystSells"].Or("0")))
		}
		emit("reference", "fundamentals", strings.Join(parts, "\n"),
			[]string{"reference", "fundamentals", "financials"}, 0.7)
	}

	// Freshness status.
	if fresh != nil {
		emit("freshness", "status",
			fmt.Sprintf("Research freshness for %s: Last reviewed %s (%s days ago). "+
				"Price at review: %s, change since: %s%%. "+
				"Nearest catalyst: %s (%s days). Status: %s.",
				ticker,
				fresh.ReviewDate.Or("unknown"), fresh.DaysSinceReview.Or("?"),
				fresh.PriceAtReview.Or("?"), fresh.PricePctChange.Or("?"),
				fresh.NearestCatalyst.Or("none"), fresh.NearestCatalystDays.Or("?"),
				fresh.Status.Or("unknown")),
			[]string{"freshness", "status"}, 0.5)
	}

	return passages
}

func joinCleaned(values []Value, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, cleanHTML(v.String()))
	}
	return strings.Join(parts, sep)
}

func joinValues(values []Value, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, sep)
}
