package parser

import (
	"log"
	"strings"

	"github.com/ledgerline/ledgerline/parser/patterns"
	"github.com/ledgerline/ledgerline/parser/strategy"
	"github.com/ledgerline/ledgerline/parser/txn"
)

// extract runs the global pre-passes and the per-line strategy contest,
// returning accepted candidates plus the line counters.
func (p *Parser) extract(text string, cfg *patterns.Config) ([]txn.Candidate, Stats) {
	fallbackYear := txn.LatestYear(text)
	lines := strings.Split(text, "\n")
	stats := Stats{TotalLines: len(lines)}

	// Delimiter-separated input bypasses the line strategies entirely.
	if csvCands, ok := strategy.ExtractCSV(text, fallbackYear); ok {
		log.Printf("📑 Delimiter-separated input, %d rows mapped", len(csvCands))
		accepted := p.filter(csvCands)
		stats.ProcessedLines = len(lines)
		stats.SuccessfulExtractions = len(accepted)
		return accepted, stats
	}

	joined, consumed := strategy.JoinMultiline(lines, cfg, fallbackYear)
	accepted := p.filter(joined)

	perLine := strategy.PerLine()
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || cfg.ShouldSkip(line) {
			stats.SkippedLines++
			continue
		}
		stats.ProcessedLines++
		// Lines folded into a joined transaction are settled already.
		if consumed[i] {
			continue
		}
		if cfg.IsSectionHeader(trimmed) {
			log.Printf("📌 Section: %s", trimmed)
		}

		ctx := &strategy.Context{
			Lines:        lines,
			Index:        i,
			Patterns:     cfg,
			FallbackYear: fallbackYear,
		}
		cand, ok := strategy.Best(line, ctx, perLine)
		if !ok || cand.Confidence < p.opts.MinConfidence {
			if matchesTransactionLine(cfg, line) {
				log.Printf("⚠️ Transaction-shaped line yielded no candidate: %s", trimmed)
			}
			continue
		}
		// A joined multi-line transaction already covers this text.
		if overlapsJoined(cand, joined) {
			continue
		}
		accepted = append(accepted, cand)
	}

	stats.SuccessfulExtractions = len(accepted)
	return accepted, stats
}

func (p *Parser) filter(candidates []txn.Candidate) []txn.Candidate {
	out := make([]txn.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Confidence >= p.opts.MinConfidence {
			out = append(out, cand)
		}
	}
	return out
}

func matchesTransactionLine(cfg *patterns.Config, line string) bool {
	for _, re := range cfg.TransactionLine {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func overlapsJoined(cand txn.Candidate, joined []txn.Candidate) bool {
	for _, j := range joined {
		if strategy.TokenOverlap(cand.Merchant, j.Merchant) >= strategy.OverlapThreshold {
			return true
		}
	}
	return false
}
