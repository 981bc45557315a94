package strategy

import (
	"strings"

	"github.com/ledgerline/ledgerline/parser/txn"
)

// Penalties applied when a neighboring line carries a token this line
// lacks, which usually means one transaction wrapped across lines.
const (
	contextualDatePenalty   = 0.2
	contextualAmountPenalty = 0.3
	contextualWindow        = 2
)

// Contextual reruns the pattern strategy but discounts confidence when
// nearby lines hold date or amount tokens that are absent from this line.
type Contextual struct{}

func (Contextual) Name() string { return NameContextual }

func (Contextual) Extract(line string, ctx *Context) (txn.Candidate, bool) {
	cand, ok := Pattern{}.Extract(line, ctx)
	if !ok {
		return txn.Candidate{}, false
	}

	datePenalized, amountPenalized := false, false
	for off := -contextualWindow; off <= contextualWindow; off++ {
		if off == 0 {
			continue
		}
		idx := ctx.Index + off
		if idx < 0 || idx >= len(ctx.Lines) {
			continue
		}
		neighbor := ctx.Lines[idx]

		if !datePenalized {
			if tok, _, ok := ctx.Patterns.FirstDate(neighbor); ok && !strings.Contains(line, tok) {
				cand.Confidence -= contextualDatePenalty
				datePenalized = true
			}
		}
		if !amountPenalized {
			if tok, _, ok := ctx.Patterns.LastAmount(neighbor); ok && !strings.Contains(line, tok) {
				cand.Confidence -= contextualAmountPenalty
				amountPenalized = true
			}
		}
	}

	if cand.Confidence <= 0 {
		return txn.Candidate{}, false
	}
	cand.Strategy = NameContextual
	return cand, true
}
