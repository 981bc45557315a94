package strategy

import (
	"strings"

	"github.com/ledgerline/ledgerline/parser/patterns"
	"github.com/ledgerline/ledgerline/parser/txn"
)

const (
	// multilineConfidence is fixed: joins are structurally strong evidence.
	multilineConfidence = 0.8
	// maxContinuationLines bounds how far a wrapped transaction may run.
	maxContinuationLines = 4
	// OverlapThreshold is the merchant-token overlap at which a per-line
	// candidate is considered a duplicate of a joined one. Tunable default
	// with no empirical basis beyond field observation.
	OverlapThreshold = 0.7
)

// JoinMultiline is a global pre-pass over all lines. It finds a
// "date present, amount absent" opener, optional continuation lines, and an
// "amount present, date absent" closer, and joins them into one candidate.
// The returned set marks the indexes it consumed.
func JoinMultiline(lines []string, cfg *patterns.Config, fallbackYear int) ([]txn.Candidate, map[int]bool) {
	var candidates []txn.Candidate
	consumed := map[int]bool{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if cfg.ShouldSkip(line) {
			continue
		}

		dateTok, _, hasDate := cfg.FirstDate(line)
		_, _, hasAmount := cfg.LastAmount(line)
		if !hasDate || hasAmount {
			continue
		}
		date, ok := txn.NormalizeDate(dateTok, fallbackYear)
		if !ok {
			continue
		}

		// Collect continuation lines until a closer carrying the amount.
		parts := []string{line}
		closer := -1
		for j := i + 1; j <= i+maxContinuationLines && j < len(lines); j++ {
			next := lines[j]
			if cfg.ShouldSkip(next) {
				break
			}
			_, _, nextDate := cfg.FirstDate(next)
			_, _, nextAmount := cfg.LastAmount(next)
			if nextDate {
				break // a new transaction opener, not a continuation
			}
			parts = append(parts, next)
			if nextAmount {
				closer = j
				break
			}
		}
		if closer == -1 {
			continue
		}

		joined := strings.Join(parts, " ")
		amountTok, aStart, ok := cfg.LastAmount(joined)
		if !ok {
			continue
		}
		amount, err := txn.ParseAmount(amountTok)
		if err != nil {
			continue
		}

		dStart := strings.Index(joined, dateTok)
		merchant := txn.CleanMerchant(excise(joined, dStart, dStart+len(dateTok), aStart, aStart+len(amountTok)))
		if !hasLetters(merchant) {
			continue
		}

		candidates = append(candidates, txn.Candidate{
			Raw: txn.Raw{
				Date:     date,
				Merchant: merchant,
				Amount:   amount,
			},
			Confidence: multilineConfidence,
			Strategy:   NameMultiline,
		})
		for k := i; k <= closer; k++ {
			consumed[k] = true
		}
		i = closer
	}

	return candidates, consumed
}

// TokenOverlap returns the share of a's merchant tokens that also appear
// in b's. Used to suppress per-line re-extraction of joined transactions.
func TokenOverlap(a, b string) float64 {
	aTokens := txn.Tokens(a)
	if len(aTokens) == 0 {
		return 0
	}
	bSet := map[string]bool{}
	for _, t := range txn.Tokens(b) {
		bSet[t] = true
	}
	hits := 0
	for _, t := range aTokens {
		if bSet[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(aTokens))
}
