package strategy

import (
	"strings"

	"github.com/ledgerline/ledgerline/parser/txn"
)

// Component weights for the pattern strategy.
const (
	patternDateWeight             = 0.3
	patternAmountWeight           = 0.4
	patternMerchantWeight         = 0.3
	patternFallbackMerchantWeight = 0.2
)

// Pattern extracts the first date token, the last amount token, and takes
// the merchant as the line with both substrings excised. Missing any
// component rejects the line.
type Pattern struct{}

func (Pattern) Name() string { return NamePattern }

func (Pattern) Extract(line string, ctx *Context) (txn.Candidate, bool) {
	dateTok, dStart, ok := ctx.Patterns.FirstDate(line)
	if !ok {
		return txn.Candidate{}, false
	}
	date, ok := txn.NormalizeDate(dateTok, ctx.FallbackYear)
	if !ok {
		return txn.Candidate{}, false
	}

	amountTok, aStart, ok := ctx.Patterns.LastAmount(line)
	if !ok {
		return txn.Candidate{}, false
	}
	amount, err := txn.ParseAmount(amountTok)
	if err != nil {
		return txn.Candidate{}, false
	}

	confidence := patternDateWeight + patternAmountWeight

	residual := excise(line, dStart, dStart+len(dateTok), aStart, aStart+len(amountTok))
	merchant := txn.CleanMerchant(residual)
	if hasLetters(merchant) {
		confidence += patternMerchantWeight
	} else {
		// Residual was empty or pure noise; fall back to the merchant
		// pattern set over the whole line.
		merchant = ""
		for _, re := range ctx.Patterns.Merchant {
			if m := re.FindString(line); m != "" {
				merchant = txn.CleanMerchant(m)
				break
			}
		}
		if !hasLetters(merchant) {
			return txn.Candidate{}, false
		}
		confidence += patternFallbackMerchantWeight
	}

	return txn.Candidate{
		Raw: txn.Raw{
			Date:     date,
			Merchant: merchant,
			Amount:   amount,
		},
		Confidence: confidence,
		Strategy:   NamePattern,
	}, true
}

func hasLetters(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
}
