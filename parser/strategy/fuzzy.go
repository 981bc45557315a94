package strategy

import (
	"github.com/ledgerline/ledgerline/parser/txn"
)

// Fuzzy component scores, scaled down because the structure is guessed.
const (
	fuzzyDateScore     = 0.25
	fuzzyAmountScore   = 0.3
	fuzzyMerchantScore = 0.25
	fuzzyScale         = 0.8
)

// Fuzzy takes the first date-like token and the last amount-like token and
// reads the merchant as whatever sits strictly between them. Looser than
// the pattern strategy but survives layouts it cannot.
type Fuzzy struct{}

func (Fuzzy) Name() string { return NameFuzzy }

func (Fuzzy) Extract(line string, ctx *Context) (txn.Candidate, bool) {
	score := 0.0

	dateTok, dStart, ok := ctx.Patterns.FirstDate(line)
	if !ok {
		return txn.Candidate{}, false
	}
	date, ok := txn.NormalizeDate(dateTok, ctx.FallbackYear)
	if !ok {
		return txn.Candidate{}, false
	}
	score += fuzzyDateScore

	amountTok, aStart, ok := ctx.Patterns.LastAmount(line)
	if !ok {
		return txn.Candidate{}, false
	}
	amount, err := txn.ParseAmount(amountTok)
	if err != nil {
		return txn.Candidate{}, false
	}
	score += fuzzyAmountScore

	// Merchant lives strictly between the two tokens, but only when the
	// date precedes the amount.
	dEnd := dStart + len(dateTok)
	if dEnd >= aStart {
		return txn.Candidate{}, false
	}
	merchant := txn.CleanMerchant(line[dEnd:aStart])
	if !hasLetters(merchant) {
		return txn.Candidate{}, false
	}
	score += fuzzyMerchantScore

	return txn.Candidate{
		Raw: txn.Raw{
			Date:     date,
			Merchant: merchant,
			Amount:   amount,
		},
		Confidence: score * fuzzyScale,
		Strategy:   NameFuzzy,
	}, true
}
