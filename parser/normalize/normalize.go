// Package normalize turns accepted extraction candidates into the final,
// validated, deduplicated, date-sorted transaction list.
package normalize

import (
	"sort"

	"github.com/ledgerline/ledgerline/parser/txn"
	"github.com/shopspring/decimal"
)

// Options tune validation strictness.
type Options struct {
	// MinMerchantLen rejects merchants shorter than this many characters.
	MinMerchantLen int
	// MaxAmount is the sanity ceiling on the absolute amount.
	MaxAmount decimal.Decimal
}

// DefaultOptions returns the standard strictness: 2-character merchants,
// 1,000,000 ceiling.
func DefaultOptions() Options {
	return Options{
		MinMerchantLen: 2,
		MaxAmount:      decimal.NewFromInt(1_000_000),
	}
}

// Run validates, rounds, deduplicates and sorts candidates. Deduplication
// keys on (date, lowercased merchant, amount); on collision the longer,
// more descriptive merchant survives. Output is ascending by date.
func Run(candidates []txn.Candidate, opts Options) []txn.Raw {
	if opts.MinMerchantLen < 1 {
		opts.MinMerchantLen = 1
	}
	if opts.MaxAmount.IsZero() {
		opts.MaxAmount = DefaultOptions().MaxAmount
	}

	byKey := map[string]txn.Raw{}
	order := []string{}

	for _, cand := range candidates {
		raw := cand.Raw
		raw.Amount = raw.Amount.Round(2)

		if raw.Date == "" {
			continue
		}
		if len(raw.Merchant) < opts.MinMerchantLen {
			continue
		}
		if raw.Amount.Abs().GreaterThan(opts.MaxAmount) {
			continue
		}

		key := raw.Key()
		existing, seen := byKey[key]
		if !seen {
			byKey[key] = raw
			order = append(order, key)
			continue
		}
		if len(raw.Merchant) > len(existing.Merchant) {
			byKey[key] = raw
		}
	}

	out := make([]txn.Raw, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
