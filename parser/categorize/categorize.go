// Package categorize assigns each transaction one category from the
// closed enumeration plus a debit/credit direction, using a layered
// resolution order from exact recall down to a fuzzy nearest-neighbor.
package categorize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ledgerline/ledgerline/parser/txn"
	"github.com/shopspring/decimal"
)

// Confidence levels per resolution layer.
const (
	learningConfidence  = 0.95
	customConfidence    = 0.9
	heuristicConfidence = 0.7
	fuzzyConfidence     = 0.6
	defaultConfidence   = 0.5

	// FuzzyMinSimilarity is the Jaccard floor for accepting a
	// nearest-neighbor hit. Tunable default pending validation.
	FuzzyMinSimilarity = 0.7
)

// Categorizer resolves categories against per-instance state: a learning
// store, an optional custom keyword map, and the immutable base rules.
type Categorizer struct {
	learning *LearningStore
	custom   []customKeyword // sorted, so resolution stays deterministic
	learn    bool
}

type customKeyword struct {
	keyword  string
	category txn.Category
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithLearning toggles learning-store recall and recording.
func WithLearning(enabled bool) Option {
	return func(c *Categorizer) { c.learn = enabled }
}

// WithCustomKeywords supplies a caller keyword→category override map.
// Keys are matched as lowercase substrings of the merchant.
func WithCustomKeywords(m map[string]txn.Category) Option {
	return func(c *Categorizer) {
		c.custom = c.custom[:0]
		for k, v := range m {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				c.custom = append(c.custom, customKeyword{keyword: k, category: v})
			}
		}
		sort.Slice(c.custom, func(i, j int) bool {
			return c.custom[i].keyword < c.custom[j].keyword
		})
	}
}

// WithStore injects a shared learning store, letting several parses keep
// one session's memory.
func WithStore(s *LearningStore) Option {
	return func(c *Categorizer) { c.learning = s }
}

// New builds a Categorizer with learning enabled by default.
func New(opts ...Option) *Categorizer {
	c := &Categorizer{
		learning: NewLearningStore(),
		learn:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.learning == nil {
		c.learning = NewLearningStore()
	}
	return c
}

// Store exposes the learning store backing this categorizer.
func (c *Categorizer) Store() *LearningStore {
	return c.learning
}

// Categorize resolves one transaction. Resolution order, first match wins:
// learning store, custom keywords, rule table, domain heuristics, fuzzy
// nearest-neighbor, then the Other default. The decision is recorded back
// into the learning store when learning is enabled.
func (c *Categorizer) Categorize(raw txn.Raw) (txn.Categorized, float64) {
	category, confidence := c.resolve(raw)

	if c.learn {
		c.learning.Put(raw.Merchant, category)
	}

	return txn.Categorized{
		Date:     raw.Date,
		Merchant: raw.Merchant,
		Amount:   raw.Amount,
		Category: category,
		Type:     Direction(raw.Merchant, raw.Amount),
	}, confidence
}

func (c *Categorizer) resolve(raw txn.Raw) (txn.Category, float64) {
	if c.learn {
		if category, ok := c.learning.Get(raw.Merchant); ok {
			return category, learningConfidence
		}
	}

	lower := txn.NormalizeMerchantKey(raw.Merchant)
	for _, ck := range c.custom {
		if strings.Contains(lower, ck.keyword) {
			return ck.category, customConfidence
		}
	}

	if category, confidence, ok := matchRules(raw.Merchant); ok {
		return category, confidence
	}

	if category, ok := heuristic(lower, raw.Amount); ok {
		return category, heuristicConfidence
	}

	if c.learn {
		if category, _, ok := c.learning.Nearest(raw.Merchant, FuzzyMinSimilarity); ok {
			return category, fuzzyConfidence
		}
	}

	return txn.CategoryOther, defaultConfidence
}

var addressRe = regexp.MustCompile(`\b\d{2,5}\s+\w+\s+(?:st|ave|rd|blvd|dr|ln|hwy|pkwy|way)\b`)

var (
	diningWords  = []string{"grill", "diner", "kitchen", "bistro", "eatery", "taqueria", "steakhouse", "sushi", "noodle"}
	fuelBrands   = []string{"shell", "chevron", "exxon", "mobil", "texaco", "sunoco", "marathon", "valero"}
	medicalWords = []string{"clinic", "hospital", "medical", "dental", "insurance"}
	loanWords    = []string{"loan", "lending", "mortgage", "escrow"}
)

var (
	smallAmountCeiling = decimal.NewFromInt(5)
	largeAmountFloor   = decimal.NewFromInt(1000)
)

// heuristic applies coarse domain signals for merchants no rule covered.
func heuristic(lower string, amount decimal.Decimal) (txn.Category, bool) {
	if addressRe.MatchString(lower) {
		return txn.CategoryRetail, true
	}
	for _, w := range diningWords {
		if strings.Contains(lower, w) {
			return txn.CategoryFood, true
		}
	}
	for _, w := range fuelBrands {
		if strings.Contains(lower, w) {
			return txn.CategoryRetail, true
		}
	}
	for _, w := range medicalWords {
		if strings.Contains(lower, w) {
			return txn.CategoryOther, true
		}
	}
	for _, w := range loanWords {
		if strings.Contains(lower, w) {
			return txn.CategoryBanking, true
		}
	}
	if amount.Abs().LessThan(smallAmountCeiling) {
		return txn.CategoryFees, true
	}
	if amount.Abs().GreaterThan(largeAmountFloor) {
		return txn.CategoryBanking, true
	}
	return "", false
}

// creditVocab marks merchant text that implies money coming in regardless
// of the amount's sign.
var creditVocab = []string{
	"deposit", "interest payment", "refund", "credit", "transfer in",
	"payroll", "salary", "wages", "reimbursement", "dividend",
}

// Direction decides debit vs credit from merchant vocabulary first, then
// the amount's sign.
func Direction(merchant string, amount decimal.Decimal) string {
	lower := txn.NormalizeMerchantKey(merchant)
	for _, w := range creditVocab {
		if strings.Contains(lower, w) {
			return txn.TypeCredit
		}
	}
	if amount.Sign() > 0 {
		return txn.TypeCredit
	}
	return txn.TypeDebit
}
