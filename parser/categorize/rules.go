package categorize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ledgerline/ledgerline/parser/txn"
)

// Rule maps merchant text to a category. Regex patterns are checked before
// substring keywords; keyword hits carry a slightly lower confidence.
type Rule struct {
	Category txn.Category
	Priority int // higher checked first
	Patterns []*regexp.Regexp
	Keywords []string
}

const (
	ruleConfidence   = 0.8
	ruleKeywordScale = 0.9
)

// baseRules is the immutable built-in table. Custom keywords are merged
// per call by the Categorizer, never written back here.
var baseRules = sortRules([]Rule{
	{
		Category: txn.CategoryATM,
		Priority: 9,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\batm\b`),
			regexp.MustCompile(`(?i)withdrawal\s+made\s+in\s+a\s+branch`),
			regexp.MustCompile(`(?i)cash\s+withdrawal`),
		},
		Keywords: []string{"cash dispenser", "cardtronics", "allpoint"},
	},
	{
		Category: txn.CategoryCheck,
		Priority: 9,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcheck\s*#?\s*\d+`),
			regexp.MustCompile(`(?i)\bcheque\b`),
		},
		Keywords: []string{"check paid", "check deposit"},
	},
	{
		Category: txn.CategoryFees,
		Priority: 8,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:service|monthly|maintenance|overdraft|nsf|wire)\s+(?:fee|charge)`),
		},
		// "fee" alone is a substring of "coffee"; keep fee matching in
		// the regex where word boundaries apply.
		Keywords: []string{"surcharge", "penalty", "finance charge", "service charge"},
	},
	{
		Category: txn.CategorySubscriptions,
		Priority: 7,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\brecurring\b`),
			regexp.MustCompile(`(?i)\b(?:netflix|spotify|hulu|disney\+|audible|icloud|onlyfans|patreon)\b`),
		},
		Keywords: []string{"subscription", "membership", "monthly plan", "prime video"},
	},
	{
		Category: txn.CategoryBanking,
		Priority: 7,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:online\s+)?transfer\b`),
			regexp.MustCompile(`(?i)\b(?:direct\s+)?deposit\b`),
			regexp.MustCompile(`(?i)\binterest\s+(?:payment|earned)\b`),
			regexp.MustCompile(`(?i)\b(?:zelle|venmo|paypal|wire)\b`),
		},
		Keywords: []string{"payroll", "ach", "mobile deposit", "bill pay", "loan payment", "mortgage"},
	},
	{
		Category: txn.CategoryFood,
		Priority: 6,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:starbucks|mcdonald|chipotle|subway|dunkin|domino|wendy|taco\s*bell|kfc)\b`),
			regexp.MustCompile(`(?i)\b(?:doordash|grubhub|ubereats|uber\s*eats|postmates)\b`),
		},
		Keywords: []string{"restaurant", "cafe", "coffee", "pizza", "burger", "deli", "bakery", "food"},
	},
	{
		Category: txn.CategoryRetail,
		Priority: 6,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:amazon|walmart|target|costco|walgreens|cvs|home\s*depot|best\s*buy|ikea)\b`),
		},
		Keywords: []string{"store", "market", "shop", "outlet", "supercenter", "pharmacy", "mall"},
	},
})

func sortRules(rules []Rule) []Rule {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules
}

// matchRules runs the priority-ordered table over merchant text. Regexes
// are tried across the whole table before keywords so a specific pattern
// beats a generic keyword of a higher-priority rule only through priority.
func matchRules(merchant string) (txn.Category, float64, bool) {
	for _, rule := range baseRules {
		for _, re := range rule.Patterns {
			if re.MatchString(merchant) {
				return rule.Category, ruleConfidence, true
			}
		}
	}
	lower := txn.NormalizeMerchantKey(merchant)
	for _, rule := range baseRules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				return rule.Category, ruleConfidence * ruleKeywordScale, true
			}
		}
	}
	return "", 0, false
}
