// Package patterns derives the concrete regex bundle a parse run works
// with from a bank profile plus a universal fallback set.
package patterns

import (
	"fmt"
	"regexp"

	"github.com/ledgerline/ledgerline/parser/bank"
)

// Config is the per-parse bundle of ordered regex lists. Built once per
// call and read-only afterwards.
type Config struct {
	Date            []*regexp.Regexp
	Amount          []*regexp.Regexp
	Merchant        []*regexp.Regexp
	Skip            []*regexp.Regexp
	Section         []*regexp.Regexp
	TransactionLine []*regexp.Regexp
}

const monthAlt = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

// Universal date fallbacks, most specific first so MM/DD only matches when
// nothing longer does.
var universalDateSources = []string{
	`\b\d{4}-\d{2}-\d{2}\b`,
	`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`,
	`\b\d{1,2}[/-]\d{1,2}[/-]\d{2}\b`,
	monthAlt + `[a-z]*\.?\s+\d{1,2},?\s+\d{4}`,
	`\b\d{1,2}\s+` + monthAlt + `[a-z]*\.?,?\s*\d{2,4}`,
	`\b\d{1,2}/\d{1,2}\b`,
}

// Ungrouped digit runs are allowed alongside thousands grouping; the word
// boundary keeps a pattern from matching the tail of a longer number.
var universalAmountSources = []string{
	`[-+]?[$€£]\s?\d+(?:,\d{3})*(?:\.\d{2})?`,
	`\(\s?[$€£]?\d+(?:,\d{3})*\.\d{2}\s?\)`,
	`[-+]?\b\d+(?:,\d{3})*\.\d{2}\b`,
	`[-+]?\b\d+(?:\.\d{3})*,\d{2}\b`,
}

var universalMerchantSources = []string{
	// Capitalized multi-word sequences.
	`\b[A-Z][A-Za-z&'.\-]*(?:\s+[A-Z0-9][A-Za-z0-9&'.\-#]*)+`,
	// Mixed-case words of at least 3 characters.
	`\b[A-Za-z][A-Za-z]{2,}\b`,
}

var skipSources = []string{
	`^\s*$`,
	`^[-=_*.\s]+$`,
	`(?i)^page\s+\d+`,
	`(?i)statement\s+period`,
	`(?i)^(?:beginning|ending|previous|new)\s+balance`,
	`(?i)^balance\s+forward`,
	`(?i)^daily\s+(?:ending\s+)?balance`,
	`(?i)^total[s]?\b`,
	`(?i)account\s+(?:number|summary)`,
	`(?i)routing\s+number`,
	`[Xx*]{4,}\d{4}`,
	`(?i)^(?:date|description|amount|balance)[\s,|]+(?:date|description|amount|balance)`,
	`(?i)member\s+fdic`,
	`(?i)customer\s+service`,
}

var sectionSources = []string{
	`(?i)^deposits(?:\s+and\s+(?:other\s+)?(?:credits|additions))?\b`,
	`(?i)^withdrawals(?:\s+and\s+(?:other\s+)?(?:debits|subtractions))?\b`,
	`(?i)^(?:service\s+)?fees\b`,
	`(?i)^(?:card|debit\s+card|atm)\s+(?:purchases|transactions)\b`,
	`(?i)^checks\s+(?:paid|posted)\b`,
	`(?i)^electronic\s+(?:payments|deposits|transfers)\b`,
	`(?i)^other\s+(?:credits|debits)\b`,
}

// Full-line layouts: date, free text, amount. One source per layout hint.
const (
	tabularLineSource   = `^\s*(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\s+(.+?)\s+(-?\(?[$€£]?[\d,.]+\.?\d*\)?-?)\s*$`
	narrativeLineSource = `^(.*?\S.*?)\s+(?:on\s+)?(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\b(.*?)([$€£]?[\d,]+\.\d{2})`
	csvLineSource       = `^[^,\t;]*[,\t;][^,\t;]*[,\t;].*$`
)

// Build assembles the pattern bundle for a profile. Profile-preferred date
// sources are prepended to the universal fallbacks; a currency-qualified
// amount pattern is prepended to the generic ones.
func Build(p bank.Profile) (*Config, error) {
	cfg := &Config{}

	dateSources := append([]string{}, p.DateFormats...)
	dateSources = append(dateSources, universalDateSources...)
	for _, src := range dateSources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compiling date pattern %q: %w", src, err)
		}
		cfg.Date = append(cfg.Date, re)
	}

	amountSources := universalAmountSources
	if p.Currency != "" {
		qualified := `[-+]?` + regexp.QuoteMeta(p.Currency) + `\s?\d+(?:,\d{3})*(?:\.\d{2})?`
		amountSources = append([]string{qualified}, universalAmountSources...)
	}
	for _, src := range amountSources {
		cfg.Amount = append(cfg.Amount, regexp.MustCompile(src))
	}

	for _, src := range universalMerchantSources {
		cfg.Merchant = append(cfg.Merchant, regexp.MustCompile(src))
	}
	for _, src := range skipSources {
		cfg.Skip = append(cfg.Skip, regexp.MustCompile(src))
	}
	for _, src := range sectionSources {
		cfg.Section = append(cfg.Section, regexp.MustCompile(src))
	}

	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = []string{bank.LayoutAuto}
	}
	for _, layout := range layouts {
		switch layout {
		case bank.LayoutTabular:
			cfg.TransactionLine = append(cfg.TransactionLine, regexp.MustCompile(tabularLineSource))
		case bank.LayoutNarrative:
			cfg.TransactionLine = append(cfg.TransactionLine, regexp.MustCompile(narrativeLineSource))
		case bank.LayoutCSV:
			cfg.TransactionLine = append(cfg.TransactionLine, regexp.MustCompile(csvLineSource))
		case bank.LayoutAuto:
			cfg.TransactionLine = append(cfg.TransactionLine,
				regexp.MustCompile(tabularLineSource),
				regexp.MustCompile(narrativeLineSource),
				regexp.MustCompile(csvLineSource))
		default:
			return nil, fmt.Errorf("unknown layout hint %q", layout)
		}
	}

	return cfg, nil
}

// FirstDate returns the earliest date token any date pattern finds.
// On equal start the longer token wins.
func (c *Config) FirstDate(line string) (match string, start int, ok bool) {
	start, end := -1, -1
	for _, re := range c.Date {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if start == -1 || loc[0] < start || (loc[0] == start && loc[1] > end) {
			start, end = loc[0], loc[1]
			match = line[loc[0]:loc[1]]
		}
	}
	return match, start, start != -1
}

// LastAmount returns the right-most amount token any amount pattern finds.
// The last amount in a line is assumed authoritative over an earlier
// running-balance token. Tokens reaching the same right edge collapse to
// the longest, so "$27759.16" beats its own "27759.16" suffix.
func (c *Config) LastAmount(line string) (match string, start int, ok bool) {
	start, end := -1, -1
	for _, re := range c.Amount {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if loc[1] > end || (loc[1] == end && loc[0] < start) {
				start, end = loc[0], loc[1]
				match = line[loc[0]:loc[1]]
			}
		}
	}
	return match, start, start != -1
}

// ShouldSkip reports whether a line matches the skip denylist.
func (c *Config) ShouldSkip(line string) bool {
	for _, re := range c.Skip {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// IsSectionHeader reports whether a line is a recognized section marker.
// Sections are informational only and never gate extraction.
func (c *Config) IsSectionHeader(line string) bool {
	for _, re := range c.Section {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
