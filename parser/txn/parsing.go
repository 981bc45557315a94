package txn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	amountCharsRe = regexp.MustCompile(`[^0-9.,()\-+]`)
	yearMentionRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	isoDateRe     = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	mdyDateRe     = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	mdyyDateRe    = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2})$`)
	mdDateRe      = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})$`)
	monthFirstRe  = regexp.MustCompile(`(?i)^([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	dayFirstRe    = regexp.MustCompile(`(?i)^(\d{1,2})\s+([A-Za-z]{3,9})\.?,?\s*(\d{2,4})$`)
	monthDayRe    = regexp.MustCompile(`(?i)^([A-Za-z]{3,9})\.?\s+(\d{1,2})$`)
)

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseAmount parses an amount token into a decimal, inferring the
// thousands/decimal separator convention from the digit-grouping shape.
// When exactly one separator kind is present, a 2-digit trailing group
// implies it is the decimal separator.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := amountCharsRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", text)
	}

	negative := false
	if strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")") {
		negative = true
	}
	cleaned = strings.Trim(cleaned, "()")
	if strings.HasPrefix(cleaned, "-") || strings.HasSuffix(cleaned, "-") {
		negative = true
	}
	cleaned = strings.Trim(cleaned, "-+")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no digits in %q", text)
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		// The later separator is the decimal one.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		cleaned = resolveSingleSeparator(cleaned, ",")
	case hasDot:
		cleaned = resolveSingleSeparator(cleaned, ".")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", text, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func resolveSingleSeparator(s, sep string) string {
	trailing := len(s) - strings.LastIndex(s, sep) - 1
	if strings.Count(s, sep) == 1 && trailing != 3 {
		// Decimal separator.
		return strings.ReplaceAll(s, sep, ".")
	}
	// Thousands grouping.
	return strings.ReplaceAll(s, sep, "")
}

// NormalizeDate converts a date token to canonical YYYY-MM-DD form.
// fallbackYear supplies the year for month/day-only tokens; pass 0 to use
// the current year. Returns false for tokens that are not real calendar
// dates in [1900, 2100].
func NormalizeDate(token string, fallbackYear int) (string, bool) {
	token = strings.TrimSpace(token)

	var year, month, day int
	switch {
	case isoDateRe.MatchString(token):
		m := isoDateRe.FindStringSubmatch(token)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	case mdyDateRe.MatchString(token):
		m := mdyDateRe.FindStringSubmatch(token)
		month, _ = strconv.Atoi(m[1])
		day, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	case mdyyDateRe.MatchString(token):
		m := mdyyDateRe.FindStringSubmatch(token)
		month, _ = strconv.Atoi(m[1])
		day, _ = strconv.Atoi(m[2])
		yy, _ := strconv.Atoi(m[3])
		year = 2000 + yy
	case mdDateRe.MatchString(token):
		m := mdDateRe.FindStringSubmatch(token)
		month, _ = strconv.Atoi(m[1])
		day, _ = strconv.Atoi(m[2])
		year = fallbackYear
		if year == 0 {
			year = time.Now().Year()
		}
	case monthFirstRe.MatchString(token):
		m := monthFirstRe.FindStringSubmatch(token)
		var ok bool
		month, ok = monthNames[strings.ToLower(m[1][:3])]
		if !ok {
			return "", false
		}
		day, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	case dayFirstRe.MatchString(token):
		m := dayFirstRe.FindStringSubmatch(token)
		var ok bool
		month, ok = monthNames[strings.ToLower(m[2][:3])]
		if !ok {
			return "", false
		}
		day, _ = strconv.Atoi(m[1])
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	case monthDayRe.MatchString(token):
		m := monthDayRe.FindStringSubmatch(token)
		var ok bool
		month, ok = monthNames[strings.ToLower(m[1][:3])]
		if !ok {
			return "", false
		}
		day, _ = strconv.Atoi(m[2])
		year = fallbackYear
		if year == 0 {
			year = time.Now().Year()
		}
	default:
		return "", false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return "", false
	}
	// Reject shapes like Feb 31 that time.Date would silently roll over.
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if dt.Day() != day || int(dt.Month()) != month {
		return "", false
	}
	return dt.Format("2006-01-02"), true
}

// LatestYear returns the most recent 4-digit year mentioned anywhere in the
// text, or 0 when none appears. Used to complete month/day-only dates.
func LatestYear(text string) int {
	latest := 0
	for _, m := range yearMentionRe.FindAllString(text, -1) {
		y, _ := strconv.Atoi(m)
		if y >= 1900 && y <= 2100 && y > latest {
			latest = y
		}
	}
	return latest
}

var merchantNoiseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^purchase\s+authorized\s+on\s+\d{1,2}/\d{1,2}(?:/\d{2,4})?\s*`),
	regexp.MustCompile(`(?i)^pos\s+(?:purchase|debit)\s*[-:]?\s*`),
	regexp.MustCompile(`(?i)^atm\s+withdrawal\s+`),
	regexp.MustCompile(`(?i)^check\s*#?\s*\d+\s*`),
	regexp.MustCompile(`(?i)^debit\s+card\s+purchase\s*[-:]?\s*`),
}

// Fragments stripped anywhere in the text: state+zip tails, secondary
// dates and amounts, trailing card stubs, masked numbers.
var merchantFragmentRes = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`),
	regexp.MustCompile(`[$€£]?\d{1,3}(?:,\d{3})*\.\d{2}\b`),
	regexp.MustCompile(`\bcard\s+\d{4}\b`),
	regexp.MustCompile(`[Xx*]{4,}\d{0,4}`),
}

// CleanMerchant strips known statement noise from a merchant string and
// collapses whitespace. If cleaning would leave nothing, the trimmed
// original is returned instead.
func CleanMerchant(s string) string {
	cleaned := strings.TrimSpace(s)
	for _, re := range merchantNoiseRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, re := range merchantFragmentRes {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " -–—:,.#/")
	if cleaned == "" {
		return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	}
	return cleaned
}

// NormalizeMerchantKey lowercases and trims a merchant for map keys and
// deduplication triples.
func NormalizeMerchantKey(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " ")))
}

// Tokens splits text into lowercased word tokens for overlap comparisons.
func Tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,:;#-")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
