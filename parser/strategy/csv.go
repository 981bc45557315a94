package strategy

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/ledgerline/ledgerline/parser/txn"
	"github.com/shopspring/decimal"
)

// csvConfidence is fixed for delimiter-separated input: column structure
// leaves little ambiguity.
const csvConfidence = 0.9

var csvDelimiters = []rune{',', '\t', ';'}

// header names recognized for column mapping, lowercased.
var (
	csvDateHeaders     = []string{"date", "transaction date", "posted date", "posting date"}
	csvMerchantHeaders = []string{"description", "merchant", "payee", "memo", "name", "details"}
	csvAmountHeaders   = []string{"amount", "value", "transaction amount"}
	csvDebitHeaders    = []string{"debit", "withdrawal", "money out"}
	csvCreditHeaders   = []string{"credit", "deposit", "money in"}
)

type csvMapping struct {
	date     int
	merchant int
	amount   int
	debit    int
	credit   int
}

// DetectDelimited reports whether the text looks delimiter-separated and,
// if so, which delimiter splits it. Every non-empty line must contain the
// delimiter and the first line must yield at least two fields.
func DetectDelimited(text string) (rune, bool) {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return 0, false
	}
	for _, delim := range csvDelimiters {
		ok := true
		for _, line := range lines {
			if !strings.ContainsRune(line, delim) {
				ok = false
				break
			}
		}
		if ok && len(splitRecord(lines[0], delim)) >= 2 {
			return delim, true
		}
	}
	return 0, false
}

// ExtractCSV maps delimiter-separated rows to candidates at fixed
// confidence. Columns come from header-name matching or, absent a header
// row, from content sniffing. Returns false when the text is not
// delimiter-separated at all.
func ExtractCSV(text string, fallbackYear int) ([]txn.Candidate, bool) {
	delim, ok := DetectDelimited(text)
	if !ok {
		return nil, false
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // malformed row affects only itself
		}
		if len(rec) >= 2 {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, false
	}

	mapping, hasHeader := mapByHeader(records[0])
	rows := records
	if hasHeader {
		rows = records[1:]
	} else {
		mapping, ok = mapByContent(records, fallbackYear)
		if !ok {
			return nil, false
		}
	}

	var candidates []txn.Candidate
	for _, rec := range rows {
		cand, ok := candidateFromRecord(rec, mapping, fallbackYear)
		if ok {
			candidates = append(candidates, cand)
		}
	}
	return candidates, true
}

func candidateFromRecord(rec []string, m csvMapping, fallbackYear int) (txn.Candidate, bool) {
	if m.date >= len(rec) || m.merchant >= len(rec) {
		return txn.Candidate{}, false
	}
	date, ok := txn.NormalizeDate(strings.TrimSpace(rec[m.date]), fallbackYear)
	if !ok {
		return txn.Candidate{}, false
	}
	merchant := txn.CleanMerchant(rec[m.merchant])
	if !hasLetters(merchant) {
		return txn.Candidate{}, false
	}

	var amount decimal.Decimal
	var err error
	switch {
	case m.amount >= 0 && m.amount < len(rec) && strings.TrimSpace(rec[m.amount]) != "":
		amount, err = txn.ParseAmount(rec[m.amount])
	case m.debit >= 0 && m.debit < len(rec) && strings.TrimSpace(rec[m.debit]) != "":
		// Separate debit column: money out, always negative.
		amount, err = txn.ParseAmount(rec[m.debit])
		if err == nil && amount.Sign() > 0 {
			amount = amount.Neg()
		}
	case m.credit >= 0 && m.credit < len(rec) && strings.TrimSpace(rec[m.credit]) != "":
		amount, err = txn.ParseAmount(rec[m.credit])
		if err == nil && amount.Sign() < 0 {
			amount = amount.Neg()
		}
	default:
		return txn.Candidate{}, false
	}
	if err != nil {
		return txn.Candidate{}, false
	}

	return txn.Candidate{
		Raw: txn.Raw{
			Date:     date,
			Merchant: merchant,
			Amount:   amount,
		},
		Confidence: csvConfidence,
		Strategy:   NameCSV,
	}, true
}

// mapByHeader matches the first record against known header names.
// A header row must at least name the date and one description column.
func mapByHeader(header []string) (csvMapping, bool) {
	m := csvMapping{date: -1, merchant: -1, amount: -1, debit: -1, credit: -1}
	for i, field := range header {
		name := strings.ToLower(strings.TrimSpace(field))
		switch {
		case m.date == -1 && matchesAny(name, csvDateHeaders):
			m.date = i
		case m.merchant == -1 && matchesAny(name, csvMerchantHeaders):
			m.merchant = i
		case m.amount == -1 && matchesAny(name, csvAmountHeaders):
			m.amount = i
		case m.debit == -1 && matchesAny(name, csvDebitHeaders):
			m.debit = i
		case m.credit == -1 && matchesAny(name, csvCreditHeaders):
			m.credit = i
		}
	}
	ok := m.date != -1 && m.merchant != -1 && (m.amount != -1 || m.debit != -1 || m.credit != -1)
	return m, ok
}

// mapByContent sniffs columns from the data itself: the first column whose
// value parses as a date carries the date, the first that parses as an
// amount carries the amount, and the first alphabetic non-numeric column
// carries the merchant.
func mapByContent(records [][]string, fallbackYear int) (csvMapping, bool) {
	m := csvMapping{date: -1, merchant: -1, amount: -1, debit: -1, credit: -1}
	probe := records[0]
	for i, field := range probe {
		val := strings.TrimSpace(field)
		if val == "" {
			continue
		}
		if m.date == -1 {
			if _, ok := txn.NormalizeDate(val, fallbackYear); ok {
				m.date = i
				continue
			}
		}
		if m.amount == -1 && !hasLetters(val) {
			if _, err := txn.ParseAmount(val); err == nil {
				m.amount = i
				continue
			}
		}
		if m.merchant == -1 && hasLetters(val) {
			m.merchant = i
		}
	}
	return m, m.date != -1 && m.merchant != -1 && m.amount != -1
}

func matchesAny(name string, known []string) bool {
	for _, k := range known {
		if name == k || strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func splitRecord(line string, delim rune) []string {
	return strings.FieldsFunc(line, func(r rune) bool { return r == delim })
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
