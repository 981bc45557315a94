package patterns

import (
	"testing"

	"github.com/ledgerline/ledgerline/parser/bank"
)

func buildGeneric(t *testing.T) *Config {
	t.Helper()
	r := bank.NewRegistry()
	p, _ := r.Get(bank.GenericKey)
	cfg, err := Build(p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return cfg
}

func TestBuild_ProfileDatesComeFirst(t *testing.T) {
	cfg, err := Build(bank.Profile{
		DateFormats: []string{`\d{2}\.\d{2}\.\d{4}`},
		Layouts:     []string{bank.LayoutTabular},
		Currency:    "$",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	match, _, ok := cfg.FirstDate("12.05.2018 BAKERY 4.50")
	if !ok {
		t.Fatal("Expected profile date pattern to match")
	}
	if match != "12.05.2018" {
		t.Errorf("Expected '12.05.2018', got '%s'", match)
	}
}

func TestBuild_InvalidDatePattern(t *testing.T) {
	_, err := Build(bank.Profile{DateFormats: []string{`(`}})
	if err == nil {
		t.Error("Expected error for invalid date pattern")
	}
}

func TestBuild_UnknownLayout(t *testing.T) {
	_, err := Build(bank.Profile{Layouts: []string{"spreadsheet"}})
	if err == nil {
		t.Error("Expected error for unknown layout hint")
	}
}

func TestFirstDate_PrefersLongerForm(t *testing.T) {
	cfg := buildGeneric(t)

	match, start, ok := cfg.FirstDate("07/18/2018 Recurring Payment $27759.16")
	if !ok {
		t.Fatal("Expected a date match")
	}
	if match != "07/18/2018" {
		t.Errorf("Expected '07/18/2018', got '%s'", match)
	}
	if start != 0 {
		t.Errorf("Expected match at 0, got %d", start)
	}
}

func TestLastAmount_IgnoresRunningBalance(t *testing.T) {
	cfg := buildGeneric(t)

	// 1,234.00 is the running balance; the last token is authoritative.
	match, _, ok := cfg.LastAmount("07/18 COFFEE SHOP 1,234.00 5.75")
	if !ok {
		t.Fatal("Expected an amount match")
	}
	if match != "5.75" {
		t.Errorf("Expected '5.75', got '%s'", match)
	}
}

func TestLastAmount_CurrencyQualified(t *testing.T) {
	cfg := buildGeneric(t)

	match, _, ok := cfg.LastAmount("07/18/2018 Recurring Payment $27759.16")
	if !ok {
		t.Fatal("Expected an amount match")
	}
	if match != "$27759.16" {
		t.Errorf("Expected '$27759.16', got '%s'", match)
	}
}

func TestShouldSkip(t *testing.T) {
	cfg := buildGeneric(t)

	skipped := []string{
		"",
		"----------------",
		"Page 3",
		"Beginning Balance                 1,204.50",
		"Account Number: XXXX1234",
		"Date        Description        Amount",
	}
	for _, line := range skipped {
		if !cfg.ShouldSkip(line) {
			t.Errorf("Expected line to be skipped: %q", line)
		}
	}

	if cfg.ShouldSkip("07/18 COFFEE SHOP 5.75") {
		t.Error("Expected transaction line not to be skipped")
	}
}

func TestIsSectionHeader(t *testing.T) {
	cfg := buildGeneric(t)

	if !cfg.IsSectionHeader("Deposits and Other Credits") {
		t.Error("Expected section header to match")
	}
	if !cfg.IsSectionHeader("ATM Transactions") {
		t.Error("Expected ATM section header to match")
	}
	if cfg.IsSectionHeader("07/18 COFFEE SHOP 5.75") {
		t.Error("Expected transaction line not to be a section header")
	}
}

func TestTransactionLine_Tabular(t *testing.T) {
	cfg := buildGeneric(t)

	line := "07/18/2018 Recurring Payment $27759.16"
	matched := false
	for _, re := range cfg.TransactionLine {
		if re.MatchString(line) {
			matched = true
			break
		}
	}
	if !matched {
		t.Error("Expected tabular line to match a transaction-line pattern")
	}
}
