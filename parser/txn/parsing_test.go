package txn

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestParseAmount_USFormat(t *testing.T) {
	result, err := ParseAmount("$1,234.56")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_EUFormat(t *testing.T) {
	result, err := ParseAmount("1.234,56€")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_SingleSeparatorDecimal(t *testing.T) {
	result, err := ParseAmount("27759.16")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "27759.16" {
		t.Errorf("Expected '27759.16', got '%s'", result.String())
	}
}

func TestParseAmount_SingleSeparatorThousands(t *testing.T) {
	result, err := ParseAmount("1,234")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "1234" {
		t.Errorf("Expected '1234', got '%s'", result.String())
	}
}

func TestParseAmount_EUDecimalComma(t *testing.T) {
	result, err := ParseAmount("12,34")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "12.34" {
		t.Errorf("Expected '12.34', got '%s'", result.String())
	}
}

func TestParseAmount_Negative(t *testing.T) {
	result, err := ParseAmount("-5.75")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "-5.75" {
		t.Errorf("Expected '-5.75', got '%s'", result.String())
	}
}

func TestParseAmount_Parenthesized(t *testing.T) {
	result, err := ParseAmount("($42.00)")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "-42" {
		t.Errorf("Expected '-42', got '%s'", result.String())
	}
}

func TestParseAmount_TrailingMinus(t *testing.T) {
	result, err := ParseAmount("100.00-")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "-100" {
		t.Errorf("Expected '-100', got '%s'", result.String())
	}
}

func TestParseAmount_NoDigits(t *testing.T) {
	_, err := ParseAmount("N/A")
	if err == nil {
		t.Error("Expected error for non-numeric token, got nil")
	}
}

func TestNormalizeDate_SlashMDY(t *testing.T) {
	result, ok := NormalizeDate("07/01/2018", 0)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-01" {
		t.Errorf("Expected '2018-07-01', got '%s'", result)
	}
}

func TestNormalizeDate_MonthDayWithFallbackYear(t *testing.T) {
	result, ok := NormalizeDate("07/01", 2018)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-01" {
		t.Errorf("Expected '2018-07-01', got '%s'", result)
	}
}

func TestNormalizeDate_InvalidMonthDay(t *testing.T) {
	if _, ok := NormalizeDate("13/40/2018", 0); ok {
		t.Error("Expected '13/40/2018' to be rejected")
	}
}

func TestNormalizeDate_ISO(t *testing.T) {
	result, ok := NormalizeDate("2018-07-01", 0)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-01" {
		t.Errorf("Expected '2018-07-01', got '%s'", result)
	}
}

func TestNormalizeDate_ShortYear(t *testing.T) {
	result, ok := NormalizeDate("07/18/18", 0)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-18" {
		t.Errorf("Expected '2018-07-18', got '%s'", result)
	}
}

func TestNormalizeDate_MonthName(t *testing.T) {
	result, ok := NormalizeDate("Jul 18, 2018", 0)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-18" {
		t.Errorf("Expected '2018-07-18', got '%s'", result)
	}
}

func TestNormalizeDate_DayFirstMonthName(t *testing.T) {
	result, ok := NormalizeDate("18 July 2018", 0)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-18" {
		t.Errorf("Expected '2018-07-18', got '%s'", result)
	}
}

func TestNormalizeDate_MonthNameWithFallbackYear(t *testing.T) {
	result, ok := NormalizeDate("Jul 15", 2018)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2018-07-15" {
		t.Errorf("Expected '2018-07-15', got '%s'", result)
	}

	result, ok = NormalizeDate("December 3", 2021)
	if !ok {
		t.Fatal("Expected date to normalize")
	}
	if result != "2021-12-03" {
		t.Errorf("Expected '2021-12-03', got '%s'", result)
	}
}

func TestNormalizeDate_UnknownMonthNameRejected(t *testing.T) {
	if _, ok := NormalizeDate("Foo 15", 2018); ok {
		t.Error("Expected 'Foo 15' to be rejected")
	}
}

func TestNormalizeDate_RolloverRejected(t *testing.T) {
	// Feb 31 passes the range checks but is not a real calendar date.
	if _, ok := NormalizeDate("02/31/2018", 0); ok {
		t.Error("Expected '02/31/2018' to be rejected")
	}
}

func TestNormalizeDate_YearOutOfRange(t *testing.T) {
	if _, ok := NormalizeDate("07/01/1850", 0); ok {
		t.Error("Expected year 1850 to be rejected")
	}
	if _, ok := NormalizeDate("07/01/2150", 0); ok {
		t.Error("Expected year 2150 to be rejected")
	}
}

func TestLatestYear(t *testing.T) {
	text := "Statement Period 01/01/2017 through 12/31/2018\nSome line"
	if y := LatestYear(text); y != 2018 {
		t.Errorf("Expected 2018, got %d", y)
	}
}

func TestLatestYear_NoneMentioned(t *testing.T) {
	if y := LatestYear("07/01 COFFEE SHOP 5.75"); y != 0 {
		t.Errorf("Expected 0, got %d", y)
	}
}

func TestCleanMerchant_NoisePrefix(t *testing.T) {
	result := CleanMerchant("Purchase authorized on 07/12 STARBUCKS STORE 1234 SEATTLE WA 98101")
	if result != "STARBUCKS STORE 1234 SEATTLE" {
		t.Errorf("Unexpected cleaned merchant: '%s'", result)
	}
}

func TestCleanMerchant_EmbeddedAmount(t *testing.T) {
	result := CleanMerchant("GROCERY MART $45.20 REF")
	if result != "GROCERY MART REF" {
		t.Errorf("Unexpected cleaned merchant: '%s'", result)
	}
}

func TestCleanMerchant_AllNoiseKeepsOriginal(t *testing.T) {
	result := CleanMerchant("  07/12  ")
	if result == "" {
		t.Error("Expected non-empty fallback for all-noise merchant")
	}
}

func TestCategorized_MarshalJSON(t *testing.T) {
	c := Categorized{
		Date:     "2018-07-01",
		Merchant: "STARBUCKS #123",
		Amount:   mustDecimal(t, "-5.75"),
		Category: CategoryFood,
		Type:     TypeDebit,
	}
	out, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := `{"date":"2018-07-01","merchant":"STARBUCKS #123","amount":-5.75,"category":"Food","type":"debit"}`
	if string(out) != expected {
		t.Errorf("Expected %s, got %s", expected, string(out))
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory(CategoryATM) {
		t.Error("Expected ATM to be valid")
	}
	if IsValidCategory(Category("Groceries")) {
		t.Error("Expected 'Groceries' to be invalid")
	}
}
