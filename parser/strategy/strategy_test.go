package strategy

import (
	"testing"

	"github.com/ledgerline/ledgerline/parser/bank"
	"github.com/ledgerline/ledgerline/parser/patterns"
)

func genericContext(t *testing.T, lines []string, index int) *Context {
	t.Helper()
	r := bank.NewRegistry()
	p, _ := r.Get(bank.GenericKey)
	cfg, err := patterns.Build(p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return &Context{Lines: lines, Index: index, Patterns: cfg}
}

func TestPattern_FullLine(t *testing.T) {
	line := "07/18/2018 Recurring Payment $27759.16"
	ctx := genericContext(t, []string{line}, 0)

	cand, ok := Pattern{}.Extract(line, ctx)
	if !ok {
		t.Fatal("Expected pattern strategy to extract")
	}
	if cand.Date != "2018-07-18" {
		t.Errorf("Expected date '2018-07-18', got '%s'", cand.Date)
	}
	if cand.Merchant != "Recurring Payment" {
		t.Errorf("Expected merchant 'Recurring Payment', got '%s'", cand.Merchant)
	}
	if cand.Amount.String() != "27759.16" {
		t.Errorf("Expected amount 27759.16, got %s", cand.Amount.String())
	}
	if cand.Confidence < 0.999 || cand.Confidence > 1.001 {
		t.Errorf("Expected confidence 1.0, got %f", cand.Confidence)
	}
	if cand.Strategy != NamePattern {
		t.Errorf("Expected strategy 'pattern', got '%s'", cand.Strategy)
	}
}

func TestPattern_MissingAmountRejects(t *testing.T) {
	line := "07/18/2018 Recurring Payment"
	ctx := genericContext(t, []string{line}, 0)

	if _, ok := (Pattern{}).Extract(line, ctx); ok {
		t.Error("Expected rejection without an amount")
	}
}

func TestPattern_MissingDateRejects(t *testing.T) {
	line := "Recurring Payment $27759.16"
	ctx := genericContext(t, []string{line}, 0)

	if _, ok := (Pattern{}).Extract(line, ctx); ok {
		t.Error("Expected rejection without a date")
	}
}

func TestPattern_LastAmountWins(t *testing.T) {
	// 2,450.00 is the running balance column; the trailing token is the
	// transaction amount.
	line := "07/18 GROCERY MART 2,450.00 45.20"
	ctx := genericContext(t, []string{line}, 0)
	ctx.FallbackYear = 2018

	cand, ok := Pattern{}.Extract(line, ctx)
	if !ok {
		t.Fatal("Expected extraction")
	}
	if cand.Amount.String() != "45.2" {
		t.Errorf("Expected amount 45.2, got %s", cand.Amount.String())
	}
}

func TestContextual_PenalizedByNeighborAmount(t *testing.T) {
	lines := []string{
		"07/18/2018 Recurring Payment $27759.16",
		"    CONTINUATION TEXT 12.99",
	}
	ctx := genericContext(t, lines, 0)

	pattern, ok := Pattern{}.Extract(lines[0], ctx)
	if !ok {
		t.Fatal("Expected pattern extraction")
	}
	contextual, ok := Contextual{}.Extract(lines[0], ctx)
	if !ok {
		t.Fatal("Expected contextual extraction")
	}

	// Neighbor holds an amount token this line lacks.
	expected := pattern.Confidence - 0.3
	if contextual.Confidence != expected {
		t.Errorf("Expected confidence %f, got %f", expected, contextual.Confidence)
	}
	if contextual.Strategy != NameContextual {
		t.Errorf("Expected strategy 'contextual', got '%s'", contextual.Strategy)
	}
}

func TestContextual_NoNeighborsNoPenalty(t *testing.T) {
	line := "07/18/2018 Recurring Payment $27759.16"
	ctx := genericContext(t, []string{line}, 0)

	pattern, _ := Pattern{}.Extract(line, ctx)
	contextual, ok := Contextual{}.Extract(line, ctx)
	if !ok {
		t.Fatal("Expected contextual extraction")
	}
	if contextual.Confidence != pattern.Confidence {
		t.Errorf("Expected no penalty, got %f vs %f", contextual.Confidence, pattern.Confidence)
	}
}

func TestFuzzy_MerchantBetweenTokens(t *testing.T) {
	line := "07/18/2018 COFFEE HOUSE 5.75"
	ctx := genericContext(t, []string{line}, 0)

	cand, ok := Fuzzy{}.Extract(line, ctx)
	if !ok {
		t.Fatal("Expected fuzzy extraction")
	}
	if cand.Merchant != "COFFEE HOUSE" {
		t.Errorf("Expected 'COFFEE HOUSE', got '%s'", cand.Merchant)
	}
	// (0.25 + 0.3 + 0.25) * 0.8
	if cand.Confidence < 0.639 || cand.Confidence > 0.641 {
		t.Errorf("Expected confidence 0.64, got %f", cand.Confidence)
	}
}

func TestFuzzy_AmountBeforeDateRejects(t *testing.T) {
	line := "5.75 COFFEE HOUSE 07/18/2018"
	ctx := genericContext(t, []string{line}, 0)

	if _, ok := (Fuzzy{}).Extract(line, ctx); ok {
		t.Error("Expected rejection when the date does not precede the amount")
	}
}

func TestBest_TieBreakOrder(t *testing.T) {
	line := "07/18/2018 Recurring Payment $27759.16"
	ctx := genericContext(t, []string{line}, 0)

	best, ok := Best(line, ctx, PerLine())
	if !ok {
		t.Fatal("Expected a best candidate")
	}
	// Pattern and contextual tie at 1.0 here; pattern is declared first.
	if best.Strategy != NamePattern {
		t.Errorf("Expected 'pattern' to win the tie, got '%s'", best.Strategy)
	}
}

func TestJoinMultiline(t *testing.T) {
	lines := []string{
		"07/18/2018 ONLINE TRANSFER TO",
		"    SAVINGS ACCOUNT REF 998",
		"    CONFIRMATION 445.00",
	}
	ctx := genericContext(t, lines, 0)

	cands, consumed := JoinMultiline(lines, ctx.Patterns, 2018)
	if len(cands) != 1 {
		t.Fatalf("Expected 1 joined candidate, got %d", len(cands))
	}
	cand := cands[0]
	if cand.Date != "2018-07-18" {
		t.Errorf("Expected '2018-07-18', got '%s'", cand.Date)
	}
	if cand.Amount.String() != "445" {
		t.Errorf("Expected 445, got %s", cand.Amount.String())
	}
	if cand.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", cand.Confidence)
	}
	if cand.Strategy != NameMultiline {
		t.Errorf("Expected strategy 'multiline', got '%s'", cand.Strategy)
	}
	for i := 0; i < 3; i++ {
		if !consumed[i] {
			t.Errorf("Expected line %d to be consumed", i)
		}
	}
}

func TestJoinMultiline_NoCloser(t *testing.T) {
	lines := []string{
		"07/18/2018 ONLINE TRANSFER TO",
		"07/19/2018 ANOTHER OPENER",
	}
	ctx := genericContext(t, lines, 0)

	cands, _ := JoinMultiline(lines, ctx.Patterns, 2018)
	if len(cands) != 0 {
		t.Errorf("Expected no joined candidates, got %d", len(cands))
	}
}

func TestTokenOverlap(t *testing.T) {
	overlap := TokenOverlap("SAVINGS ACCOUNT REF", "ONLINE TRANSFER TO SAVINGS ACCOUNT REF CONFIRMATION")
	if overlap != 1.0 {
		t.Errorf("Expected full overlap, got %f", overlap)
	}
	if TokenOverlap("COFFEE HOUSE", "GROCERY MART") != 0 {
		t.Errorf("Expected zero overlap")
	}
}

func TestDetectDelimited(t *testing.T) {
	csvText := "date,description,amount\n2018-07-01,STARBUCKS #123,-5.75\n"
	delim, ok := DetectDelimited(csvText)
	if !ok {
		t.Fatal("Expected CSV detection")
	}
	if delim != ',' {
		t.Errorf("Expected comma delimiter, got %q", delim)
	}

	if _, ok := DetectDelimited("07/18 COFFEE HOUSE 5.75\n07/19 GROCERY 45.20\n"); ok {
		t.Error("Expected plain text not to be detected as delimited")
	}
}

func TestExtractCSV_HeaderMapping(t *testing.T) {
	csvText := "date,description,amount\n2018-07-01,STARBUCKS #123,-5.75\n"

	cands, ok := ExtractCSV(csvText, 0)
	if !ok {
		t.Fatal("Expected CSV extraction")
	}
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}
	cand := cands[0]
	if cand.Date != "2018-07-01" {
		t.Errorf("Expected '2018-07-01', got '%s'", cand.Date)
	}
	if cand.Merchant != "STARBUCKS #123" {
		t.Errorf("Expected 'STARBUCKS #123', got '%s'", cand.Merchant)
	}
	if cand.Amount.String() != "-5.75" {
		t.Errorf("Expected -5.75, got %s", cand.Amount.String())
	}
	if cand.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", cand.Confidence)
	}
	if cand.Strategy != NameCSV {
		t.Errorf("Expected strategy 'csv', got '%s'", cand.Strategy)
	}
}

func TestExtractCSV_DebitCreditColumns(t *testing.T) {
	csvText := "Date,Payee,Debit,Credit\n07/02/2018,GROCERY MART,45.20,\n07/03/2018,PAYROLL DEPOSIT,,1500.00\n"

	cands, ok := ExtractCSV(csvText, 0)
	if !ok {
		t.Fatal("Expected CSV extraction")
	}
	if len(cands) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Amount.String() != "-45.2" {
		t.Errorf("Expected debit -45.2, got %s", cands[0].Amount.String())
	}
	if cands[1].Amount.String() != "1500" {
		t.Errorf("Expected credit 1500, got %s", cands[1].Amount.String())
	}
}

func TestExtractCSV_ContentSniffing(t *testing.T) {
	csvText := "2018-07-01,STARBUCKS #123,-5.75\n2018-07-02,GROCERY MART,-45.20\n"

	cands, ok := ExtractCSV(csvText, 0)
	if !ok {
		t.Fatal("Expected CSV extraction without a header row")
	}
	if len(cands) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Merchant != "STARBUCKS #123" {
		t.Errorf("Expected 'STARBUCKS #123', got '%s'", cands[0].Merchant)
	}
}
