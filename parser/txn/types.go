package txn

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is one label from the fixed transaction-type enumeration.
type Category string

const (
	CategoryBanking       Category = "Banking"
	CategoryATM           Category = "ATM"
	CategoryRetail        Category = "Retail"
	CategoryFood          Category = "Food"
	CategorySubscriptions Category = "Subscriptions"
	CategoryCheck         Category = "Check"
	CategoryFees          Category = "Fees"
	CategoryOther         Category = "Other"
)

// Categories returns every valid category label.
func Categories() []Category {
	return []Category{
		CategoryBanking,
		CategoryATM,
		CategoryRetail,
		CategoryFood,
		CategorySubscriptions,
		CategoryCheck,
		CategoryFees,
		CategoryOther,
	}
}

// IsValidCategory reports whether c is a member of the closed enumeration.
func IsValidCategory(c Category) bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Transaction directions.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Raw is a single extracted transaction before categorization.
type Raw struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
}

// Candidate is a Raw plus the confidence and strategy that produced it.
// Candidates are ephemeral: they exist only until best-of selection.
type Candidate struct {
	Raw
	Confidence float64
	Strategy   string
}

// Categorized is the final output unit handed to consumers.
type Categorized struct {
	Date     string          `json:"date"`
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
	Type     string          `json:"type"`
}

// MarshalJSON emits the amount as a bare 2-decimal number rather than the
// quoted string decimal.Decimal produces by default.
func (c Categorized) MarshalJSON() ([]byte, error) {
	type alias struct {
		Date     string          `json:"date"`
		Merchant string          `json:"merchant"`
		Amount   json.RawMessage `json:"amount"`
		Category Category        `json:"category"`
		Type     string          `json:"type"`
	}
	return json.Marshal(alias{
		Date:     c.Date,
		Merchant: c.Merchant,
		Amount:   json.RawMessage(c.Amount.StringFixed(2)),
		Category: c.Category,
		Type:     c.Type,
	})
}

// Key returns the deduplication triple for a transaction.
func (r Raw) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.Date, NormalizeMerchantKey(r.Merchant), r.Amount.StringFixed(2))
}
