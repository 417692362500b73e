package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSign is the taxonomy balance attribute of a concept
type BalanceSign string

const (
	BalanceDebit         BalanceSign = "debit"
	BalanceCredit        BalanceSign = "credit"
	BalanceNotApplicable BalanceSign = ""
)

// ParseBalanceSign normalizes a stored balance attribute
func ParseBalanceSign(s string) BalanceSign {
	switch s {
	case "debit", "Debit", "DEBIT":
		return BalanceDebit
	case "credit", "Credit", "CREDIT":
		return BalanceCredit
	default:
		return BalanceNotApplicable
	}
}

// ConceptFact is one reported value for one concept in one fiscal year
// ⭐ SSOT: data-access → scoring fact contract
type ConceptFact struct {
	CompanyID  int64           `json:"company_id"`
	Concept    string          `json:"concept"`
	Value      decimal.Decimal `json:"value"`
	FiscalYear int             `json:"fiscal_year"`
	PeriodEnd  time.Time       `json:"period_end"`
	Balance    BalanceSign     `json:"balance,omitempty"`
}

// PriceSnapshot is the market data a scorecard is evaluated against
type PriceSnapshot struct {
	CompanyID         int64               `json:"company_id"`
	PricePerShare     decimal.NullDecimal `json:"price_per_share"`
	SharesOutstanding decimal.NullDecimal `json:"shares_outstanding"`
	AsOf              time.Time           `json:"as_of"`
}

// Company is a scorable issuer
type Company struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	CIK    string `json:"cik"`
}
