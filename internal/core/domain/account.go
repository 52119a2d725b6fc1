package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide is the normal balance side of an account.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// Account is immutable chart-of-accounts reference data for the ledger core.
// Codes are hierarchical by leading digits, per the SYSCOHADA chart: the first
// digit is the account class (1 capital .. 7 revenue, 57x being cash/till).
type Account struct {
	Code         string      `json:"code"` // unique key, e.g. "601100"
	Name         string      `json:"name"`
	Class        int         `json:"class"` // leading digit of the code
	AccountType  AccountType `json:"accountType"`
	NormalSide   BalanceSide `json:"normalSide"`
	Reconcilable bool        `json:"reconcilable"` // supports lettrage
	IsActive     bool        `json:"isActive"`
	AuditFields
}

// cashClassPrefix identifies till/cash accounts subject to the
// non-negative-balance invariant (SYSCOHADA 57x "Caisse").
const cashClassPrefix = "57"

// IsCashAccount reports whether an account code belongs to the cash/till class.
func IsCashAccount(code string) bool {
	return len(code) >= 2 && code[:2] == cashClassPrefix
}
