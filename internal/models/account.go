package models

// AccountType defines the fundamental accounting type of an account row.
type AccountType string

// BalanceSide is the normal balance side of an account row.
type BalanceSide string

// Account is the accounts table row.
type Account struct {
	Code         string      `json:"code"` // Primary Key
	Name         string      `json:"name"`
	Class        int         `json:"class"`
	AccountType  AccountType `json:"accountType"`
	NormalSide   BalanceSide `json:"normalSide"`
	Reconcilable bool        `json:"reconcilable"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}
