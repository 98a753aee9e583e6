package models

import "github.com/shopspring/decimal"

// MembershipType is a tenant-configured membership offering, rendered as a
// choice in the public form.
type MembershipType struct {
	ID     string          `db:"id" json:"id"`
	Code   string          `db:"code" json:"code"`
	Label  string          `db:"label" json:"label"`
	Price  decimal.Decimal `db:"price" json:"price"`
	SortNo int             `db:"sort_no" json:"sortNo"`
}

// Discipline is an optional style/section choice (e.g. a sports discipline).
type Discipline struct {
	Code  string `db:"code" json:"code"`
	Label string `db:"label" json:"label"`
}
