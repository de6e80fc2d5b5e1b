package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry types. Amounts are stored as submitted; the summary sums by type,
// not by sign.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Entry represents a single income or expense record.
//
// Username is a denormalized owner key, not a foreign key: nothing cascades
// from users, so every read and write must filter by username first.
// Date is when the transaction happened, distinct from CreatedAt.
type Entry struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Username    string          `gorm:"size:64;not null;index:idx_entries_owner_date,priority:1" json:"username"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Type        string          `gorm:"size:16;not null" json:"type"`
	Date        time.Time       `gorm:"not null;index:idx_entries_owner_date,priority:2,sort:desc" json:"date"`
	Amount      decimal.Decimal `gorm:"type:text;not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EntryDraft carries all mutable fields of an entry. Updates are full
// replaces, not partial patches. A nil Date means "now" at creation time.
type EntryDraft struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Type        string          `json:"type" binding:"required,oneof=Income Expense"`
	Date        *time.Time      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// EntryFilter narrows and orders a ledger listing. Zero values mean
// "no constraint".
type EntryFilter struct {
	Type      string
	Search    string
	SortBy    string
	SortOrder string
}

// Summary aggregates one user's ledger.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}
