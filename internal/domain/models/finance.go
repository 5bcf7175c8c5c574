// internal/domain/models/finance.go
package models

import (
	"strconv"
	"time"
)

// Finance entry kinds.
const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"
)

// Finance entry origins. Dues entries are owned by the dues ledger and are
// only removed by un-marking the matching payment.
const (
	OriginManual = "manual"
	OriginDues   = "dues"
)

// Categories offered for manual entries. CategoryDues is also the category
// of every dues entry.
const (
	CategoryDues      = "dues"
	CategoryDonation  = "donation"
	CategoryEvent     = "event"
	CategoryMaterial  = "material"
	CategoryFood      = "food"
	CategoryTransport = "transport"
	CategoryOther     = "other"
)

// IncomeCategories and ExpenseCategories are the choices per kind.
var (
	IncomeCategories  = []string{CategoryDues, CategoryDonation, CategoryEvent, CategoryOther}
	ExpenseCategories = []string{CategoryEvent, CategoryMaterial, CategoryFood, CategoryTransport, CategoryOther}
)

// FinanceEntry is one ledger line. Amount is in cents and never negative;
// the sign comes from Kind. Month (0-11) and Year duplicate Date for
// filtering.
type FinanceEntry struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Kind        string    `bson:"kind" json:"kind"`
	Amount      int64     `bson:"amount" json:"amount"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD
	Month       int       `bson:"month" json:"month"`
	Year        int       `bson:"year" json:"year"`
	Origin      string    `bson:"origin" json:"origin"`
	MemberID    string    `bson:"member_id,omitempty" json:"member_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// IsDues reports whether the entry is managed by the dues ledger.
func (f FinanceEntry) IsDues() bool {
	return f.Origin == OriginDues
}

// Signed returns the amount with the sign implied by the kind.
func (f FinanceEntry) Signed() int64 {
	if f.Kind == FinanceExpense {
		return -f.Amount
	}
	return f.Amount
}

// DuesPayment marks that a member paid dues for a month. Its id is
// DuesPaymentID(memberID, month, year).
type DuesPayment struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	MemberID string    `bson:"member_id" json:"member_id"`
	Month    int       `bson:"month" json:"month"`
	Year     int       `bson:"year" json:"year"`
	Paid     bool      `bson:"paid" json:"paid"`
	PaidAt   time.Time `bson:"paid_at" json:"paid_at"`
}

// DuesPaymentID builds the deterministic payment document id.
func DuesPaymentID(memberID string, month, year int) string {
	return memberID + "_" + strconv.Itoa(month) + "_" + strconv.Itoa(year)
}

// DuesEntryID builds the id of the ledger entry mirroring a dues payment.
func DuesEntryID(memberID string, month, year int) string {
	return "dues_" + DuesPaymentID(memberID, month, year)
}
