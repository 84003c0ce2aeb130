package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a chart-of-accounts entry
type AccountType string

const (
	AccountAsset     AccountType = "ASSET"
	AccountLiability AccountType = "LIABILITY"
	AccountEquity    AccountType = "EQUITY"
	AccountRevenue   AccountType = "REVENUE"
	AccountExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types
func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountRevenue, AccountExpense:
		return true
	}
	return false
}

// DebitNormal reports whether the account type grows on the debit side
func (t AccountType) DebitNormal() bool {
	return t == AccountAsset || t == AccountExpense
}

// Company owns a chart of accounts and its journal
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TaxID     string    `gorm:"column:tax_id;size:32;not null;uniqueIndex:idx_companies_tax_id" json:"taxId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Account is one line of a company's chart of accounts
type Account struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"size:16;not null;uniqueIndex:idx_accounts_code_company" json:"code"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	Type      AccountType `gorm:"size:16;not null" json:"type"`
	CompanyID uint        `gorm:"not null;uniqueIndex:idx_accounts_code_company" json:"companyId"`
	CreatedAt time.Time   `json:"createdAt"`

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// JournalEntry is a balanced, append-only set of postings
type JournalEntry struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	Description string        `gorm:"size:512" json:"description"`
	CompanyID   uint          `gorm:"not null;index" json:"companyId"`
	Lines       []JournalLine `gorm:"foreignKey:JournalEntryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
	CreatedAt   time.Time     `json:"createdAt"`

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// JournalLine posts a single debit or credit against an account
type JournalLine struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	JournalEntryID uint            `gorm:"not null;index" json:"journalEntryId"`
	AccountID      uint            `gorm:"not null;index" json:"accountId"`
	Debit          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"credit"`

	Account *Account `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"account,omitempty"`
}

// TrialBalanceLine is the per-account total of all postings
type TrialBalanceLine struct {
	AccountID uint            `json:"accountId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// Journal validation errors
var (
	ErrTooFewLines    = errors.New("a journal entry needs at least two lines")
	ErrOneSidedLine   = errors.New("each line must carry exactly one positive debit or credit")
	ErrUnbalanced     = errors.New("total debits must equal total credits")
	ErrMissingAccount = errors.New("each line must reference an account")
)

// Validate checks that the entry is balanced double-entry bookkeeping
func (e *JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return ErrTooFewLines
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.AccountID == 0 {
			return ErrMissingAccount
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() || l.Debit.IsPositive() == l.Credit.IsPositive() {
			return ErrOneSidedLine
		}
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	if !debits.Equal(credits) {
		return ErrUnbalanced
	}
	return nil
}

// AccountIDs returns the distinct account ids referenced by the entry
func (e *JournalEntry) AccountIDs() []uint {
	seen := make(map[uint]struct{}, len(e.Lines))
	var ids []uint
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// NewTrialBalanceLine computes the signed balance for an account's totals
func NewTrialBalanceLine(a Account, debit, credit decimal.Decimal) TrialBalanceLine {
	balance := credit.Sub(debit)
	if a.Type.DebitNormal() {
		balance = debit.Sub(credit)
	}
	return TrialBalanceLine{
		AccountID: a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type,
		Debit:     debit,
		Credit:    credit,
		Balance:   balance,
	}
}
