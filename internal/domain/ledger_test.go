package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(account uint, debit, credit int64) JournalLine {
	return JournalLine{AccountID: account, Debit: decimal.NewFromInt(debit), Credit: decimal.NewFromInt(credit)}
}

func TestJournalEntryValidate(t *testing.T) {
	tests := []struct {
		name  string
		lines []JournalLine
		want  error
	}{
		{"balanced", []JournalLine{line(1, 500000, 0), line(2, 0, 500000)}, nil},
		{"split credit", []JournalLine{line(1, 100, 0), line(2, 0, 60), line(3, 0, 40)}, nil},
		{"single line", []JournalLine{line(1, 100, 0)}, ErrTooFewLines},
		{"unbalanced", []JournalLine{line(1, 100, 0), line(2, 0, 90)}, ErrUnbalanced},
		{"both sides", []JournalLine{line(1, 100, 100), line(2, 0, 0)}, ErrOneSidedLine},
		{"zero line", []JournalLine{line(1, 0, 0), line(2, 0, 0)}, ErrOneSidedLine},
		{"negative", []JournalLine{line(1, -5, 0), line(2, 0, -5)}, ErrOneSidedLine},
		{"missing account", []JournalLine{line(0, 5, 0), line(2, 0, 5)}, ErrMissingAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &JournalEntry{Lines: tt.lines}
			assert.ErrorIs(t, e.Validate(), tt.want)
		})
	}
}

func TestJournalEntryAccountIDs(t *testing.T) {
	e := &JournalEntry{Lines: []JournalLine{line(3, 1, 0), line(1, 0, 1), line(3, 1, 0), line(1, 0, 1)}}
	assert.Equal(t, []uint{3, 1}, e.AccountIDs())
}

func TestNewTrialBalanceLineSign(t *testing.T) {
	asset := Account{ID: 1, Code: "1101", Type: AccountAsset}
	liability := Account{ID: 2, Code: "3310", Type: AccountLiability}

	a := NewTrialBalanceLine(asset, decimal.NewFromInt(70), decimal.NewFromInt(20))
	l := NewTrialBalanceLine(liability, decimal.NewFromInt(20), decimal.NewFromInt(70))

	assert.True(t, a.Balance.Equal(decimal.NewFromInt(50)))
	assert.True(t, l.Balance.Equal(decimal.NewFromInt(50)))
}

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, AccountRevenue.Valid())
	assert.False(t, AccountType("INCOME").Valid())
}

func TestProfileUpdateColumnsOnlySupplied(t *testing.T) {
	about := "new bio"
	cols := ProfileUpdate{About: &about}.Columns()
	assert.Equal(t, map[string]any{"about": "new bio"}, cols)
}
