package store

import (
	"context"
	"errors"

	"creator_support/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrForeignAccount is returned when a journal line references an account of another company
var ErrForeignAccount = errors.New("journal line references an account outside the company")

// CreateCompany inserts a company; a duplicate tax id is a unique violation
func (s *Store) CreateCompany(ctx context.Context, c *domain.Company) error {
	return classify(s.db.WithContext(ctx).Create(c).Error)
}

// CompanyByID loads a company
func (s *Store) CompanyByID(ctx context.Context, id uint) (*domain.Company, error) {
	var c domain.Company
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

// CompaniesByOwner lists the companies owned by userID
func (s *Store) CompaniesByOwner(ctx context.Context, userID uint) ([]domain.Company, error) {
	companies := []domain.Company{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&companies).Error; err != nil {
		return nil, classify(err)
	}
	return companies, nil
}

// EnsureCompany returns the company with c.TaxID, creating it from c when absent
func (s *Store) EnsureCompany(ctx context.Context, c *domain.Company) error {
	err := s.db.WithContext(ctx).Where(domain.Company{TaxID: c.TaxID}).Attrs(domain.Company{Name: c.Name, UserID: c.UserID}).FirstOrCreate(c).Error
	return classify(err)
}

// CreateAccount inserts a chart-of-accounts entry; duplicate codes per company are a unique violation
func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	return classify(s.db.WithContext(ctx).Create(a).Error)
}

// EnsureAccount returns the account with a.Code in a.CompanyID, creating it when absent
func (s *Store) EnsureAccount(ctx context.Context, a *domain.Account) error {
	err := s.db.WithContext(ctx).Where(domain.Account{Code: a.Code, CompanyID: a.CompanyID}).Attrs(domain.Account{Name: a.Name, Type: a.Type}).FirstOrCreate(a).Error
	return classify(err)
}

// AccountsByCompany lists a company's chart of accounts ordered by code
func (s *Store) AccountsByCompany(ctx context.Context, companyID uint) ([]domain.Account, error) {
	accounts := []domain.Account{}
	if err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Order("code").Find(&accounts).Error; err != nil {
		return nil, classify(err)
	}
	return accounts, nil
}

// CreateJournalEntry validates and posts an entry with its lines in one transaction
func (s *Store) CreateJournalEntry(ctx context.Context, e *domain.JournalEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	ids := e.AccountIDs()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&domain.Account{}).Where("id IN ? AND company_id = ?", ids, e.CompanyID).Count(&owned).Error; err != nil {
			return err
		}
		if owned != int64(len(ids)) {
			return ErrForeignAccount
		}
		return tx.Create(e).Error
	})
	if errors.Is(err, ErrForeignAccount) {
		return err
	}
	return classify(err)
}

// JournalEntries lists a company's entries newest first with their lines
func (s *Store) JournalEntries(ctx context.Context, companyID uint) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Lines").
		Preload("Lines.Account").
		Order("date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

// CountJournalEntries returns how many entries a company has posted
func (s *Store) CountJournalEntries(ctx context.Context, companyID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.JournalEntry{}).Where("company_id = ?", companyID).Count(&n).Error; err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// TrialBalance totals debits and credits per account of the company
func (s *Store) TrialBalance(ctx context.Context, companyID uint) ([]domain.TrialBalanceLine, error) {
	accounts, err := s.AccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		AccountID uint
		Debit     decimal.Decimal
		Credit    decimal.Decimal
	}
	err = s.db.WithContext(ctx).
		Table("journal_lines").
		Select("journal_lines.account_id AS account_id, COALESCE(SUM(journal_lines.debit), 0) AS debit, COALESCE(SUM(journal_lines.credit), 0) AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.journal_entry_id").
		Where("journal_entries.company_id = ?", companyID).
		Group("journal_lines.account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	totals := make(map[uint][2]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.AccountID] = [2]decimal.Decimal{r.Debit, r.Credit}
	}
	lines := make([]domain.TrialBalanceLine, 0, len(accounts))
	for _, a := range accounts {
		t := totals[a.ID]
		lines = append(lines, domain.NewTrialBalanceLine(a, t[0], t[1]))
	}
	return lines, nil
}
