package api

import (
	"context"
	"time"

	"creator_support/internal/domain"
	"creator_support/internal/store"

	"github.com/shopspring/decimal"
)

// UserStore is the user side of the data access layer
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByID(ctx context.Context, id uint) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UserGraph(ctx context.Context, id uint) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string, changedAt time.Time) error
	BumpTokenVersion(ctx context.Context, id uint) error
	TokenVersion(ctx context.Context, id uint) (uint, error)
}

// ProfileStore persists public profiles
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *domain.Profile) error
	ProfileByUserID(ctx context.Context, userID uint) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.Profile, error)
}

// BankCardStore persists payout cards
type BankCardStore interface {
	CreateBankCard(ctx context.Context, c *domain.BankCard) error
	UpdateBankCard(ctx context.Context, id uint, upd domain.BankCardUpdate) (*domain.BankCard, error)
}

// DonationStore persists donations and answers dashboard queries
type DonationStore interface {
	CreateDonation(ctx context.Context, d *domain.Donation) error
	DonationsByRecipient(ctx context.Context, recipientID uint, f domain.DonationFilter) ([]domain.Donation, error)
	Earnings(ctx context.Context, recipientID uint, f domain.DonationFilter) (decimal.Decimal, int64, error)
}

// LedgerStore persists the bookkeeping side
type LedgerStore interface {
	CreateCompany(ctx context.Context, c *domain.Company) error
	CompanyByID(ctx context.Context, id uint) (*domain.Company, error)
	CompaniesByOwner(ctx context.Context, userID uint) ([]domain.Company, error)
	CreateAccount(ctx context.Context, a *domain.Account) error
	AccountsByCompany(ctx context.Context, companyID uint) ([]domain.Account, error)
	CreateJournalEntry(ctx context.Context, e *domain.JournalEntry) error
	JournalEntries(ctx context.Context, companyID uint) ([]domain.JournalEntry, error)
	TrialBalance(ctx context.Context, companyID uint) ([]domain.TrialBalanceLine, error)
}

// Store is everything the router needs; *store.Store satisfies it
type Store interface {
	UserStore
	ProfileStore
	BankCardStore
	DonationStore
	LedgerStore
}

var _ Store = (*store.Store)(nil)
