package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"creator_support/internal/config"
	"creator_support/internal/db"
	"creator_support/internal/domain"
	"creator_support/internal/store"
	"creator_support/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Demo chart of accounts for the seeded company
var chart = []domain.Account{
	{Code: "1010", Name: "Cash on hand", Type: domain.AccountAsset},
	{Code: "1110", Name: "Bank account", Type: domain.AccountAsset},
	{Code: "1210", Name: "Accounts receivable", Type: domain.AccountAsset},
	{Code: "3110", Name: "Accounts payable", Type: domain.AccountLiability},
	{Code: "3310", Name: "Salaries payable", Type: domain.AccountLiability},
	{Code: "4110", Name: "Owner's equity", Type: domain.AccountEquity},
	{Code: "5110", Name: "Donation revenue", Type: domain.AccountRevenue},
	{Code: "7110", Name: "Rent expense", Type: domain.AccountExpense},
	{Code: "7210", Name: "Salaries expense", Type: domain.AccountExpense},
}

func main() {
	email := flag.String("email", "demo@support.local", "demo user email")
	password := flag.String("password", "Passw0rd1", "demo user password")
	flag.Parse()

	cfg := config.LoadConfig()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := seed(context.Background(), store.New(gdb), *email, *password, cfg.BcryptCost); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
	logrus.Info("Seed completed.")
}

// seed upserts the demo user, company, chart of accounts and one salary entry
func seed(ctx context.Context, st *store.Store, email, password string, cost int) error {
	user, err := st.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		hash, herr := utils.HashPassword(password, cost)
		if herr != nil {
			return herr
		}
		user = &domain.User{Email: email, Username: "demo", Password: hash}
		err = st.CreateUser(ctx, user)
	}
	if err != nil {
		return err
	}

	company := domain.Company{Name: "Тест ХХК", TaxID: "1234567", UserID: user.ID}
	if err := st.EnsureCompany(ctx, &company); err != nil {
		return err
	}
	codes := map[string]uint{}
	for _, a := range chart {
		a.CompanyID = company.ID
		if err := st.EnsureAccount(ctx, &a); err != nil {
			return err
		}
		codes[a.Code] = a.ID
	}

	n, err := st.CountJournalEntries(ctx, company.ID)
	if err != nil || n > 0 {
		return err
	}
	amount := decimal.NewFromInt(500000)
	return st.CreateJournalEntry(ctx, &domain.JournalEntry{
		Date:        time.Now().UTC(),
		Description: "Salary accrual",
		CompanyID:   company.ID,
		Lines: []domain.JournalLine{
			{AccountID: codes["7210"], Debit: amount},
			{AccountID: codes["3310"], Credit: amount},
		},
	})
}
