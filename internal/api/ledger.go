package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"creator_support/internal/domain"
	"creator_support/internal/middleware"
	"creator_support/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CreateCompanyRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"taxId" binding:"required"`
}

type CreateAccountRequest struct {
	Code string             `json:"code" binding:"required"`
	Name string             `json:"name" binding:"required"`
	Type domain.AccountType `json:"type" binding:"required"`
}

type JournalLineRequest struct {
	AccountID ID              `json:"accountId"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type CreateJournalEntryRequest struct {
	Date        string               `json:"date"` // YYYY-MM-DD or RFC 3339, defaults to now
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"required"`
}

// CreateCompanyHandler opens a set of books owned by the caller
func CreateCompanyHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, unauthorized("Unauthenticated"))
			return
		}
		var req CreateCompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Name and taxId are required", ""))
			return
		}
		company := domain.Company{Name: strings.TrimSpace(req.Name), TaxID: strings.TrimSpace(req.TaxID), UserID: userID}
		if err := ledger.CreateCompany(c.Request.Context(), &company); err != nil {
			if store.IsUnique(err, "") {
				respondError(c, conflict(http.StatusConflict, "A company with this tax id already exists", CodeDuplicate, "taxId", err))
				return
			}
			respondError(c, internalError("Failed to create company", err))
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "company_id": company.ID}).Info("Company created")
		c.JSON(http.StatusCreated, company)
	}
}

// ListCompaniesHandler lists the caller's companies
func ListCompaniesHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, unauthorized("Unauthenticated"))
			return
		}
		companies, err := ledger.CompaniesByOwner(c.Request.Context(), userID)
		if err != nil {
			respondError(c, internalError("Failed to list companies", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"companies": companies})
	}
}

// CreateAccountHandler adds an account to the company's chart
func CreateAccountHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		company := middleware.Company(c)
		var req CreateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Code, name and type are required", ""))
			return
		}
		accountType := domain.AccountType(strings.ToUpper(string(req.Type)))
		if !accountType.Valid() {
			respondError(c, &HTTPError{
				Status:  http.StatusBadRequest,
				Message: "Type must be one of ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE",
				Code:    CodeInvalidAccountType,
				Field:   "type",
			})
			return
		}
		account := domain.Account{
			Code:      strings.TrimSpace(req.Code),
			Name:      strings.TrimSpace(req.Name),
			Type:      accountType,
			CompanyID: company.ID,
		}
		if err := ledger.CreateAccount(c.Request.Context(), &account); err != nil {
			if store.IsUnique(err, "") {
				respondError(c, conflict(http.StatusConflict, "Account code already used in this company", CodeDuplicate, "code", err))
				return
			}
			respondError(c, internalError("Failed to create account", err))
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

// ListAccountsHandler returns the chart of accounts
func ListAccountsHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := ledger.AccountsByCompany(c.Request.Context(), middleware.Company(c).ID)
		if err != nil {
			respondError(c, internalError("Failed to list accounts", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": accounts})
	}
}

// CreateJournalEntryHandler posts a balanced entry
func CreateJournalEntryHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		company := middleware.Company(c)
		var req CreateJournalEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Invalid journal entry", "lines"))
			return
		}
		date, err := parseEntryDate(req.Date)
		if err != nil {
			respondError(c, validationError("date must be YYYY-MM-DD", "date"))
			return
		}
		entry := domain.JournalEntry{
			Date:        date,
			Description: req.Description,
			CompanyID:   company.ID,
			Lines:       make([]domain.JournalLine, 0, len(req.Lines)),
		}
		for _, l := range req.Lines {
			entry.Lines = append(entry.Lines, domain.JournalLine{
				AccountID: uint(l.AccountID),
				Debit:     l.Debit.Round(2),
				Credit:    l.Credit.Round(2),
			})
		}
		if err := ledger.CreateJournalEntry(c.Request.Context(), &entry); err != nil {
			switch {
			case errors.Is(err, domain.ErrTooFewLines), errors.Is(err, domain.ErrOneSidedLine),
				errors.Is(err, domain.ErrUnbalanced), errors.Is(err, domain.ErrMissingAccount):
				respondError(c, &HTTPError{Status: http.StatusBadRequest, Message: err.Error(), Code: CodeUnbalancedEntry, Field: "lines"})
			case errors.Is(err, store.ErrForeignAccount), store.IsForeignKey(err):
				respondError(c, validationError("Every account must belong to the company", "accountId"))
			default:
				respondError(c, internalError("Failed to post journal entry", err))
			}
			return
		}
		logrus.WithFields(logrus.Fields{
			"company_id": company.ID,
			"entry_id":   entry.ID,
			"lines":      len(entry.Lines),
		}).Info("Journal entry posted")
		c.JSON(http.StatusCreated, entry)
	}
}

// ListJournalEntriesHandler returns the journal newest first
func ListJournalEntriesHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := ledger.JournalEntries(c.Request.Context(), middleware.Company(c).ID)
		if err != nil {
			respondError(c, internalError("Failed to list journal entries", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"journalEntries": entries})
	}
}

// TrialBalanceHandler totals every account and checks the books balance
func TrialBalanceHandler(ledger LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := ledger.TrialBalance(c.Request.Context(), middleware.Company(c).ID)
		if err != nil {
			respondError(c, internalError("Failed to compute trial balance", err))
			return
		}
		debits, credits := decimal.Zero, decimal.Zero
		for _, l := range lines {
			debits = debits.Add(l.Debit)
			credits = credits.Add(l.Credit)
		}
		c.JSON(http.StatusOK, gin.H{
			"lines":       lines,
			"totalDebit":  debits,
			"totalCredit": credits,
			"balanced":    debits.Equal(credits),
		})
	}
}

func parseEntryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
