package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// ConstraintKind tells which store constraint rejected a write
type ConstraintKind int

const (
	KindUnique ConstraintKind = iota + 1
	KindForeignKey
)

func (k ConstraintKind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindForeignKey:
		return "foreign_key"
	}
	return "unknown"
}

// ConstraintViolation is returned when the store refuses a write because of a unique or
// foreign-key constraint. Field is the API field name of the offending column when known.
type ConstraintViolation struct {
	Kind  ConstraintKind
	Field string
	Err   error
}

func (e *ConstraintViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s constraint violated on %s: %v", e.Kind, e.Field, e.Err)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// IsUnique reports whether err is a unique violation, optionally on the given field
func IsUnique(err error, field string) bool {
	var cv *ConstraintViolation
	if !errors.As(err, &cv) || cv.Kind != KindUnique {
		return false
	}
	return field == "" || cv.Field == field
}

// IsForeignKey reports whether err is a foreign-key violation
func IsForeignKey(err error) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv) && cv.Kind == KindForeignKey
}

// Index names declared on the domain models, mapped to API field names
var uniqueIndexFields = map[string]string{
	"idx_users_email":           "email",
	"idx_users_username":        "username",
	"idx_profiles_user_id":      "userId",
	"idx_companies_tax_id":      "taxId",
	"idx_accounts_code_company": "code",
}

// Foreign-key columns mapped to API field names
var foreignKeyFields = map[string]string{
	"user_id":          "userId",
	"donor_id":         "donorId",
	"recipient_id":     "recipientId",
	"company_id":       "companyId",
	"account_id":       "accountId",
	"journal_entry_id": "journalEntryId",
}

var (
	mysqlFKColumn = regexp.MustCompile("FOREIGN KEY \\(`(\\w+)`\\)")
	pgKeyColumn   = regexp.MustCompile(`Key \((\w+)\)`)
)

// MySQL and Postgres error codes for constraint failures
const (
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced  = 1451
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify converts driver and gorm errors into the store's typed errors
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return &ConstraintViolation{Kind: KindUnique, Field: uniqueField(myErr.Message), Err: err}
		case mysqlNoReferencedRow, mysqlRowIsReferenced:
			return &ConstraintViolation{Kind: KindForeignKey, Field: fkField(mysqlFKColumn, myErr.Message), Err: err}
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			field := uniqueField(pgErr.ConstraintName)
			if field == "" {
				field = fkField(pgKeyColumn, pgErr.Detail)
			}
			return &ConstraintViolation{Kind: KindUnique, Field: field, Err: err}
		case pgForeignKeyViolation:
			return &ConstraintViolation{Kind: KindForeignKey, Field: fkField(pgKeyColumn, pgErr.Detail), Err: err}
		}
	}

	// Drivers opened with TranslateError lose the index name
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintViolation{Kind: KindUnique, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ConstraintViolation{Kind: KindForeignKey, Err: err}
	}
	return err
}

func uniqueField(msg string) string {
	for idx, field := range uniqueIndexFields {
		if strings.Contains(msg, idx) {
			return field
		}
	}
	return ""
}

func fkField(re *regexp.Regexp, msg string) string {
	m := re.FindStringSubmatch(msg)
	if len(m) < 2 {
		return ""
	}
	if field, ok := foreignKeyFields[m[1]]; ok {
		return field
	}
	return m[1]
}
