package domain

import "time"

// BankCard Model
//
// Card number and CVC are stored as submitted. A real deployment must tokenise them through a
// compliant payment processor instead.
type BankCard struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                 // Primary key
	Country    string    `gorm:"size:100" json:"country"`              // Card issuing country
	FirstName  string    `gorm:"column:firstname;size:100" json:"firstname"`
	LastName   string    `gorm:"column:lastname;size:100" json:"lastname"`
	CardNumber string    `gorm:"size:19" json:"cardNumber"`
	ExpiryDate string    `gorm:"size:7" json:"expiryDate"` // MM/YY
	CVC        string    `gorm:"column:cvc;size:4" json:"cvc"`
	UserID     uint      `gorm:"not null;index" json:"userId"` // Foreign key to User
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BankCardUpdate carries a partial card change; nil fields are left untouched
type BankCardUpdate struct {
	Country    *string `json:"country"`
	FirstName  *string `json:"firstname"`
	LastName   *string `json:"lastname"`
	CardNumber *string `json:"cardNumber"`
	ExpiryDate *string `json:"expiryDate"`
	CVC        *string `json:"cvc"`
}

// Columns maps the supplied fields to their column names
func (u BankCardUpdate) Columns() map[string]any {
	cols := map[string]any{}
	set(cols, "country", u.Country)
	set(cols, "firstname", u.FirstName)
	set(cols, "lastname", u.LastName)
	set(cols, "card_number", u.CardNumber)
	set(cols, "expiry_date", u.ExpiryDate)
	set(cols, "cvc", u.CVC)
	return cols
}
