package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, matching what clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Donation is an append-only pledge from a donor to a recipient
type Donation struct {
	ID                      uint            `gorm:"primaryKey" json:"id"`
	Amount                  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	SpecialMessage          string          `gorm:"type:text" json:"specialMessage"`
	SocialURLOrBuyMeACoffee string          `gorm:"column:social_url_or_buy_me_a_coffee;size:512" json:"socialURLOrBuyMeACoffee"`
	DonorID                 uint            `gorm:"not null;index" json:"donorId"`
	RecipientID             uint            `gorm:"not null;index" json:"recipientId"`
	CreatedAt               time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`

	Donor     *User `gorm:"foreignKey:DonorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"donor,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"recipient,omitempty"`
}

// DonationFilter narrows a recipient's donation list
type DonationFilter struct {
	Amounts []decimal.Decimal // Exact amounts to keep, empty keeps all
	Since   *time.Time        // Lower bound on creation time, nil keeps all
}

// Empty reports whether the filter keeps every donation
func (f DonationFilter) Empty() bool {
	return len(f.Amounts) == 0 && f.Since == nil
}

// Earnings summarises what a recipient received over a window
type Earnings struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
	Days  string          `json:"days"`
}
