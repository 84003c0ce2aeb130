package domain

import "time"

// User Model
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`                                             // Primary key
	Email             string     `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`       // Unique email
	Username          string     `gorm:"size:100;not null;uniqueIndex:idx_users_username" json:"username"` // Unique username
	Password          string     `gorm:"not null" json:"-"`                                                // Hashed password, never serialised
	PasswordChangedAt *time.Time `json:"passwordChangedAt"`                                                // Last password change
	TokenVersion      uint       `gorm:"not null;default:0" json:"-"`                                      // Bumped to revoke issued tokens
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Profile           *Profile   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile"`
	BankCards         []BankCard `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BankCard          *BankCard  `gorm:"-" json:"bankCard"` // Newest of BankCards, see UseNewestBankCard
	SentDonations     []Donation `gorm:"foreignKey:DonorID" json:"sentDonations,omitempty"`
	ReceivedDonations []Donation `gorm:"foreignKey:RecipientID" json:"receivedDonations,omitempty"`
}

// UseNewestBankCard exposes the most recently added card as BankCard. BankCards must be
// ordered newest first.
func (u *User) UseNewestBankCard() {
	u.BankCard = nil
	if len(u.BankCards) > 0 {
		card := u.BankCards[0]
		u.BankCard = &card
	}
}
