package store

import (
	"context"
	"time"

	"creator_support/internal/domain"

	"gorm.io/gorm"
)

// CreateUser inserts a new user; duplicate email or username yields a unique violation
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return classify(s.db.WithContext(ctx).Create(u).Error)
}

// FindUserByID loads a user row without relations
func (s *Store) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// FindUserByEmail loads a user row by email
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// EmailExists reports whether a user already uses email
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

// UsernameExists reports whether a user already uses username
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username = ?", username)
}

func (s *Store) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

// UserGraph loads a user with profile, bank card and both sides of their donations
func (s *Store) UserGraph(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("BankCards", newestCardFirst).
		Preload("SentDonations", orderNewest).
		Preload("SentDonations.Recipient.Profile").
		Preload("ReceivedDonations", orderNewest).
		Preload("ReceivedDonations.Donor.Profile").
		First(&u, id).Error
	if err != nil {
		return nil, classify(err)
	}
	u.UseNewestBankCard()
	return &u, nil
}

// UpdatePassword stores a new hash, stamps passwordChangedAt and revokes issued tokens
func (s *Store) UpdatePassword(ctx context.Context, id uint, hash string, changedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password":            hash,
		"password_changed_at": changedAt,
		"token_version":       gorm.Expr("token_version + 1"),
	})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BumpTokenVersion invalidates every token issued to the user so far
func (s *Store) BumpTokenVersion(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TokenVersion returns the user's current token version
func (s *Store) TokenVersion(ctx context.Context, id uint) (uint, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Select("id", "token_version").First(&u, id).Error; err != nil {
		return 0, classify(err)
	}
	return u.TokenVersion, nil
}

// Cards added in the same second are told apart by id
func newestCardFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

func orderNewest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
