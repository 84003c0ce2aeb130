package store

import (
	"context"
	"time"

	"creator_support/internal/domain"
)

// CreateBankCard inserts a card; an unknown owner is a foreign-key violation
func (s *Store) CreateBankCard(ctx context.Context, c *domain.BankCard) error {
	return classify(s.db.WithContext(ctx).Create(c).Error)
}

// BankCardByID loads a card by id
func (s *Store) BankCardByID(ctx context.Context, id uint) (*domain.BankCard, error) {
	var c domain.BankCard
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

// UpdateBankCard applies only the supplied fields and returns the stored card
func (s *Store) UpdateBankCard(ctx context.Context, id uint, upd domain.BankCardUpdate) (*domain.BankCard, error) {
	if _, err := s.BankCardByID(ctx, id); err != nil {
		return nil, err
	}
	cols := upd.Columns()
	cols["updated_at"] = time.Now()
	if err := s.db.WithContext(ctx).Model(&domain.BankCard{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		return nil, classify(err)
	}
	return s.BankCardByID(ctx, id)
}
