package store

import (
	"context"

	"creator_support/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateDonation appends a donation row
func (s *Store) CreateDonation(ctx context.Context, d *domain.Donation) error {
	return classify(s.db.WithContext(ctx).Create(d).Error)
}

// DonationsByRecipient lists donations received by recipientID, newest first, each with the
// donor and the donor's profile
func (s *Store) DonationsByRecipient(ctx context.Context, recipientID uint, f domain.DonationFilter) ([]domain.Donation, error) {
	donations := []domain.Donation{}
	err := s.filtered(ctx, recipientID, f).
		Preload("Donor.Profile").
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, classify(err)
	}
	return donations, nil
}

// Earnings sums the donations received by recipientID within the filter
func (s *Store) Earnings(ctx context.Context, recipientID uint, f domain.DonationFilter) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := s.filtered(ctx, recipientID, f).
		Model(&domain.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, classify(err)
	}
	return row.Total, row.Count, nil
}

func (s *Store) filtered(ctx context.Context, recipientID uint, f domain.DonationFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if len(f.Amounts) > 0 {
		q = q.Where("amount IN ?", f.Amounts)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	return q
}
