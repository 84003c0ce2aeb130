package store

import (
	"context"
	"time"

	"creator_support/internal/domain"
)

// CreateProfile inserts a profile; a second profile for the same user is a unique violation
func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) error {
	return classify(s.db.WithContext(ctx).Create(p).Error)
}

// ProfileByUserID loads the profile owned by userID
func (s *Store) ProfileByUserID(ctx context.Context, userID uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

// UpdateProfile applies only the supplied fields and returns the stored profile
func (s *Store) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.Profile, error) {
	p, err := s.ProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cols := upd.Columns()
	cols["updated_at"] = time.Now()
	if err := s.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", p.ID).Updates(cols).Error; err != nil {
		return nil, classify(err)
	}
	return s.ProfileByUserID(ctx, userID)
}
