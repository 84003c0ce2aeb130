package domain

import "time"

// Profile is the public page data of a creator, one per user
type Profile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	About           string    `gorm:"type:text" json:"about"`
	AvatarImage     string    `gorm:"size:512" json:"avatarImage"`
	SocialMediaURL  string    `gorm:"column:social_media_url;size:512" json:"socialMediaUrl"`
	BackgroundImage string    `gorm:"size:512" json:"backgroundImage"`
	SuccessMessage  string    `gorm:"type:text" json:"successMessage"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_profiles_user_id" json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileUpdate carries a partial profile change; nil fields are left untouched
type ProfileUpdate struct {
	Name            *string `json:"name"`
	About           *string `json:"about"`
	AvatarImage     *string `json:"avatarImage"`
	SocialMediaURL  *string `json:"socialMediaUrl"`
	BackgroundImage *string `json:"backgroundImage"`
	SuccessMessage  *string `json:"successMessage"`
}

// Columns maps the supplied fields to their column names
func (u ProfileUpdate) Columns() map[string]any {
	cols := map[string]any{}
	set(cols, "name", u.Name)
	set(cols, "about", u.About)
	set(cols, "avatar_image", u.AvatarImage)
	set(cols, "social_media_url", u.SocialMediaURL)
	set(cols, "background_image", u.BackgroundImage)
	set(cols, "success_message", u.SuccessMessage)
	return cols
}

func set(cols map[string]any, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}
