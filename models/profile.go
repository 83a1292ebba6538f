package models

import "github.com/lib/pq"

type UserProfile struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `gorm:"uniqueIndex" json:"-"`

	BodyType *string `json:"body_type"`
	SkinTone *string `json:"skin_tone"`
	Age      *int    `json:"age"`
	HeightCm *int    `json:"height_cm"`
	Gender   *string `json:"gender"`
	Location *string `json:"location"`

	FavoriteColors  pq.StringArray `gorm:"type:text[]" json:"favorite_colors"`
	PreferredStyles pq.StringArray `gorm:"type:text[]" json:"preferred_styles"`
	AvoidColors     pq.StringArray `gorm:"type:text[]" json:"avoid_colors"`
}

type ProfileUpdateIn struct {
	BodyType        *string  `json:"body_type" validate:"omitempty,max=50"`
	SkinTone        *string  `json:"skin_tone" validate:"omitempty,max=50"`
	Age             *int     `json:"age" validate:"omitempty,min=1,max=120"`
	HeightCm        *int     `json:"height_cm" validate:"omitempty,min=50,max=260"`
	Gender          *string  `json:"gender" validate:"omitempty,max=30"`
	Location        *string  `json:"location" validate:"omitempty,max=100"`
	FavoriteColors  []string `json:"favorite_colors" validate:"omitempty,max=20"`
	PreferredStyles []string `json:"preferred_styles" validate:"omitempty,max=20"`
	AvoidColors     []string `json:"avoid_colors" validate:"omitempty,max=20"`
}
