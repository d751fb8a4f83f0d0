package models

import "time"

// JourneyCategory groups journey gallery entries.
type JourneyCategory string

const (
	JourneySweet JourneyCategory = "sweet"
	JourneyFunny JourneyCategory = "funny"
)

func IsValidJourneyCategory(c string) bool {
	return JourneyCategory(c) == JourneySweet || JourneyCategory(c) == JourneyFunny
}

// JourneyItem is one captioned entry of the photo journey gallery. The image
// file is optional; updates without a new file keep the previous one.
type JourneyItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Category   JourneyCategory `json:"category" gorm:"not null"`
	Title      string          `json:"title" gorm:"not null"`
	Caption    string          `json:"caption" gorm:"not null"`
	Filename   *string         `json:"filename,omitempty"`
	StoredPath *string         `json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
