package models

import "time"

// SingletonID is the fixed primary key of the single-row settings tables.
const SingletonID = 1

// CosmicSettings configures the timeline ("cosmic") section.
type CosmicSettings struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	IntroTitle    string    `json:"introTitle"`
	IntroSubtitle string    `json:"introSubtitle"`
	TimelineTitle string    `json:"timelineTitle"`
	Date1         string    `json:"date1"`
	Caption1      string    `json:"caption1"`
	Date2         string    `json:"date2"`
	Caption2      string    `json:"caption2"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (CosmicSettings) TableName() string {
	return "cosmic_settings"
}

// LayoutSettings holds grid column counts for the gallery views.
type LayoutSettings struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	JourneyColumns int       `json:"journeyColumns" gorm:"not null;default:3"`
	GachaColumns   int       `json:"gachaColumns" gorm:"not null;default:4"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (LayoutSettings) TableName() string {
	return "layout_settings"
}

// LetterSettings configures the closing letter section.
type LetterSettings struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title"`
	Body1      string    `json:"body1"`
	Body2      string    `json:"body2"`
	Voucher    *string   `json:"voucher,omitempty"`
	ButtonText string    `json:"buttonText"`
	Footer     string    `json:"footer"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (LetterSettings) TableName() string {
	return "letter_settings"
}
