package models

import "time"

// LoveRadarLog is an append-only audit row of a geolocation distance check.
// The application only ever writes these.
type LoveRadarLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TargetLat    float64   `json:"targetLat" gorm:"not null"`
	TargetLng    float64   `json:"targetLng" gorm:"not null"`
	UserLat      *float64  `json:"userLat,omitempty"`
	UserLng      *float64  `json:"userLng,omitempty"`
	DistanceM    *float64  `json:"distanceM,omitempty"`
	DistanceKm   *float64  `json:"distanceKm,omitempty"`
	AccuracyM    *float64  `json:"accuracyM,omitempty"`
	Status       string    `json:"status" gorm:"not null"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (LoveRadarLog) TableName() string {
	return "love_radar_logs"
}
