package models

import "time"

// Rarity is an enumerated tier controlling draw probability of a collectible.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// RarityOrder is the canonical walk order for the weighted draw and the only
// accepted set of rarity values.
var RarityOrder = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic}

func IsValidRarity(r string) bool {
	for _, known := range RarityOrder {
		if Rarity(r) == known {
			return true
		}
	}
	return false
}

// GachaItem is a collectible. A gacha item can have zero or more assigned
// pictures (Picture.GachaID).
type GachaItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Rarity    Rarity    `json:"rarity" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Caption   string    `json:"caption" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GachaRaritySetting holds the operator-configured draw weight for one rarity.
type GachaRaritySetting struct {
	Rarity    Rarity    `json:"rarity" gorm:"primaryKey"`
	Weight    int       `json:"weight" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (GachaRaritySetting) TableName() string {
	return "gacha_rarity_settings"
}

// GachaState is the per-admin coin counter. Coins never go below zero.
type GachaState struct {
	AdminID   uint      `json:"adminId" gorm:"primaryKey"`
	Coins     int       `json:"coins" gorm:"not null;default:5"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (GachaState) TableName() string {
	return "gacha_state"
}

// GachaResult records that an admin has unlocked a collectible. The
// (admin_id, gacha_item_id) pair is unique and inserts are idempotent.
type GachaResult struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AdminID     uint      `json:"adminId" gorm:"uniqueIndex:idx_admin_gacha_item;not null"`
	GachaItemID uint      `json:"gachaItemId" gorm:"uniqueIndex:idx_admin_gacha_item;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}
