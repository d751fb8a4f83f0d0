package repository

import (
	"errors"
	"time"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

// ErrNoItemsForRarity is returned by least-loaded assignment when the target
// rarity has no configured gacha items.
var ErrNoItemsForRarity = errors.New("no gacha items for rarity")

type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	ListAll() ([]models.Admin, error)
	// Delete removes the admin and its sessions
	Delete(id uint) error
	// FirstID returns the lowest admin id; used to resolve the public
	// principal's game state
	FirstID() (uint, error)
}

type SessionRepository interface {
	Create(adminID uint, token string, ttl time.Duration) (*models.AdminSession, error)
	// GetAdminByToken resolves a non-expired session to its admin
	GetAdminByToken(token string) (*models.Admin, error)
	PurgeExpired() error
}

type PictureRepository interface {
	Create(pic *models.Picture) error
	GetByID(id uint) (*models.Picture, error)
	// List returns newest-first up to limit
	List(limit int) ([]models.Picture, error)
	ListByGacha(gachaID uint, limit int) ([]models.Picture, error)
	SetGachaID(pictureID uint, gachaID *uint) error
	Delete(id uint) error
	// LeastLoadedItemID picks the gacha item of the rarity with the fewest
	// assigned pictures, ties broken by lowest id
	LeastLoadedItemID(rarity models.Rarity) (uint, error)
}

type GachaRepository interface {
	ListItems() ([]models.GachaItem, error)
	GetItem(id uint) (*models.GachaItem, error)
	CreateItem(item *models.GachaItem) error
	UpdateItem(item *models.GachaItem) error
	// DeleteItem removes the item and nulls gacha_id on referencing pictures
	DeleteItem(id uint) error

	ListRaritySettings() ([]models.GachaRaritySetting, error)
	UpsertRaritySetting(rarity models.Rarity, weight int) error

	// EnsureState creates the per-admin state row with defaultCoins if absent
	// and returns the current state
	EnsureState(adminID uint, defaultCoins int) (*models.GachaState, error)
	// SetCoins overwrites the balance, clamped at zero
	SetCoins(adminID uint, coins int) (int, error)
	// AdjustCoins applies a clamped atomic delta and returns the new balance
	AdjustCoins(adminID uint, delta int) (int, error)

	ListResults(adminID uint) ([]uint, error)
	// AddResult records an unlock; inserting an existing pair is a no-op
	AddResult(adminID, gachaItemID uint) error
}

type JourneyRepository interface {
	List() ([]models.JourneyItem, error)
	GetByID(id uint) (*models.JourneyItem, error)
	Create(item *models.JourneyItem) error
	Update(item *models.JourneyItem) error
	Delete(id uint) error
}

type SettingsRepository interface {
	GetCosmic() (*models.CosmicSettings, error)
	UpdateCosmic(s *models.CosmicSettings) error
	GetLayout() (*models.LayoutSettings, error)
	UpdateLayout(s *models.LayoutSettings) error
	GetLetter() (*models.LetterSettings, error)
	UpdateLetter(s *models.LetterSettings) error
	InsertLoveRadarLog(entry *models.LoveRadarLog) error
}
