package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

type GormGachaRepository struct {
	db *gorm.DB
}

func NewGormGachaRepository(db *gorm.DB) GachaRepository {
	return &GormGachaRepository{db: db}
}

func (r *GormGachaRepository) ListItems() ([]models.GachaItem, error) {
	var items []models.GachaItem
	err := r.db.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormGachaRepository) GetItem(id uint) (*models.GachaItem, error) {
	var item models.GachaItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormGachaRepository) CreateItem(item *models.GachaItem) error {
	return r.db.Create(item).Error
}

func (r *GormGachaRepository) UpdateItem(item *models.GachaItem) error {
	res := r.db.Model(&models.GachaItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"rarity":  item.Rarity,
		"title":   item.Title,
		"caption": item.Caption,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes the collectible and clears gacha_id on every picture that
// referenced it, in one transaction, so no dangling references survive.
func (r *GormGachaRepository) DeleteItem(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Picture{}).Where("gacha_id = ?", id).Update("gacha_id", nil).Error; err != nil {
			return fmt.Errorf("clearing picture references: %w", err)
		}
		return tx.Delete(&models.GachaItem{}, id).Error
	})
}

func (r *GormGachaRepository) ListRaritySettings() ([]models.GachaRaritySetting, error) {
	var settings []models.GachaRaritySetting
	err := r.db.Order("rarity ASC").Find(&settings).Error
	return settings, err
}

func (r *GormGachaRepository) UpsertRaritySetting(rarity models.Rarity, weight int) error {
	setting := models.GachaRaritySetting{Rarity: rarity, Weight: weight}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rarity"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "updated_at"}),
	}).Create(&setting).Error
}

func (r *GormGachaRepository) EnsureState(adminID uint, defaultCoins int) (*models.GachaState, error) {
	state := models.GachaState{AdminID: adminID, Coins: defaultCoins}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}},
		DoNothing: true,
	}).Create(&state).Error
	if err != nil {
		return nil, fmt.Errorf("ensure gacha state: %w", err)
	}
	var current models.GachaState
	if err := r.db.First(&current, "admin_id = ?", adminID).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *GormGachaRepository) SetCoins(adminID uint, coins int) (int, error) {
	if coins < 0 {
		coins = 0
	}
	state := models.GachaState{AdminID: adminID, Coins: coins}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"coins", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return 0, fmt.Errorf("set coins: %w", err)
	}
	return coins, nil
}

// AdjustCoins applies a delta atomically at the database, clamped at zero, and
// returns the post-update balance. Callers reconcile to the returned value.
func (r *GormGachaRepository) AdjustCoins(adminID uint, delta int) (int, error) {
	err := r.db.Exec(
		"UPDATE gacha_state SET coins = MAX(0, coins + ?), updated_at = CURRENT_TIMESTAMP WHERE admin_id = ?",
		delta, adminID,
	).Error
	if err != nil {
		return 0, fmt.Errorf("adjust coins: %w", err)
	}
	var current models.GachaState
	if err := r.db.First(&current, "admin_id = ?", adminID).Error; err != nil {
		return 0, err
	}
	return current.Coins, nil
}

func (r *GormGachaRepository) ListResults(adminID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.GachaResult{}).
		Where("admin_id = ?", adminID).
		Order("gacha_item_id ASC").
		Pluck("gacha_item_id", &ids).Error
	return ids, err
}

func (r *GormGachaRepository) AddResult(adminID, gachaItemID uint) error {
	result := models.GachaResult{AdminID: adminID, GachaItemID: gachaItemID}
	// avoid error if the unlock is already recorded
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&result).Error
}
