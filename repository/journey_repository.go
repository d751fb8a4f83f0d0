package repository

import (
	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

type GormJourneyRepository struct {
	db *gorm.DB
}

func NewGormJourneyRepository(db *gorm.DB) JourneyRepository {
	return &GormJourneyRepository{db: db}
}

func (r *GormJourneyRepository) List() ([]models.JourneyItem, error) {
	var items []models.JourneyItem
	err := r.db.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormJourneyRepository) GetByID(id uint) (*models.JourneyItem, error) {
	var item models.JourneyItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormJourneyRepository) Create(item *models.JourneyItem) error {
	return r.db.Create(item).Error
}

// Update writes the text fields and, only when a new file was stored, the file
// reference; an update without a file keeps the previous one.
func (r *GormJourneyRepository) Update(item *models.JourneyItem) error {
	updates := map[string]interface{}{
		"title":    item.Title,
		"caption":  item.Caption,
		"category": item.Category,
	}
	if item.Filename != nil {
		updates["filename"] = item.Filename
		updates["stored_path"] = item.StoredPath
	}
	res := r.db.Model(&models.JourneyItem{}).Where("id = ?", item.ID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormJourneyRepository) Delete(id uint) error {
	return r.db.Delete(&models.JourneyItem{}, id).Error
}
