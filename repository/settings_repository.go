package repository

import (
	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) GetCosmic() (*models.CosmicSettings, error) {
	var s models.CosmicSettings
	if err := r.db.First(&s, models.SingletonID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) UpdateCosmic(s *models.CosmicSettings) error {
	return r.db.Model(&models.CosmicSettings{}).Where("id = ?", models.SingletonID).Updates(map[string]interface{}{
		"intro_title":    s.IntroTitle,
		"intro_subtitle": s.IntroSubtitle,
		"timeline_title": s.TimelineTitle,
		"date1":          s.Date1,
		"caption1":       s.Caption1,
		"date2":          s.Date2,
		"caption2":       s.Caption2,
	}).Error
}

func (r *GormSettingsRepository) GetLayout() (*models.LayoutSettings, error) {
	var s models.LayoutSettings
	if err := r.db.First(&s, models.SingletonID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) UpdateLayout(s *models.LayoutSettings) error {
	return r.db.Model(&models.LayoutSettings{}).Where("id = ?", models.SingletonID).Updates(map[string]interface{}{
		"journey_columns": s.JourneyColumns,
		"gacha_columns":   s.GachaColumns,
	}).Error
}

func (r *GormSettingsRepository) GetLetter() (*models.LetterSettings, error) {
	var s models.LetterSettings
	if err := r.db.First(&s, models.SingletonID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) UpdateLetter(s *models.LetterSettings) error {
	return r.db.Model(&models.LetterSettings{}).Where("id = ?", models.SingletonID).Updates(map[string]interface{}{
		"title":       s.Title,
		"body1":       s.Body1,
		"body2":       s.Body2,
		"voucher":     s.Voucher,
		"button_text": s.ButtonText,
		"footer":      s.Footer,
	}).Error
}

func (r *GormSettingsRepository) InsertLoveRadarLog(entry *models.LoveRadarLog) error {
	return r.db.Create(entry).Error
}
