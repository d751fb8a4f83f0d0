package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

type GormAdminRepository struct {
	db *gorm.DB
}

func NewGormAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) ListAll() ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.Order("id ASC").Find(&admins).Error
	return admins, err
}

func (r *GormAdminRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", id).Delete(&models.AdminSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Admin{}, id).Error
	})
}

func (r *GormAdminRepository) FirstID() (uint, error) {
	var admin models.Admin
	if err := r.db.Order("id ASC").First(&admin).Error; err != nil {
		return 0, err
	}
	return admin.ID, nil
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(adminID uint, token string, ttl time.Duration) (*models.AdminSession, error) {
	session := &models.AdminSession{
		AdminID:   adminID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (r *GormSessionRepository) GetAdminByToken(token string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.
		Joins("JOIN admin_sessions ON admin_sessions.admin_id = admins.id").
		Where("admin_sessions.token = ? AND admin_sessions.expires_at > ?", token, time.Now()).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *GormSessionRepository) PurgeExpired() error {
	err := r.db.Where("expires_at <= ?", time.Now()).Delete(&models.AdminSession{}).Error
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	return nil
}
