package repository

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type GormPictureRepository struct {
	db *gorm.DB
}

func NewGormPictureRepository(db *gorm.DB) PictureRepository {
	return &GormPictureRepository{db: db}
}

func (r *GormPictureRepository) Create(pic *models.Picture) error {
	return r.db.Create(pic).Error
}

func (r *GormPictureRepository) GetByID(id uint) (*models.Picture, error) {
	var pic models.Picture
	if err := r.db.First(&pic, id).Error; err != nil {
		return nil, err
	}
	return &pic, nil
}

// List returns pictures newest-first; limit <= 0 means no cap.
func (r *GormPictureRepository) List(limit int) ([]models.Picture, error) {
	var pics []models.Picture
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&pics).Error
	return pics, err
}

func (r *GormPictureRepository) ListByGacha(gachaID uint, limit int) ([]models.Picture, error) {
	var pics []models.Picture
	err := r.db.Where("gacha_id = ?", gachaID).Order("created_at DESC").Limit(limit).Find(&pics).Error
	return pics, err
}

func (r *GormPictureRepository) SetGachaID(pictureID uint, gachaID *uint) error {
	res := r.db.Model(&models.Picture{}).Where("id = ?", pictureID).Update("gacha_id", gachaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormPictureRepository) Delete(id uint) error {
	return r.db.Delete(&models.Picture{}, id).Error
}

// LeastLoadedItemID spreads uploads evenly across same-rarity items: the item
// with the fewest assigned pictures wins, ties broken by lowest id. The
// read-then-write around this call is intentionally not transactional; a
// concurrent race only produces a transient imbalance.
func (r *GormPictureRepository) LeastLoadedItemID(rarity models.Rarity) (uint, error) {
	query, args, err := psql.Select("gacha_items.id").
		From("gacha_items").
		LeftJoin("pictures ON pictures.gacha_id = gacha_items.id").
		Where(sq.Eq{"gacha_items.rarity": rarity}).
		GroupBy("gacha_items.id").
		OrderBy("COUNT(pictures.id) ASC", "gacha_items.id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build least-loaded query: %w", err)
	}

	var id uint
	row := r.db.Raw(query, args...).Row()
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoItemsForRarity
		}
		return 0, fmt.Errorf("least-loaded lookup for rarity %s: %w", rarity, err)
	}
	if id == 0 {
		return 0, ErrNoItemsForRarity
	}
	return id, nil
}
