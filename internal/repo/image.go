package repo

import (
	"context"

	"gorm.io/gorm"

	"webucket/internal/model"
)

// ImageRepository is the access contract for stored image blobs.
type ImageRepository interface {
	// Replace removes any existing image of the parent and inserts the new one
	// in a single transaction. Used for parents that hold at most one image.
	Replace(ctx context.Context, img *model.Image) error

	// Append inserts without touching existing rows. Used for item images.
	Append(ctx context.Context, img *model.Image) error

	CountForParent(ctx context.Context, kind model.ParentKind, parentID string) (int64, error)
	GetByParent(ctx context.Context, kind model.ParentKind, parentID string) (*model.Image, error)
	GetByID(ctx context.Context, id string) (*model.Image, error)
	ListForParent(ctx context.Context, kind model.ParentKind, parentID string) ([]model.Image, error)
}

type imageRepo struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) Replace(ctx context.Context, img *model.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_kind = ? AND parent_id = ?", img.ParentKind, img.ParentID).
			Delete(&model.Image{}).Error; err != nil {
			return err
		}
		return tx.Create(img).Error
	})
}

func (r *imageRepo) Append(ctx context.Context, img *model.Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *imageRepo) CountForParent(ctx context.Context, kind model.ParentKind, parentID string) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.Image{}).
		Where("parent_kind = ? AND parent_id = ?", kind, parentID).
		Count(&count)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return count, nil
}

func (r *imageRepo) GetByParent(ctx context.Context, kind model.ParentKind, parentID string) (*model.Image, error) {
	var img model.Image
	tx := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ?", kind, parentID).
		First(&img)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &img, nil
}

func (r *imageRepo) GetByID(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	if tx := r.db.WithContext(ctx).Where("id = ?", id).First(&img); tx.Error != nil {
		return nil, tx.Error
	}
	return &img, nil
}

func (r *imageRepo) ListForParent(ctx context.Context, kind model.ParentKind, parentID string) ([]model.Image, error) {
	var imgs []model.Image
	tx := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ?", kind, parentID).
		Order("created_at").
		Find(&imgs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return imgs, nil
}
