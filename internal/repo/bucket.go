package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"webucket/internal/model"
)

// BucketRepository is the access contract for Bucket rows.
type BucketRepository interface {
	// Create inserts the bucket and its owner's membership row in one transaction.
	Create(ctx context.Context, b *model.Bucket) error

	GetByID(ctx context.Context, id string) (*model.Bucket, error)

	// ListForUser returns every bucket the user is a member of, owned or joined.
	ListForUser(ctx context.Context, userID int64) ([]model.Bucket, error)

	// Update applies a column map, stamps updated_at and returns the fresh row.
	Update(ctx context.Context, id string, updates map[string]any) (*model.Bucket, error)

	// Delete removes the bucket with all of its items, their ratings, comments
	// and images, the bucket image and the membership rows, atomically.
	Delete(ctx context.Context, id string) error
}

type bucketRepo struct {
	db *gorm.DB
}

func NewBucketRepository(db *gorm.DB) BucketRepository {
	return &bucketRepo{db: db}
}

func (r *bucketRepo) Create(ctx context.Context, b *model.Bucket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return tx.Create(&model.BucketMember{BucketID: b.ID, UserID: b.OwnerID}).Error
	})
}

func (r *bucketRepo) GetByID(ctx context.Context, id string) (*model.Bucket, error) {
	var b model.Bucket
	if tx := r.db.WithContext(ctx).Where("id = ?", id).First(&b); tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *bucketRepo) ListForUser(ctx context.Context, userID int64) ([]model.Bucket, error) {
	var buckets []model.Bucket
	tx := r.db.WithContext(ctx).
		Joins("JOIN bucket_members bm ON bm.bucket_id = buckets.id").
		Where("bm.user_id = ?", userID).
		Order("buckets.created_at").
		Find(&buckets)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return buckets, nil
}

func (r *bucketRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.Bucket, error) {
	cols := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).Model(&model.Bucket{}).Where("id = ?", id).Updates(cols)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *bucketRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&model.Item{}).Select("id").Where("bucket_id = ?", id)

		if err := tx.Where("parent_kind = ? AND parent_id IN (?)", model.ParentItem, itemIDs).
			Delete(&model.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&model.ItemRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&model.ItemComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bucket_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_kind = ? AND parent_id = ?", model.ParentBucket, id).
			Delete(&model.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bucket_id = ?", id).Delete(&model.BucketMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Bucket{}).Error
	})
}
