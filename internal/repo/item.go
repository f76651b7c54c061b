package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webucket/internal/model"
)

// ItemRepository is the access contract for Item rows and their per-user
// ratings and comments.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	ListByBucket(ctx context.Context, bucketID string) ([]model.Item, error)
	ListByBucketAndType(ctx context.Context, bucketID string, t model.ItemType) ([]model.Item, error)

	// Update applies a column map, stamps updated_at and returns the fresh row.
	Update(ctx context.Context, id string, updates map[string]any) (*model.Item, error)

	// Delete removes the item with its ratings, comments and images, atomically.
	Delete(ctx context.Context, id string) error

	// UpsertRating and UpsertComment insert or overwrite the row for the
	// (item, username) pair without touching other users' rows.
	UpsertRating(ctx context.Context, rating *model.ItemRating) error
	UpsertComment(ctx context.Context, comment *model.ItemComment) error

	ListRatings(ctx context.Context, itemIDs []string) ([]model.ItemRating, error)
	ListComments(ctx context.Context, itemIDs []string) ([]model.ItemComment, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	if tx := r.db.WithContext(ctx).Where("id = ?", id).First(&it); tx.Error != nil {
		return nil, tx.Error
	}
	return &it, nil
}

func (r *itemRepo) ListByBucket(ctx context.Context, bucketID string) ([]model.Item, error) {
	var items []model.Item
	tx := r.db.WithContext(ctx).
		Where("bucket_id = ?", bucketID).
		Order("created_at").
		Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (r *itemRepo) ListByBucketAndType(ctx context.Context, bucketID string, t model.ItemType) ([]model.Item, error) {
	var items []model.Item
	tx := r.db.WithContext(ctx).
		Where("bucket_id = ? AND item_type = ?", bucketID, t).
		Order("created_at").
		Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (r *itemRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.Item, error) {
	cols := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Updates(cols)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_kind = ? AND parent_id = ?", model.ParentItem, id).
			Delete(&model.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&model.ItemRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&model.ItemComment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Item{}).Error
	})
}

func (r *itemRepo) UpsertRating(ctx context.Context, rating *model.ItemRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"score"}),
	}).Create(rating).Error
}

func (r *itemRepo) UpsertComment(ctx context.Context, comment *model.ItemComment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"comment"}),
	}).Create(comment).Error
}

func (r *itemRepo) ListRatings(ctx context.Context, itemIDs []string) ([]model.ItemRating, error) {
	if len(itemIDs) == 0 {
		return []model.ItemRating{}, nil
	}
	var ratings []model.ItemRating
	tx := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&ratings)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ratings, nil
}

func (r *itemRepo) ListComments(ctx context.Context, itemIDs []string) ([]model.ItemComment, error) {
	if len(itemIDs) == 0 {
		return []model.ItemComment{}, nil
	}
	var comments []model.ItemComment
	tx := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&comments)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return comments, nil
}
