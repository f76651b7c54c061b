package repo

import (
	"context"

	"gorm.io/gorm"

	"webucket/internal/model"
)

// MembershipRepository wraps the users-to-buckets link table so that the
// one-row-per-(bucket, user) invariant stays out of handler code.
type MembershipRepository interface {
	AddMember(ctx context.Context, bucketID string, userID int64) error
	RemoveMember(ctx context.Context, bucketID string, userID int64) error
	IsMember(ctx context.Context, bucketID string, userID int64) (bool, error)
	ListMembers(ctx context.Context, bucketID string) ([]model.User, error)
}

type membershipRepo struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) AddMember(ctx context.Context, bucketID string, userID int64) error {
	return r.db.WithContext(ctx).Create(&model.BucketMember{BucketID: bucketID, UserID: userID}).Error
}

func (r *membershipRepo) RemoveMember(ctx context.Context, bucketID string, userID int64) error {
	return r.db.WithContext(ctx).
		Where("bucket_id = ? AND user_id = ?", bucketID, userID).
		Delete(&model.BucketMember{}).Error
}

func (r *membershipRepo) IsMember(ctx context.Context, bucketID string, userID int64) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.BucketMember{}).
		Where("bucket_id = ? AND user_id = ?", bucketID, userID).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (r *membershipRepo) ListMembers(ctx context.Context, bucketID string) ([]model.User, error) {
	var users []model.User
	tx := r.db.WithContext(ctx).
		Joins("JOIN bucket_members bm ON bm.user_id = users.id").
		Where("bm.bucket_id = ?", bucketID).
		Order("users.id").
		Find(&users)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}
