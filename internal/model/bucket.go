package model

import "time"

// Bucket is a shared collection of items. The owner is always a member; other
// users join through BucketMember rows.
type Bucket struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	OwnerID    int64 `gorm:"not null;index" json:"owner_id"`
	Bookmarked bool  `gorm:"not null;default:false" json:"bookmarked"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BucketMember is the join row between users and buckets. The composite
// primary key keeps a (bucket, user) pair unique.
type BucketMember struct {
	BucketID string `gorm:"primaryKey;type:uuid" json:"bucket_id"`
	UserID   int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
}
