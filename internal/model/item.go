package model

import (
	"fmt"
	"time"
)

// ItemType is the closed set of item categories.
type ItemType string

const (
	ItemTypeActivity ItemType = "activity"
	ItemTypeMedia    ItemType = "media"
	ItemTypeFood     ItemType = "food"
)

// ParseItemType validates a raw type tag.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeActivity, ItemTypeMedia, ItemTypeFood:
		return ItemType(s), nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// Item is a single entry inside a bucket. BucketID never changes after create.
type Item struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	BucketID string `gorm:"not null;index;type:uuid" json:"bucket_id"`

	Title       string   `gorm:"not null" json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	ItemType    ItemType `gorm:"not null;index" json:"item_type"`
	Complete    bool     `gorm:"not null;default:false" json:"complete"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemRating holds one user's score for an item, one row per (item, username).
type ItemRating struct {
	ItemID   string `gorm:"primaryKey;type:uuid" json:"item_id"`
	Username string `gorm:"primaryKey" json:"username"`
	Score    int    `gorm:"not null" json:"score"`
}

// ItemComment holds one user's comment for an item, one row per (item, username).
type ItemComment struct {
	ItemID   string `gorm:"primaryKey;type:uuid" json:"item_id"`
	Username string `gorm:"primaryKey" json:"username"`
	Comment  string `gorm:"not null" json:"comment"`
}
