package model

import "time"

// ParentKind names the entity an image is attached to.
type ParentKind string

const (
	ParentUser   ParentKind = "user"
	ParentBucket ParentKind = "bucket"
	ParentItem   ParentKind = "item"
)

// Image is a stored binary attachment. Users and buckets hold at most one;
// items hold up to the configured cap.
type Image struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	ParentKind ParentKind `gorm:"not null;index:idx_image_parent" json:"parent_kind"`
	ParentID   string     `gorm:"not null;index:idx_image_parent" json:"parent_id"`

	Filename    string `gorm:"not null" json:"filename"`
	ContentType string `gorm:"not null" json:"content_type"`
	Data        []byte `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
