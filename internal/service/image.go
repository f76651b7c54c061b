package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"webucket/internal/model"
	"webucket/internal/repo"
)

// ImageUpload carries one uploaded file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageService handles image attachments for users, buckets and items.
// Users and buckets hold at most one image (set replaces); items hold up to
// maxPerItem, after which ErrLimitExceeded.
type ImageService struct {
	images     repo.ImageRepository
	buckets    repo.BucketRepository
	items      repo.ItemRepository
	members    repo.MembershipRepository
	maxPerItem int
}

func NewImageService(
	images repo.ImageRepository,
	buckets repo.BucketRepository,
	items repo.ItemRepository,
	members repo.MembershipRepository,
	maxPerItem int,
) *ImageService {
	return &ImageService{images: images, buckets: buckets, items: items, members: members, maxPerItem: maxPerItem}
}

func userParentID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// SetUserImage replaces the user's profile image.
func (s *ImageService) SetUserImage(ctx context.Context, userID int64, up ImageUpload) (*model.Image, error) {
	img := s.newImage(model.ParentUser, userParentID(userID), up)
	if err := s.images.Replace(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// GetUserImage returns the user's profile image.
func (s *ImageService) GetUserImage(ctx context.Context, userID int64) (*model.Image, error) {
	return s.getByParent(ctx, model.ParentUser, userParentID(userID))
}

// SetBucketImage replaces the bucket's cover image. Member-only.
func (s *ImageService) SetBucketImage(ctx context.Context, requester *model.User, bucketID string, up ImageUpload) (*model.Image, error) {
	if err := s.requireBucketMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}
	img := s.newImage(model.ParentBucket, bucketID, up)
	if err := s.images.Replace(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// GetBucketImage returns the bucket's cover image. Member-only.
func (s *ImageService) GetBucketImage(ctx context.Context, requester *model.User, bucketID string) (*model.Image, error) {
	if err := s.requireBucketMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}
	return s.getByParent(ctx, model.ParentBucket, bucketID)
}

// AddItemImage appends an image to the item up to the per-item cap.
func (s *ImageService) AddItemImage(ctx context.Context, requester *model.User, itemID string, up ImageUpload) (*model.Image, error) {
	if err := s.requireItemMembership(ctx, requester, itemID); err != nil {
		return nil, err
	}
	count, err := s.images.CountForParent(ctx, model.ParentItem, itemID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.maxPerItem) {
		return nil, fmt.Errorf("item %s already holds %d images: %w", itemID, count, ErrLimitExceeded)
	}
	img := s.newImage(model.ParentItem, itemID, up)
	if err := s.images.Append(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// GetItemImage returns one of the item's images by id.
func (s *ImageService) GetItemImage(ctx context.Context, requester *model.User, itemID, imageID string) (*model.Image, error) {
	if err := s.requireItemMembership(ctx, requester, itemID); err != nil {
		return nil, err
	}
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("image %s: %w", imageID, ErrNotFound)
		}
		return nil, err
	}
	if img.ParentKind != model.ParentItem || img.ParentID != itemID {
		return nil, fmt.Errorf("image %s does not belong to item %s: %w", imageID, itemID, ErrNotFound)
	}
	return img, nil
}

// ListItemImages returns all of the item's images; ErrNotFound when empty.
func (s *ImageService) ListItemImages(ctx context.Context, requester *model.User, itemID string) ([]model.Image, error) {
	if err := s.requireItemMembership(ctx, requester, itemID); err != nil {
		return nil, err
	}
	imgs, err := s.images.ListForParent(ctx, model.ParentItem, itemID)
	if err != nil {
		return nil, err
	}
	if len(imgs) == 0 {
		return nil, fmt.Errorf("item %s has no images: %w", itemID, ErrNotFound)
	}
	return imgs, nil
}

func (s *ImageService) newImage(kind model.ParentKind, parentID string, up ImageUpload) *model.Image {
	return &model.Image{
		ID:          uuid.NewString(),
		ParentKind:  kind,
		ParentID:    parentID,
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Data:        up.Data,
	}
}

func (s *ImageService) getByParent(ctx context.Context, kind model.ParentKind, parentID string) (*model.Image, error) {
	img, err := s.images.GetByParent(ctx, kind, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no image for %s %s: %w", kind, parentID, ErrNotFound)
		}
		return nil, err
	}
	return img, nil
}

func (s *ImageService) requireBucketMembership(ctx context.Context, requester *model.User, bucketID string) error {
	if _, err := s.buckets.GetByID(ctx, bucketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("bucket %s: %w", bucketID, ErrNotFound)
		}
		return err
	}
	ok, err := s.members.IsMember(ctx, bucketID, requester.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %q is not a member of bucket %s: %w", requester.Username, bucketID, ErrUnauthorized)
	}
	return nil
}

func (s *ImageService) requireItemMembership(ctx context.Context, requester *model.User, itemID string) error {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return err
	}
	return s.requireBucketMembership(ctx, requester, it.BucketID)
}
