package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"webucket/internal/model"
	"webucket/internal/repo"
)

const maxTitleLen = 50

// BucketView is a bucket together with its items grouped by type.
type BucketView struct {
	Bucket   *model.Bucket `json:"bucket"`
	Activity []ItemView    `json:"activity"`
	Media    []ItemView    `json:"media"`
	Food     []ItemView    `json:"food"`
}

// BucketUpdate carries optional bucket fields; nil means leave untouched.
type BucketUpdate struct {
	Title       *string
	Description *string
	Bookmarked  *bool
}

// BucketService handles bucket lifecycle and membership rules.
type BucketService struct {
	buckets repo.BucketRepository
	members repo.MembershipRepository
	items   repo.ItemRepository
	users   repo.UserRepository
}

func NewBucketService(
	buckets repo.BucketRepository,
	members repo.MembershipRepository,
	items repo.ItemRepository,
	users repo.UserRepository,
) *BucketService {
	return &BucketService{buckets: buckets, members: members, items: items, users: users}
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("bucket title cannot be empty: %w", ErrInvalidArgument)
	}
	if len([]rune(title)) > maxTitleLen {
		return fmt.Errorf("bucket title cannot exceed %d characters: %w", maxTitleLen, ErrInvalidArgument)
	}
	return nil
}

// Create persists a bucket with the owner as sole initial member and returns
// the owner's full bucket list, which callers rely on.
func (s *BucketService) Create(ctx context.Context, owner *model.User, title, description string) ([]model.Bucket, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	b := &model.Bucket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		OwnerID:     owner.ID,
	}
	if err := s.buckets.Create(ctx, b); err != nil {
		return nil, err
	}
	return s.buckets.ListForUser(ctx, owner.ID)
}

// ListForUser returns every bucket the user is a member of.
func (s *BucketService) ListForUser(ctx context.Context, userID int64) ([]model.Bucket, error) {
	return s.buckets.ListForUser(ctx, userID)
}

// Get returns the bucket with its items grouped by type. Member-only.
func (s *BucketService) Get(ctx context.Context, requester *model.User, bucketID string) (*BucketView, error) {
	b, err := s.getBucket(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByBucket(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	views, err := buildItemViews(ctx, s.items, items)
	if err != nil {
		return nil, err
	}

	view := &BucketView{Bucket: b, Activity: []ItemView{}, Media: []ItemView{}, Food: []ItemView{}}
	for _, v := range views {
		switch v.ItemType {
		case model.ItemTypeActivity:
			view.Activity = append(view.Activity, v)
		case model.ItemTypeMedia:
			view.Media = append(view.Media, v)
		case model.ItemTypeFood:
			view.Food = append(view.Food, v)
		}
	}
	return view, nil
}

// AddMember appends a user to the bucket and returns the updated member list.
func (s *BucketService) AddMember(ctx context.Context, requester *model.User, bucketID, username string) ([]model.User, error) {
	if _, err := s.getBucket(ctx, bucketID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}

	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}

	already, err := s.members.IsMember(ctx, bucketID, target.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf("user %q is already a member of bucket %s: %w", username, bucketID, ErrConflict)
	}

	if err := s.members.AddMember(ctx, bucketID, target.ID); err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, bucketID)
}

// Members returns the member list. Member-only.
func (s *BucketService) Members(ctx context.Context, requester *model.User, bucketID string) ([]model.User, error) {
	if _, err := s.getBucket(ctx, bucketID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, bucketID)
}

// Update applies a partial update and returns the updated bucket. Absent
// fields are left untouched; a provided title is validated.
func (s *BucketService) Update(ctx context.Context, requester *model.User, bucketID string, upd BucketUpdate) (*model.Bucket, error) {
	if _, err := s.getBucket(ctx, bucketID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Bookmarked != nil {
		updates["bookmarked"] = *upd.Bookmarked
	}

	b, err := s.buckets.Update(ctx, bucketID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bucket %s: %w", bucketID, ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

// Delete removes the bucket with all of its items and images. Owner-only.
// Returns the requester's remaining bucket list.
func (s *BucketService) Delete(ctx context.Context, requester *model.User, bucketID string) ([]model.Bucket, error) {
	b, err := s.getBucket(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != requester.ID {
		return nil, fmt.Errorf("user %q does not own bucket %s: %w", requester.Username, bucketID, ErrUnauthorized)
	}

	if err := s.buckets.Delete(ctx, bucketID); err != nil {
		return nil, err
	}
	return s.buckets.ListForUser(ctx, requester.ID)
}

func (s *BucketService) getBucket(ctx context.Context, bucketID string) (*model.Bucket, error) {
	b, err := s.buckets.GetByID(ctx, bucketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bucket %s: %w", bucketID, ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *BucketService) requireMembership(ctx context.Context, requester *model.User, bucketID string) error {
	ok, err := s.members.IsMember(ctx, bucketID, requester.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %q is not a member of bucket %s: %w", requester.Username, bucketID, ErrUnauthorized)
	}
	return nil
}
