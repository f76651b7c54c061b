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

// ItemView is an item together with its per-user ratings and comments,
// keyed by username.
type ItemView struct {
	model.Item
	Ratings  map[string]int    `json:"ratings"`
	Comments map[string]string `json:"comments"`
}

// ItemInput carries the fields for a new item.
type ItemInput struct {
	Title       string
	Description string
	Location    string
	ItemType    string
}

// ItemUpdate carries optional item fields; nil means leave untouched.
// Score and Comment merge into the requester's slot of the per-user mapping
// instead of overwriting a shared field.
type ItemUpdate struct {
	Title       *string
	Description *string
	Location    *string
	Complete    *bool
	Score       *int
	Comment     *string
}

// ItemService handles item lifecycle inside a bucket.
type ItemService struct {
	items   repo.ItemRepository
	buckets repo.BucketRepository
	members repo.MembershipRepository
}

func NewItemService(items repo.ItemRepository, buckets repo.BucketRepository, members repo.MembershipRepository) *ItemService {
	return &ItemService{items: items, buckets: buckets, members: members}
}

// Add creates an item inside the bucket. The requester must be a member.
func (s *ItemService) Add(ctx context.Context, requester *model.User, bucketID string, in ItemInput) (*ItemView, error) {
	if err := s.requireMembership(ctx, requester, bucketID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("item title cannot be empty: %w", ErrInvalidArgument)
	}
	itemType, err := model.ParseItemType(in.ItemType)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}

	it := &model.Item{
		ID:          uuid.NewString(),
		BucketID:    bucketID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		ItemType:    itemType,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	return &ItemView{Item: *it, Ratings: map[string]int{}, Comments: map[string]string{}}, nil
}

// Update applies a partial update. Score and comment upsert under the
// requester's username and never clobber other users' entries.
func (s *ItemService) Update(ctx context.Context, requester *model.User, itemID string, upd ItemUpdate) (*ItemView, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, it.BucketID); err != nil {
		return nil, err
	}

	if upd.Score != nil {
		r := &model.ItemRating{ItemID: it.ID, Username: requester.Username, Score: *upd.Score}
		if err := s.items.UpsertRating(ctx, r); err != nil {
			return nil, err
		}
	}
	if upd.Comment != nil {
		c := &model.ItemComment{ItemID: it.ID, Username: requester.Username, Comment: *upd.Comment}
		if err := s.items.UpsertComment(ctx, c); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.Complete != nil {
		updates["complete"] = *upd.Complete
	}

	it, err = s.items.Update(ctx, itemID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	views, err := s.buildViews(ctx, []model.Item{*it})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes the item and returns the remaining siblings of its type.
func (s *ItemService) Delete(ctx context.Context, requester *model.User, itemID string) ([]ItemView, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, it.BucketID); err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return nil, err
	}

	siblings, err := s.items.ListByBucketAndType(ctx, it.BucketID, it.ItemType)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, siblings)
}

// Get returns a single item view for a member of its parent bucket.
func (s *ItemService) Get(ctx context.Context, requester *model.User, itemID string) (*ItemView, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, requester, it.BucketID); err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, []model.Item{*it})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ItemService) getItem(ctx context.Context, itemID string) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (s *ItemService) requireMembership(ctx context.Context, requester *model.User, bucketID string) error {
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

func (s *ItemService) buildViews(ctx context.Context, items []model.Item) ([]ItemView, error) {
	return buildItemViews(ctx, s.items, items)
}

// buildItemViews attaches ratings and comments to items in two queries.
func buildItemViews(ctx context.Context, items repo.ItemRepository, list []model.Item) ([]ItemView, error) {
	ids := make([]string, 0, len(list))
	for _, it := range list {
		ids = append(ids, it.ID)
	}
	ratings, err := items.ListRatings(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := items.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	ratingsByItem := make(map[string]map[string]int)
	for _, r := range ratings {
		if ratingsByItem[r.ItemID] == nil {
			ratingsByItem[r.ItemID] = map[string]int{}
		}
		ratingsByItem[r.ItemID][r.Username] = r.Score
	}
	commentsByItem := make(map[string]map[string]string)
	for _, c := range comments {
		if commentsByItem[c.ItemID] == nil {
			commentsByItem[c.ItemID] = map[string]string{}
		}
		commentsByItem[c.ItemID][c.Username] = c.Comment
	}

	views := make([]ItemView, 0, len(list))
	for _, it := range list {
		v := ItemView{Item: it, Ratings: ratingsByItem[it.ID], Comments: commentsByItem[it.ID]}
		if v.Ratings == nil {
			v.Ratings = map[string]int{}
		}
		if v.Comments == nil {
			v.Comments = map[string]string{}
		}
		views = append(views, v)
	}
	return views, nil
}
