package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"webucket/internal/model"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "hash"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestBucketRepository_CreateAddsOwnerMembership(t *testing.T) {
	db := newTestDB(t)
	buckets := NewBucketRepository(db)
	members := NewMembershipRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "yoda")
	b := &model.Bucket{ID: uuid.NewString(), Title: "First Bucket", OwnerID: owner.ID}
	assert.NoError(t, buckets.Create(ctx, b))

	ok, err := members.IsMember(ctx, b.ID, owner.ID)
	assert.NoError(t, err)
	assert.True(t, ok, "owner must be the first member")

	list, err := buckets.ListForUser(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "First Bucket", list[0].Title)
}

func TestBucketRepository_ListForUserSeesJoinedBuckets(t *testing.T) {
	db := newTestDB(t)
	buckets := NewBucketRepository(db)
	members := NewMembershipRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "yoda")
	guest := seedUser(t, db, "vader")

	b := &model.Bucket{ID: uuid.NewString(), Title: "Shared", OwnerID: owner.ID}
	assert.NoError(t, buckets.Create(ctx, b))

	// guest not a member yet
	list, err := buckets.ListForUser(ctx, guest.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 0)

	assert.NoError(t, members.AddMember(ctx, b.ID, guest.ID))

	list, err = buckets.ListForUser(ctx, guest.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	users, err := members.ListMembers(ctx, b.ID)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestMembershipRepository_DuplicatePairRejected(t *testing.T) {
	db := newTestDB(t)
	buckets := NewBucketRepository(db)
	members := NewMembershipRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "yoda")
	guest := seedUser(t, db, "vader")
	b := &model.Bucket{ID: uuid.NewString(), Title: "Shared", OwnerID: owner.ID}
	assert.NoError(t, buckets.Create(ctx, b))

	assert.NoError(t, members.AddMember(ctx, b.ID, guest.ID))
	assert.Error(t, members.AddMember(ctx, b.ID, guest.ID), "composite key must reject the duplicate pair")

	assert.NoError(t, members.RemoveMember(ctx, b.ID, guest.ID))
	ok, err := members.IsMember(ctx, b.ID, guest.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBucketRepository_Update(t *testing.T) {
	db := newTestDB(t)
	buckets := NewBucketRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "yoda")
	b := &model.Bucket{ID: uuid.NewString(), Title: "Old", Description: "keep me", OwnerID: owner.ID}
	assert.NoError(t, buckets.Create(ctx, b))

	got, err := buckets.Update(ctx, b.ID, map[string]any{"title": "New"})
	assert.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep me", got.Description)
	assert.False(t, got.UpdatedAt.Before(b.UpdatedAt))

	_, err = buckets.Update(ctx, uuid.NewString(), map[string]any{"title": "X"})
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestBucketRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	buckets := NewBucketRepository(db)
	members := NewMembershipRepository(db)
	items := NewItemRepository(db)
	images := NewImageRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "yoda")
	b := &model.Bucket{ID: uuid.NewString(), Title: "Doomed", OwnerID: owner.ID}
	assert.NoError(t, buckets.Create(ctx, b))

	it := &model.Item{ID: uuid.NewString(), BucketID: b.ID, Title: "hike", ItemType: model.ItemTypeActivity}
	assert.NoError(t, items.Create(ctx, it))
	assert.NoError(t, items.UpsertRating(ctx, &model.ItemRating{ItemID: it.ID, Username: "yoda", Score: 5}))
	assert.NoError(t, items.UpsertComment(ctx, &model.ItemComment{ItemID: it.ID, Username: "yoda", Comment: "fun"}))
	assert.NoError(t, images.Append(ctx, &model.Image{
		ID: uuid.NewString(), ParentKind: model.ParentItem, ParentID: it.ID,
		Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte{1},
	}))
	assert.NoError(t, images.Replace(ctx, &model.Image{
		ID: uuid.NewString(), ParentKind: model.ParentBucket, ParentID: b.ID,
		Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte{2},
	}))

	assert.NoError(t, buckets.Delete(ctx, b.ID))

	_, err := buckets.GetByID(ctx, b.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
	_, err = items.GetByID(ctx, it.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	ratings, err := items.ListRatings(ctx, []string{it.ID})
	assert.NoError(t, err)
	assert.Len(t, ratings, 0)

	count, err := images.CountForParent(ctx, model.ParentItem, it.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)
	count, err = images.CountForParent(ctx, model.ParentBucket, b.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)

	ok, err := members.IsMember(ctx, b.ID, owner.ID)
	assert.NoError(t, err)
	assert.False(t, ok, "membership rows must go with the bucket")
}
