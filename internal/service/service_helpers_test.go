package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"webucket/internal/model"
	"webucket/internal/repo"
)

var dbSeq atomic.Int64

// testEnv wires real repositories over an in-memory SQLite so that the
// bucket/item/image services are exercised against actual SQL semantics.
type testEnv struct {
	db      *gorm.DB
	users   repo.UserRepository
	buckets repo.BucketRepository
	members repo.MembershipRepository
	items   repo.ItemRepository
	images  repo.ImageRepository

	userSvc   *UserService
	bucketSvc *BucketService
	itemSvc   *ItemService
	imageSvc  *ImageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared", dbSeq.Add(1))
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := &testEnv{
		db:      db,
		users:   repo.NewUserRepository(db),
		buckets: repo.NewBucketRepository(db),
		members: repo.NewMembershipRepository(db),
		items:   repo.NewItemRepository(db),
		images:  repo.NewImageRepository(db),
	}
	env.userSvc = NewUserService(env.users)
	env.bucketSvc = NewBucketService(env.buckets, env.members, env.items, env.users)
	env.itemSvc = NewItemService(env.items, env.buckets, env.members)
	env.imageSvc = NewImageService(env.images, env.buckets, env.items, env.members, 3)
	return env
}

func (e *testEnv) addUser(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := e.userSvc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func (e *testEnv) addBucket(t *testing.T, owner *model.User, title string) *model.Bucket {
	t.Helper()
	list, err := e.bucketSvc.Create(context.Background(), owner, title, "test bucket")
	if err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	for i := range list {
		if list[i].Title == title {
			return &list[i]
		}
	}
	t.Fatalf("created bucket %q missing from list", title)
	return nil
}

func (e *testEnv) addItem(t *testing.T, member *model.User, bucketID, title string, itemType model.ItemType) *ItemView {
	t.Helper()
	v, err := e.itemSvc.Add(context.Background(), member, bucketID, ItemInput{
		Title:    title,
		ItemType: string(itemType),
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return v
}
