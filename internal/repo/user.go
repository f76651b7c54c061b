package repo

import (
	"context"

	"gorm.io/gorm"

	"webucket/internal/model"
)

// UserRepository is the access contract for User rows.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateUser applies a column map and returns the fresh row.
	UpdateUser(ctx context.Context, id int64, updates map[string]any) (*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if tx := r.db.WithContext(ctx).Create(user); tx.Error != nil {
		return nil, tx.Error
	}
	return user, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if tx := r.db.WithContext(ctx).First(&u, id); tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if tx := r.db.WithContext(ctx).Where("username = ?", username).First(&u); tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if tx := r.db.WithContext(ctx).Where("email = ?", email).First(&u); tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id int64, updates map[string]any) (*model.User, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetUserByID(ctx, id)
}
