package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/postboard/internal/model"
)

// ErrNotFound 按 ID 查询不到记录
var ErrNotFound = errors.New("record not found")

// UserRepository 用户仓储接口
type UserRepository interface {
	// List 按 ID 升序返回全部用户
	List(ctx context.Context) ([]*model.User, error)

	// Get 不存在时返回 ErrNotFound
	Get(ctx context.Context, id int64) (*model.User, error)

	// Insert 写入并返回带 ID 的记录
	Insert(ctx context.Context, user *model.User) (*model.User, error)

	// Update 返回受影响行数
	Update(ctx context.Context, id int64, changes *model.User) (int64, error)

	// Remove 返回删除行数，0 表示不存在
	Remove(ctx context.Context, id int64) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Insert(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, changes *model.User) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(model.User{Name: changes.Name})
	return res.RowsAffected, res.Error
}

func (r *userRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
