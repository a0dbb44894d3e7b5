package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/postboard/internal/model"
)

// PostRepository 帖子仓储接口
type PostRepository interface {
	List(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Post, error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	Insert(ctx context.Context, post *model.Post) (*model.Post, error)
	Update(ctx context.Context, id int64, changes *model.Post) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Get(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Insert(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, changes *model.Post) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Updates(model.Post{Text: changes.Text, UserID: changes.UserID})
	return res.RowsAffected, res.Error
}

func (r *postRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	return res.RowsAffected, res.Error
}
