package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/postboard/internal/model"
	"github.com/d60-Lab/postboard/internal/repository"
)

// PostInput 创建/更新帖子的请求体
type PostInput struct {
	Text   string `json:"text" validate:"required"`
	UserID int64  `json:"userId" validate:"required"`
}

// UserLookup 帖子写入前的作者存在性检查，可以是带缓存的实现
type UserLookup interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

// PostService 帖子服务
type PostService interface {
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id int64, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type postService struct {
	posts repository.PostRepository
	users UserLookup
}

func NewPostService(posts repository.PostRepository, users UserLookup) PostService {
	return &postService{posts: posts, users: users}
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) Get(ctx context.Context, id int64) (*model.Post, error) {
	p, err := s.posts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// checkPostInput 校验必填字段并确认作者存在；检查完成后才允许写入
func (s *postService) checkPostInput(ctx context.Context, in PostInput) error {
	if err := validate.Struct(in); err != nil {
		if firstFailedTag(err) != "" {
			return ErrPostFieldsRequired
		}
		return err
	}
	_, err := s.users.Get(ctx, in.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", in.UserID, err)
	}
	return nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	if err := s.checkPostInput(ctx, in); err != nil {
		return nil, err
	}
	p, err := s.posts.Insert(ctx, &model.Post{Text: in.Text, UserID: in.UserID})
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, id int64, in PostInput) (*model.Post, error) {
	if err := s.checkPostInput(ctx, in); err != nil {
		return nil, err
	}
	if _, err := s.posts.Update(ctx, id, &model.Post{Text: in.Text, UserID: in.UserID}); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	p, err := s.posts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reload post %d: %w", id, err)
	}
	return p, nil
}

func (s *postService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.posts.Remove(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("remove post %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}
