package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d60-Lab/postboard/internal/model"
	"github.com/d60-Lab/postboard/internal/repository"
)

// UserInput 创建/更新用户的请求体
type UserInput struct {
	Name string `json:"name" validate:"required,max=128"`
}

// NormalizeName 返回名字转为大写后的新值，不修改入参
func NormalizeName(in UserInput) UserInput {
	return UserInput{Name: strings.ToUpper(in.Name)}
}

// checkUserInput 先判必填，再规范化，最后按规范化后的值校验长度
func checkUserInput(in UserInput) (UserInput, error) {
	if in.Name == "" {
		return UserInput{}, ErrNameRequired
	}
	out := NormalizeName(in)
	if err := validate.Struct(out); err != nil {
		switch firstFailedTag(err) {
		case "max":
			return UserInput{}, ErrNameTooLong
		case "required":
			return UserInput{}, ErrNameRequired
		}
		return UserInput{}, err
	}
	return out, nil
}

// UserService 用户服务
type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Update(ctx context.Context, id int64, in UserInput) (*model.User, error)
	Delete(ctx context.Context, id int64) (int64, error)
	ListPosts(ctx context.Context, id int64) ([]*model.Post, error)
}

type userService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository) UserService {
	return &userService{users: users, posts: posts}
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	in, err := checkUserInput(in)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Insert(ctx, &model.User{Name: in.Name})
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Update 先写后读，读不到视为不存在
func (s *userService) Update(ctx context.Context, id int64, in UserInput) (*model.User, error) {
	in, err := checkUserInput(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Update(ctx, id, &model.User{Name: in.Name}); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reload user %d: %w", id, err)
	}
	return u, nil
}

// Delete 返回删除行数，0 时返回 ErrNotFound
func (s *userService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.users.Remove(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("remove user %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func (s *userService) ListPosts(ctx context.Context, id int64) ([]*model.Post, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.posts.ListByUser(ctx, id)
}
