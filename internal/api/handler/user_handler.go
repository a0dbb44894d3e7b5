package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/postboard/internal/service"
	"github.com/d60-Lab/postboard/pkg/response"
)

const (
	msgUserNotFound     = "The user with the specified ID does not exist."
	msgUserNameRequired = "Please provide name for user."
	msgUserNameOnUpdate = "Please provide name for the user."
	msgUserNameTooLong  = "User name must be less than 128 characters"
	msgUsersListFailed  = "All users information could not be retrieved."
	msgUserGetFailed    = "The user information could not be retrieved."
	msgUserSaveFailed   = "There was an error while saving the user to the database"
	msgUserRemoveFailed = "The user could not be removed"
	msgUserModifyFailed = "The user information could not be modified."
	msgUserPostsFailed  = "The user's posts could not be retrieved."
)

// ListUsers 全部用户
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} map[string]string
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, msgUsersListFailed, err)
		return
	}
	response.OK(c, users)
}

// GetUser 按 ID 查询用户
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgUserNotFound)
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgUserNotFound)
	case err != nil:
		response.InternalError(c, msgUserGetFailed, err)
	default:
		response.OK(c, user)
	}
}

// CreateUser 创建用户，名字以大写存储
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.UserInput true "用户信息"
// @Success 201 {object} model.User
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req service.UserInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrNameRequired):
		response.BadRequest(c, msgUserNameRequired)
	case errors.Is(err, service.ErrNameTooLong):
		response.Error(c, http.StatusBadRequest, msgUserNameTooLong)
	case err != nil:
		response.InternalError(c, msgUserSaveFailed, err)
	default:
		response.Created(c, user)
	}
}

// UpdateUser 修改用户名，返回修改后的记录
// @Summary 更新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param request body service.UserInput true "用户信息"
// @Success 200 {object} model.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	var req service.UserInput
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == "" {
		response.BadRequest(c, msgUserNameOnUpdate)
		return
	}
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgUserNotFound)
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req)
	switch {
	case errors.Is(err, service.ErrNameRequired):
		response.BadRequest(c, msgUserNameOnUpdate)
	case errors.Is(err, service.ErrNameTooLong):
		response.Error(c, http.StatusBadRequest, msgUserNameTooLong)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgUserNotFound)
	case err != nil:
		response.InternalError(c, msgUserModifyFailed, err)
	default:
		response.OK(c, user)
	}
}

// DeleteUser 删除用户，成功时返回删除行数；不会删除该用户的帖子
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {integer} int
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgUserNotFound)
		return
	}
	removed, err := h.userService.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgUserNotFound)
	case err != nil:
		response.InternalError(c, msgUserRemoveFailed, err)
	default:
		response.OK(c, removed)
	}
}

// ListUserPosts 某用户的全部帖子
// @Summary 用户帖子列表
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {array} model.Post
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/users/{id}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgUserNotFound)
		return
	}
	posts, err := h.userService.ListPosts(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgUserNotFound)
	case err != nil:
		response.InternalError(c, msgUserPostsFailed, err)
	default:
		response.OK(c, posts)
	}
}
