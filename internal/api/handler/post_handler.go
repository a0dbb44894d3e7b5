package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/postboard/internal/service"
	"github.com/d60-Lab/postboard/pkg/response"
)

const (
	msgPostNotFound       = "The post with the specified ID does not exist."
	msgPostFieldsRequired = "Please provide text and a userId for this post."
	msgPostFieldsOnUpdate = "Please provide text and userId for the post."
	msgPostUserMissing    = "userId does not exist"
	msgPostsListFailed    = "All posts information could not be retrieved."
	msgPostGetFailed      = "The post information could not be retrieved."
	msgPostSaveFailed     = "There was an error while saving the post to the database"
	msgPostRemoveFailed   = "The post could not be removed"
	msgPostModifyFailed   = "The post information could not be modified."
)

// ListPosts 全部帖子
// @Summary 帖子列表
// @Tags 帖子
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} map[string]string
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, msgPostsListFailed, err)
		return
	}
	response.OK(c, posts)
}

// GetPost 按 ID 查询帖子
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgPostNotFound)
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgPostNotFound)
	case err != nil:
		response.InternalError(c, msgPostGetFailed, err)
	default:
		response.OK(c, post)
	}
}

// CreatePost 创建帖子；作者不存在时拒绝，且不写入
// @Summary 创建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body service.PostInput true "帖子内容"
// @Success 201 {object} model.Post
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.PostInput
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrPostFieldsRequired):
		response.BadRequest(c, msgPostFieldsRequired)
	case errors.Is(err, service.ErrUserNotFound):
		response.Message(c, http.StatusBadRequest, msgPostUserMissing)
	case err != nil:
		response.InternalError(c, msgPostSaveFailed, err)
	default:
		response.Created(c, post)
	}
}

// UpdatePost 修改帖子内容与作者
// @Summary 更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param request body service.PostInput true "帖子内容"
// @Success 200 {object} model.Post
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req service.PostInput
	if !bindJSON(c, &req) {
		return
	}
	if req.Text == "" || req.UserID == 0 {
		response.BadRequest(c, msgPostFieldsOnUpdate)
		return
	}
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgPostNotFound)
		return
	}
	post, err := h.postService.Update(c.Request.Context(), id, req)
	switch {
	case errors.Is(err, service.ErrPostFieldsRequired):
		response.BadRequest(c, msgPostFieldsOnUpdate)
	case errors.Is(err, service.ErrUserNotFound):
		response.Message(c, http.StatusBadRequest, msgPostUserMissing)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgPostNotFound)
	case err != nil:
		response.InternalError(c, msgPostModifyFailed, err)
	default:
		response.OK(c, post)
	}
}

// DeletePost 删除帖子，成功时返回删除行数
// @Summary 删除帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {integer} int
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.NotFound(c, msgPostNotFound)
		return
	}
	removed, err := h.postService.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msgPostNotFound)
	case err != nil:
		response.InternalError(c, msgPostRemoveFailed, err)
	default:
		response.OK(c, removed)
	}
}
