package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/postboard/internal/model"
	"github.com/d60-Lab/postboard/internal/repository"
	"github.com/d60-Lab/postboard/internal/service"
	"github.com/d60-Lab/postboard/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errStore = errors.New("store unavailable")

// brokenUsers 所有调用都失败
type brokenUsers struct{}

func (brokenUsers) List(context.Context) ([]*model.User, error) { return nil, errStore }
func (brokenUsers) Get(context.Context, int64) (*model.User, error) { return nil, errStore }
func (brokenUsers) Remove(context.Context, int64) (int64, error) { return 0, errStore }
func (brokenUsers) Insert(context.Context, *model.User) (*model.User, error) {
	return nil, errStore
}
func (brokenUsers) Update(context.Context, int64, *model.User) (int64, error) {
	return 0, errStore
}

type brokenPosts struct{}

func (brokenPosts) List(context.Context) ([]*model.Post, error) { return nil, errStore }
func (brokenPosts) ListByUser(context.Context, int64) ([]*model.Post, error) { return nil, errStore }
func (brokenPosts) Get(context.Context, int64) (*model.Post, error) { return nil, errStore }
func (brokenPosts) Remove(context.Context, int64) (int64, error) { return 0, errStore }
func (brokenPosts) Insert(context.Context, *model.Post) (*model.Post, error) {
	return nil, errStore
}
func (brokenPosts) Update(context.Context, int64, *model.Post) (int64, error) {
	return 0, errStore
}

func newEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Home)
	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)
	api.GET("/users/:id/posts", h.ListUserPosts)
	api.GET("/posts", h.ListPosts)
	api.POST("/posts", h.CreatePost)
	api.GET("/posts/:id", h.GetPost)
	api.PUT("/posts/:id", h.UpdatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	return r
}

type fixture struct {
	engine *gin.Engine
	users  repository.UserRepository
	posts  repository.PostRepository
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	h := New(service.NewUserService(users, posts), service.NewPostService(posts, users), nil)
	return fixture{engine: newEngine(h), users: users, posts: posts}
}

func newBrokenEngine() *gin.Engine {
	var users brokenUsers
	var posts brokenPosts
	h := New(service.NewUserService(users, posts), service.NewPostService(posts, users), func(context.Context) error {
		return errStore
	})
	return newEngine(h)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (f fixture) seedUser(t *testing.T, name string) *model.User {
	u, err := f.users.Insert(context.Background(), &model.User{Name: name})
	require.NoError(t, err)
	return u
}

func (f fixture) seedPost(t *testing.T, text string, userID int64) *model.Post {
	p, err := f.posts.Insert(context.Background(), &model.Post{Text: text, UserID: userID})
	require.NoError(t, err)
	return p
}

func TestHome(t *testing.T) {
	w := do(newFixture(t).engine, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You are HOME!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHealth(t *testing.T) {
	w := do(newFixture(t).engine, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(newBrokenEngine(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPathID(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/api/users/abc", "/api/users/-1", "/api/users/0", "/api/users/1.5"} {
		w := do(f.engine, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"message":"The user with the specified ID does not exist."}`, w.Body.String(), path)
	}
	w := do(f.engine, http.MethodDelete, "/api/posts/xyz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBrokenStoreReturns500(t *testing.T) {
	r := newBrokenEngine()
	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/api/users", "", "All users information could not be retrieved."},
		{http.MethodGet, "/api/users/1", "", "The user information could not be retrieved."},
		{http.MethodPost, "/api/users", `{"name":"frodo"}`, "There was an error while saving the user to the database"},
		{http.MethodPut, "/api/users/1", `{"name":"frodo"}`, "The user information could not be modified."},
		{http.MethodDelete, "/api/users/1", "", "The user could not be removed"},
		{http.MethodGet, "/api/users/1/posts", "", "The user's posts could not be retrieved."},
		{http.MethodGet, "/api/posts", "", "All posts information could not be retrieved."},
		{http.MethodGet, "/api/posts/1", "", "The post information could not be retrieved."},
		{http.MethodPost, "/api/posts", `{"text":"hi","userId":1}`, "There was an error while saving the post to the database"},
		{http.MethodPut, "/api/posts/1", `{"text":"hi","userId":1}`, "The post information could not be modified."},
		{http.MethodDelete, "/api/posts/1", "", "The post could not be removed"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"error": tc.msg}, body)
		})
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	f := newFixture(t)
	w := do(f.engine, http.MethodPost, "/api/users", `{"name":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body."}`, w.Body.String())
}
