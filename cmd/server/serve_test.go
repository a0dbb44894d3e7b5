package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/postboard/config"
	"github.com/d60-Lab/postboard/internal/testutil"
	"github.com/d60-Lab/postboard/pkg/logger"
)

func TestBuildHandlerWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: true, Addr: mr.Addr(), TTL: time.Minute},
	}
	db := testutil.NewDB(t)

	h, closeCache, err := buildHandler(context.Background(), cfg, db)
	require.NoError(t, err)
	defer closeCache()

	r := gin.New()
	r.POST("/api/users", h.CreateUser)
	r.POST("/api/posts", h.CreatePost)
	r.GET("/healthz", h.Health)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"treebeard"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// 作者检查走缓存，写入后 redis 中有该用户
	req = httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"text":"hoom","userId":1}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mr.Exists("user:1"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildHandlerRedisUnavailable(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: true, Addr: "127.0.0.1:1", TTL: time.Minute},
	}
	_, _, err := buildHandler(context.Background(), cfg, testutil.NewDB(t))
	assert.Error(t, err)
}

func TestCloseDBLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger.Set(zap.New(core))
	defer logger.Set(zap.NewNop())

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(errors.New("broken pipe"))
	closeDB(db)

	entries := logs.FilterMessage("close database").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "broken pipe", entries[0].ContextMap()["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
