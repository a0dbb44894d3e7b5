package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/postboard/internal/model"
)

func TestInitSchemaIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:schema_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, InitSchema(db))
	require.NoError(t, InitSchema(db))

	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasTable(&model.Post{}))
	assert.True(t, db.Migrator().HasIndex(&model.Post{}, "idx_post_user"))

	_, err = NewUserRepository(db).Insert(context.Background(), &model.User{Name: "RADAGAST"})
	assert.NoError(t, err)
}
