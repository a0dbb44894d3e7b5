// Package cache holds redis-backed decorators for the repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/postboard/internal/model"
	"github.com/d60-Lab/postboard/internal/repository"
	"github.com/d60-Lab/postboard/pkg/logger"
	"github.com/d60-Lab/postboard/pkg/metrics"
)

// UserRepository 单个用户走 redis 读穿透，写操作后失效；redis 故障时回落到下层仓储。
// 每个用户有一个代数键，失效时递增；回填只在读库期间代数未变时写入。
type UserRepository struct {
	next  repository.UserRepository
	cache redis.UniversalClient
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

var _ repository.UserRepository = (*UserRepository)(nil)

// errStale 回填期间发生过失效
var errStale = errors.New("user cache entry invalidated during fill")

func NewUserRepository(next repository.UserRepository, cache redis.UniversalClient, ttl time.Duration) *UserRepository {
	return &UserRepository{next: next, cache: cache, ttl: ttl}
}

func userKey(id int64) string { return fmt.Sprintf("user:%d", id) }

func genKey(id int64) string { return fmt.Sprintf("user:%d:gen", id) }

// genTTL 代数键比缓存条目活得久，避免进行中的回填看到代数归零
func (r *UserRepository) genTTL() time.Duration {
	if d := 2 * r.ttl; d > time.Minute {
		return d
	}
	return time.Minute
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.next.List(ctx)
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	key := userKey(id)
	data, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u model.User
		if uErr := json.Unmarshal(data, &u); uErr == nil {
			r.hits.Add(1)
			metrics.CacheHit()
			return &u, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		metrics.CacheError()
		logger.Warn("user cache read failed", zap.String("key", key), zap.Error(err))
	}

	r.misses.Add(1)
	metrics.CacheMiss()

	// 先取代数再读库，顺序不能颠倒
	gen, genErr := r.generation(ctx, id)
	u, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return u, nil
	}
	if err := r.fill(ctx, u, gen); err != nil {
		logger.Warn("user cache write failed", zap.String("key", key), zap.Error(err))
	}
	return u, nil
}

func (r *UserRepository) generation(ctx context.Context, id int64) (int64, error) {
	gen, err := r.cache.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill 在 WATCH 保护下回填：代数与读库前一致才写入，否则放弃
func (r *UserRepository) fill(ctx context.Context, u *model.User, gen int64) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	gk := genKey(u.ID)
	err = r.cache.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if errors.Is(err, redis.Nil) {
			cur = 0
		} else if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, userKey(u.ID), payload, r.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (r *UserRepository) Insert(ctx context.Context, user *model.User) (*model.User, error) {
	return r.next.Insert(ctx, user)
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes *model.User) (int64, error) {
	n, err := r.next.Update(ctx, id, changes)
	r.invalidate(ctx, id)
	return n, err
}

func (r *UserRepository) Remove(ctx context.Context, id int64) (int64, error) {
	n, err := r.next.Remove(ctx, id)
	r.invalidate(ctx, id)
	return n, err
}

// invalidate 递增代数并删除条目，进行中的回填因此失效
func (r *UserRepository) invalidate(ctx context.Context, id int64) {
	gk := genKey(id)
	_, err := r.cache.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, gk)
		p.Expire(ctx, gk, r.genTTL())
		p.Del(ctx, userKey(id))
		return nil
	})
	if err != nil {
		logger.Warn("user cache invalidate failed", zap.Int64("user_id", id), zap.Error(err))
	}
}

// Counters 自创建或上次重置以来的命中/未命中次数
func (r *UserRepository) Counters() Counters {
	return Counters{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// ResetCounters 清零计数
func (r *UserRepository) ResetCounters() {
	r.hits.Store(0)
	r.misses.Store(0)
}

// Counters 缓存命中统计
type Counters struct {
	Hits   int64
	Misses int64
}
