// Command storebench measures store latency for the users and posts paths,
// with and without the redis user cache in front of the author lookup.
//
// Env: N (requests per scenario), CONC (workers), REDIS_ADDR (real redis;
// an in-process miniredis is used when empty).
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/postboard/config"
	usercache "github.com/d60-Lab/postboard/internal/cache"
	"github.com/d60-Lab/postboard/internal/model"
	"github.com/d60-Lab/postboard/internal/repository"
	"github.com/d60-Lab/postboard/internal/service"
	"github.com/d60-Lab/postboard/pkg/database"
)

type result struct {
	name      string
	durations []time.Duration
	errors    int
	hits      int64
	misses    int64
}

func main() {
	ctx := context.Background()

	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer func() { mustDo(database.Close(db)) }()
	mustDo(repository.InitSchema(db))

	N := envInt("N", 2000)
	CONC := envInt("CONC", 4)

	client := redisClient()
	defer client.Close()
	mustDo(client.Ping(ctx).Err())

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	cached := usercache.NewUserRepository(users, client, 10*time.Minute)

	plainUsers := service.NewUserService(users, posts)
	plainPosts := service.NewPostService(posts, users)
	cachedPosts := service.NewPostService(posts, cached)

	fmt.Printf("Seeding %d users (CONC=%d)...\n", N, CONC)
	ids := make([]int64, N)
	seed := run("user create", N, CONC, func(i int) error {
		u, err := plainUsers.Create(ctx, service.UserInput{Name: fmt.Sprintf("bench user %d", i)})
		if err != nil {
			return err
		}
		ids[i] = u.ID
		return nil
	})

	rnd := rand.New(rand.NewSource(42))
	authors := make([]int64, N)
	for i := range authors {
		authors[i] = ids[rnd.Intn(len(ids))]
	}

	postUncached := run("post create", N, CONC, func(i int) error {
		_, err := plainPosts.Create(ctx, service.PostInput{Text: "bench", UserID: authors[i]})
		return err
	})

	mustDo(client.FlushAll(ctx).Err())
	cached.ResetCounters()
	postCached := run("post create (cached lookup)", N, CONC, func(i int) error {
		_, err := cachedPosts.Create(ctx, service.PostInput{Text: "bench", UserID: authors[i]})
		return err
	})
	c := cached.Counters()
	postCached.hits, postCached.misses = c.Hits, c.Misses

	getUncached := run("user get", N, CONC, func(i int) error {
		_, err := users.Get(ctx, authors[i])
		return err
	})

	cached.ResetCounters()
	getCached := run("user get (cached)", N, CONC, func(i int) error {
		_, err := cached.Get(ctx, authors[i])
		return err
	})
	c = cached.Counters()
	getCached.hits, getCached.misses = c.Hits, c.Misses

	listByUser := run("posts by user", N, CONC, func(i int) error {
		_, err := plainUsers.ListPosts(ctx, authors[i])
		return err
	})

	report([]result{seed, postUncached, postCached, getUncached, getCached, listByUser})

	// 删除本次压测写入的数据
	mustDo(db.Where("user_id IN ?", ids).Delete(&model.Post{}).Error)
	mustDo(db.Where("id IN ?", ids).Delete(&model.User{}).Error)
}

func redisClient() *redis.Client {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return redis.NewClient(&redis.Options{Addr: addr})
	}
	mr := must(miniredis.Run())
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// run 用 conc 个 worker 执行 n 次 fn，记录每次耗时
func run(name string, n, conc int, fn func(i int) error) result {
	jobs := make(chan int)
	var (
		mu  sync.Mutex
		out = make([]time.Duration, 0, n)
		bad int
		wg  sync.WaitGroup
	)
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				err := fn(i)
				d := time.Since(start)
				mu.Lock()
				out = append(out, d)
				if err != nil {
					bad++
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return result{name: name, durations: out, errors: bad}
}

func report(rs []result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Scenario", "Count", "Errors", "Avg", "P50", "P95", "P99", "Cache hit", "Cache miss"})
	for _, r := range rs {
		hit, miss := "-", "-"
		if r.hits+r.misses > 0 {
			hit, miss = strconv.FormatInt(r.hits, 10), strconv.FormatInt(r.misses, 10)
		}
		table.Append([]string{
			r.name,
			strconv.Itoa(len(r.durations)),
			strconv.Itoa(r.errors),
			avg(r.durations).String(),
			pct(r.durations, 0.50).String(),
			pct(r.durations, 0.95).String(),
			pct(r.durations, 0.99).String(),
			hit,
			miss,
		})
	}
	fmt.Println()
	table.Render()
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
