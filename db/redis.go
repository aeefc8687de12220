package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const runLockPrefix = "activeinfo:lock:report:"

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		fmt.Println("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// AcquireRunLock takes the single-flight lock for one report date so
// concurrent scheduler and manual runs cannot both generate it. The
// lock expires on its own; completed runs are deduplicated by the
// upsert in the report table.
func AcquireRunLock(reportDate string, ttl time.Duration) (bool, error) {
	return Redis.SetNX(Ctx, runLockPrefix+reportDate, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func ReleaseRunLock(reportDate string) error {
	return Redis.Del(Ctx, runLockPrefix+reportDate).Err()
}
