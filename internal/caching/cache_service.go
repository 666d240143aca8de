package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dineflow/internal/models"

	"github.com/redis/go-redis/v9"
)

const reportKeyPrefix = "dineflow:reports:"

// CacheService fronts Redis for the read-heavy report payloads. A cache miss
// is (nil, nil); callers always fall back to the database.
type CacheService interface {
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error
	GetRevenue(ctx context.Context, rng string) ([]models.RevenueBucket, error)
	SetRevenue(ctx context.Context, rng string, buckets []models.RevenueBucket, ttl time.Duration) error
	InvalidateReports(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, addr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	data, err := r.client.Get(ctx, reportKeyPrefix+"dashboard").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, reportKeyPrefix+"dashboard", data, ttl).Err()
}

func (r *redisCacheService) GetRevenue(ctx context.Context, rng string) ([]models.RevenueBucket, error) {
	key := fmt.Sprintf("%srevenue:%s", reportKeyPrefix, rng)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var buckets []models.RevenueBucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *redisCacheService) SetRevenue(ctx context.Context, rng string, buckets []models.RevenueBucket, ttl time.Duration) error {
	data, err := json.Marshal(buckets)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%srevenue:%s", reportKeyPrefix, rng)
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateReports drops every cached report payload. Called after each
// successful checkout so dashboards never serve stale totals for long.
func (r *redisCacheService) InvalidateReports(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, reportKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
