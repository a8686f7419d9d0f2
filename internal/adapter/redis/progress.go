package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

const progressKeyPrefix = "mushaf:progress:"

// ProgressStore keeps the memorization records of one profile in a redis
// hash, one JSON field per surah.
type ProgressStore struct {
	client *redis.Client
	key    string
}

func NewProgressStore(uri, profile string) (*ProgressStore, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis URI: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewProgressStoreWithClient(client, profile), nil
}

func NewProgressStoreWithClient(client *redis.Client, profile string) *ProgressStore {
	if profile == "" {
		profile = "default"
	}
	return &ProgressStore{client: client, key: progressKeyPrefix + profile}
}

func (s *ProgressStore) Close() error {
	return s.client.Close()
}

// Get returns the record of a surah, nil when there is none
func (s *ProgressStore) Get(ctx context.Context, surahNumber int) (*domain.MemorizationProgress, error) {
	val, err := s.client.HGet(ctx, s.key, strconv.Itoa(surahNumber)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	var p domain.MemorizationProgress
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return &p, nil
}

func (s *ProgressStore) Save(ctx context.Context, p *domain.MemorizationProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, strconv.Itoa(p.SurahNumber), data).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// List returns every record ordered by surah
func (s *ProgressStore) List(ctx context.Context) ([]domain.MemorizationProgress, error) {
	vals, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	items := make([]domain.MemorizationProgress, 0, len(vals))
	for field, val := range vals {
		var p domain.MemorizationProgress
		if err := json.Unmarshal([]byte(val), &p); err != nil {
			return nil, fmt.Errorf("unmarshal progress of surah %s: %w", field, err)
		}
		items = append(items, p)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].SurahNumber < items[j].SurahNumber })
	return items, nil
}

// Reset deletes every record of the profile
func (s *ProgressStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
