package availability

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"turnos/models"

	"github.com/go-redis/redis/v8"
)

const (
	slotCachePrefix      = "slots:"
	slotGenerationPrefix = "slotgen:"
)

// SlotCache stores computed slot lists per professional and date. Entries are
// keyed by the day's generation: a reader captures it before reading the
// store, and Invalidate bumps it, so a list computed from a read that raced
// with a booking lands under a generation nobody asks for again.
type SlotCache interface {
	Generation(ctx context.Context, professionalID, date string) (int64, error)
	Get(ctx context.Context, professionalID, date string, gen int64) ([]models.TimeSlot, bool, error)
	Set(ctx context.Context, professionalID, date string, gen int64, slots []models.TimeSlot) error
	Invalidate(ctx context.Context, professionalID, date string) error
}

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	genTTL time.Duration
}

// NewRedisSlotCache keeps lists for ttl. Generation counters live for a day
// and at least ttl, so a counter never resets while a list it guards is alive.
func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	genTTL := 24 * time.Hour
	if ttl > genTTL {
		genTTL = 2 * ttl
	}
	return &RedisSlotCache{client: client, ttl: ttl, genTTL: genTTL}
}

func slotCacheKey(professionalID, date string, gen int64) string {
	return slotCachePrefix + professionalID + ":" + date + ":" + strconv.FormatInt(gen, 10)
}

func slotGenerationKey(professionalID, date string) string {
	return slotGenerationPrefix + professionalID + ":" + date
}

func (s *RedisSlotCache) Generation(ctx context.Context, professionalID, date string) (int64, error) {
	gen, err := s.client.Get(ctx, slotGenerationKey(professionalID, date)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (s *RedisSlotCache) Get(ctx context.Context, professionalID, date string, gen int64) ([]models.TimeSlot, bool, error) {
	data, err := s.client.Get(ctx, slotCacheKey(professionalID, date, gen)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (s *RedisSlotCache) Set(ctx context.Context, professionalID, date string, gen int64, slots []models.TimeSlot) error {
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, slotCacheKey(professionalID, date, gen), b, s.ttl).Err()
}

// Invalidate bumps the day's generation and drops the list it replaces.
func (s *RedisSlotCache) Invalidate(ctx context.Context, professionalID, date string) error {
	genKey := slotGenerationKey(professionalID, date)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, s.genTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return s.client.Del(ctx, slotCacheKey(professionalID, date, incr.Val()-1)).Err()
}
