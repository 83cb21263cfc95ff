package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	corehistory "github.com/kilianp07/footprint/core/history"
	"github.com/kilianp07/footprint/core/model"
)

// RedisStore keeps the latest snapshot under three keys: the Result under
// last_calc, the Activity under last_payload and the remaining fields under
// last_meta.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

type redisMeta struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Source    model.Source `json:"source"`
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

// Save writes the three keys in one transaction.
func (s *RedisStore) Save(ctx context.Context, snap corehistory.Snapshot) error {
	calc, err := json.Marshal(snap.Result)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(snap.Activity)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(redisMeta{ID: snap.ID, Timestamp: snap.Timestamp, Source: snap.Source})
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.key(corehistory.KeyLastCalc), calc, 0)
		p.Set(ctx, s.key(corehistory.KeyLastPayload), payload, 0)
		p.Set(ctx, s.key(corehistory.KeyLastMeta), meta, 0)
		return nil
	})
	return err
}

func (s *RedisStore) LoadLast(ctx context.Context) (corehistory.Snapshot, bool, error) {
	vals, err := s.rdb.MGet(ctx,
		s.key(corehistory.KeyLastCalc),
		s.key(corehistory.KeyLastPayload),
		s.key(corehistory.KeyLastMeta),
	).Result()
	if err != nil {
		return corehistory.Snapshot{}, false, err
	}
	if len(vals) != 3 || vals[0] == nil {
		return corehistory.Snapshot{}, false, nil
	}
	var snap corehistory.Snapshot
	if err := decodeValue(vals[0], &snap.Result); err != nil {
		return corehistory.Snapshot{}, false, fmt.Errorf("%s: %w", corehistory.KeyLastCalc, err)
	}
	if vals[1] != nil {
		if err := decodeValue(vals[1], &snap.Activity); err != nil {
			return corehistory.Snapshot{}, false, fmt.Errorf("%s: %w", corehistory.KeyLastPayload, err)
		}
	}
	if vals[2] != nil {
		var meta redisMeta
		if err := decodeValue(vals[2], &meta); err != nil {
			return corehistory.Snapshot{}, false, fmt.Errorf("%s: %w", corehistory.KeyLastMeta, err)
		}
		snap.ID, snap.Timestamp, snap.Source = meta.ID, meta.Timestamp, meta.Source
	}
	return snap, true, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func decodeValue(v any, out any) error {
	str, ok := v.(string)
	if !ok {
		return errors.New("unexpected value type")
	}
	return json.Unmarshal([]byte(str), out)
}
