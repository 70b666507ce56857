package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cafepick/menuworker/internal/model"
	"cafepick/menuworker/logger"
	cerr "cafepick/menuworker/pkg/errors"
)

// RedisStore keeps one hash per brand, keyed by external id. Retired
// products stay in the hash flagged as removed so a menu item that
// comes back is counted as reactivated, not created.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	images    ImageStore
}

// record is the stored shape of one product
type record struct {
	Removed bool          `json:"removed,omitempty"`
	Product model.Product `json:"product"`
}

// NewRedisStore creates a store backed by the redis instance at addr.
// An empty addr is a configuration error.
func NewRedisStore(addr string, db int, keyPrefix string, images ImageStore) (*RedisStore, error) {
	if addr == "" {
		return nil, cerr.NewConfiguration("redis address is required", nil)
	}
	if keyPrefix == "" {
		keyPrefix = "menu"
	}
	if images == nil {
		images = NoopImageStore{}
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &RedisStore{client: client, keyPrefix: keyPrefix, images: images}, nil
}

// Save diffs the batch against the stored hash for the brand and writes
// the changes. With DryRun set it reports the same counts without
// touching redis.
func (s *RedisStore) Save(ctx context.Context, brand string, products []model.Product, opts Options) (UploadResult, error) {
	log := logger.ForStore()
	key := s.key(brand)

	if opts.WithImages {
		products = s.optimizeImages(ctx, products)
	}

	stored, err := s.load(ctx, key)
	if err != nil {
		return UploadResult{}, cerr.NewStore(brand, "loading stored products", err)
	}

	result, next := diff(stored, products)

	if opts.DryRun {
		log.Info().
			Str("brand", brand).
			Int("created", result.Created).
			Int("updated", result.Updated).
			Int("removed", result.Removed).
			Msg("Dry run, skipping write")
		return result, nil
	}

	fields := make(map[string]interface{}, len(next))
	for id, rec := range next {
		raw, err := json.Marshal(rec)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		fields[id] = raw
	}
	if len(fields) > 0 {
		if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
			return result, cerr.NewStore(brand, "writing products", err)
		}
	}

	log.Info().
		Str("brand", brand).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Int("removed", result.Removed).
		Int("reactivated", result.Reactivated).
		Msg("Saved products")
	return result, nil
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(brand string) string {
	return fmt.Sprintf("%s:products:%s", s.keyPrefix, brand)
}

func (s *RedisStore) load(ctx context.Context, key string) (map[string]record, error) {
	raw, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	stored := make(map[string]record, len(raw))
	for id, val := range raw {
		var rec record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			// Corrupt entries are treated as absent and overwritten
			continue
		}
		stored[id] = rec
	}
	return stored, nil
}

func (s *RedisStore) optimizeImages(ctx context.Context, products []model.Product) []model.Product {
	log := logger.ForStore()
	out := make([]model.Product, len(products))
	copy(out, products)
	for i := range out {
		if out[i].ExternalImageURL == "" || out[i].ImageStorageID != "" {
			continue
		}
		id, err := s.images.Optimize(ctx, out[i].ExternalImageURL)
		if err != nil {
			log.Warn().
				Err(err).
				Str("externalId", out[i].ExternalID).
				Msg("Image optimization failed")
			continue
		}
		out[i].ImageStorageID = id
	}
	return out
}

// diff compares the incoming batch against the stored state and returns
// the counts plus the state to write back. Stored ids missing from the
// batch are flagged removed rather than deleted.
func diff(stored map[string]record, products []model.Product) (UploadResult, map[string]record) {
	var result UploadResult
	next := make(map[string]record, len(stored)+len(products))

	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if seen[p.ExternalID] {
			continue
		}
		seen[p.ExternalID] = true

		prev, exists := stored[p.ExternalID]
		rec := record{Product: p}
		switch {
		case !exists:
			result.Created++
		case prev.Removed:
			result.Reactivated++
		case equalProducts(prev.Product, p):
			result.Unchanged++
		default:
			result.Updated++
		}
		next[p.ExternalID] = rec
	}

	for id, prev := range stored {
		if seen[id] {
			continue
		}
		if !prev.Removed {
			result.Removed++
			prev.Removed = true
		}
		next[id] = prev
	}
	return result, next
}

func equalProducts(a, b model.Product) bool {
	ra, err1 := json.Marshal(a)
	rb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ra) == string(rb)
}
