package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"homestay/internal/guard"
)

const (
	cacheTTL      = 5 * time.Minute
	cacheKeyAll   = "places:all"
	cacheKeyPlace = "place:%s"
)

// Service handles listing business logic with a Redis read-through cache
// on the public browse endpoints.
type Service struct {
	repo  Repository
	cache *redis.Client
}

// NewService creates a places service. When Redis is unreachable the cache
// is disabled and every read goes to the database.
func NewService(repo Repository, redisAddr, redisPassword string, redisDB int) *Service {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis connection failed, place caching disabled", "error", err.Error())
		rdb = nil
	}

	return &Service{repo: repo, cache: rdb}
}

// NewServiceWithCache creates a places service around an existing Redis
// client. A nil client disables caching; tests use this constructor.
func NewServiceWithCache(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create stores a new listing. The owner is always the verified caller's
// identity; any owner value a client might smuggle into the payload is
// ignored because PlaceFields carries no owner at all.
func (s *Service) Create(ctx context.Context, userID string, fields PlaceFields) (*Place, error) {
	place := &Place{Owner: userID}
	fields.apply(place)

	if err := s.repo.Create(ctx, place); err != nil {
		return nil, err
	}

	s.invalidateBrowseCache(ctx)
	return place, nil
}

// Get returns a single listing. Unauthenticated, public.
func (s *Service) Get(ctx context.Context, id string) (*Place, error) {
	if s.cache != nil {
		key := fmt.Sprintf(cacheKeyPlace, id)
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var place Place
			if err := json.Unmarshal([]byte(cached), &place); err == nil {
				return &place, nil
			}
		}
	}

	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(place); err == nil {
			s.cache.Set(ctx, fmt.Sprintf(cacheKeyPlace, id), data, cacheTTL)
		}
	}

	return place, nil
}

// Browse returns all listings. Unauthenticated, public.
func (s *Service) Browse(ctx context.Context) ([]Place, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKeyAll).Result(); err == nil {
			var places []Place
			if err := json.Unmarshal([]byte(cached), &places); err == nil {
				return places, nil
			}
		}
	}

	places, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			s.cache.Set(ctx, cacheKeyAll, data, cacheTTL)
		}
	}

	return places, nil
}

// ListOwned returns exactly the caller's own listings.
func (s *Service) ListOwned(ctx context.Context, userID string) ([]Place, error) {
	return s.repo.ListByOwner(ctx, guard.OwnedBy(userID))
}

// Update loads the target listing, authorizes the mutation against its
// recorded owner, and applies the field updates only on allow. A mismatch
// is an explicit guard.ErrForbidden, never a silent no-op.
func (s *Service) Update(ctx context.Context, userID string, req UpdatePlaceRequest) (*Place, error) {
	place, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := guard.AuthorizeOwnerMutation(userID, place.Owner); err != nil {
		return nil, err
	}

	req.apply(place)
	if err := s.repo.Update(ctx, place); err != nil {
		return nil, err
	}

	s.invalidateBrowseCache(ctx)
	if s.cache != nil {
		s.cache.Del(ctx, fmt.Sprintf(cacheKeyPlace, place.ID))
	}

	return place, nil
}

// CacheStatus reports the listing cache state for the health endpoint.
func (s *Service) CacheStatus(ctx context.Context) map[string]string {
	if s.cache == nil {
		return map[string]string{"status": "disabled"}
	}
	if err := s.cache.Ping(ctx).Err(); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}

func (s *Service) invalidateBrowseCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Del(ctx, cacheKeyAll)
	}
}
