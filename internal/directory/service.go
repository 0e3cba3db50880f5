// Package directory contains the business directory gateway: the read-only
// lookups over the Supabase store, the HTTP handlers that expose them and
// the optional Redis cache for the category and location maps.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"bizdir/directory-gateway/internal/search"
)

// ─── Dependencies ────────────────────────────────────────────────────────────

// Repository is the data-access surface the Service needs. *Store is the
// production implementation.
type Repository interface {
	search.CompanyFetcher
	Ping(ctx context.Context) error
	Categories(ctx context.Context) (map[string]string, error)
	Locations(ctx context.Context) (map[string]string, error)
	FindUser(ctx context.Context, phoneNumber string) (User, bool, error)
	Counts(ctx context.Context) (Stats, error)
}

// LookupCache stores id → name maps by name. *RedisCache is the production
// implementation.
type LookupCache interface {
	GetLookup(ctx context.Context, name string) (map[string]string, bool, error)
	SetLookup(ctx context.Context, name string, m map[string]string) error
}

// Lookup names, also used as cache keys.
const (
	LookupCategories = "categories"
	LookupLocations  = "locations"
)

// ValidationError is the user-facing error for a malformed request. It is
// shared with the search pipeline so transports need a single mapping.
type ValidationError = search.ValidationError

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates every gateway operation.
// It has no dependency on net/http; the HTTP and gRPC layers both call it.
type Service struct {
	repo  Repository
	cache LookupCache
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache puts cache in front of the category and location lookups.
func WithCache(cache LookupCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService returns a configured Service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─── Operations ──────────────────────────────────────────────────────────────

// Health probes the store.
func (s *Service) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Categories returns the id → name map of all categories.
func (s *Service) Categories(ctx context.Context) (map[string]string, error) {
	return s.lookup(ctx, LookupCategories, s.repo.Categories)
}

// Locations returns the id → name map of all locations.
func (s *Service) Locations(ctx context.Context) (map[string]string, error) {
	return s.lookup(ctx, LookupLocations, s.repo.Locations)
}

// Search runs the company search pipeline. Results are never cached.
func (s *Service) Search(ctx context.Context, q search.Query) ([]search.Result, error) {
	results, err := search.Search(ctx, s.repo, q)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search", "categoryId", q.CategoryID, "locationId", q.LocationID,
		"term", q.Term, "results", len(results))
	return results, nil
}

// UserStatus returns the subscription status for phoneNumber. Unknown
// numbers get the default free plan.
func (s *Service) UserStatus(ctx context.Context, phoneNumber string) (*UserStatus, error) {
	if phoneNumber == "" {
		return nil, &ValidationError{Msg: "phone_number is required"}
	}

	u, found, err := s.repo.FindUser(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		u = DefaultUser()
	}
	return u.Status(phoneNumber), nil
}

// Stats returns the row counts of the four directory tables.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	return &st, nil
}

// RefreshLookups reloads both lookup maps from the store into the cache.
// It is a no-op without a cache.
func (s *Service) RefreshLookups(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	for name, load := range map[string]func(context.Context) (map[string]string, error){
		LookupCategories: s.repo.Categories,
		LookupLocations:  s.repo.Locations,
	} {
		m, err := load(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		if err := s.cache.SetLookup(ctx, name, m); err != nil {
			return fmt.Errorf("cache %s: %w", name, err)
		}
		s.log.Debug("lookup refreshed", "lookup", name, "entries", len(m))
	}
	return nil
}

// lookup reads through the cache. Cache failures are logged and the store
// is used instead; store failures are returned.
func (s *Service) lookup(
	ctx context.Context,
	name string,
	load func(context.Context) (map[string]string, error),
) (map[string]string, error) {
	if s.cache != nil {
		m, ok, err := s.cache.GetLookup(ctx, name)
		if err != nil {
			s.log.Warn("lookup cache read failed", "lookup", name, "err", err)
		} else if ok {
			return m, nil
		}
	}

	m, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if s.cache != nil {
		if err := s.cache.SetLookup(ctx, name, m); err != nil {
			s.log.Warn("lookup cache write failed", "lookup", name, "err", err)
		}
	}
	return m, nil
}
