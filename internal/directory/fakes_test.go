package directory_test

import (
	"context"
	"sync"

	"bizdir/directory-gateway/internal/directory"
	"bizdir/directory-gateway/internal/search"
)

func strp(s string) *string { return &s }

// fakeRepo is an in-memory directory.Repository.
type fakeRepo struct {
	mu sync.Mutex

	categories map[string]string
	locations  map[string]string
	companies  []search.Company
	users      map[string]directory.User
	stats      directory.Stats
	err        error // returned by every call when set

	categoryLoads int
	fetches       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: map[string]string{"1": "Plumbers", "2": "Bakeries"},
		locations:  map[string]string{"10": "Springfield"},
		companies: []search.Company{
			{ID: 1, CategoryID: 1, LocationID: 10, CompanyName: strp("Acme Corp"), AdvertisingTier: strp("Free")},
			{ID: 2, CategoryID: 1, LocationID: 10, CompanyName: strp("Bolt Inc"), AdvertisingTier: strp("Premium")},
			{ID: 3, CategoryID: 1, LocationID: 10, CompanyName: strp("Crane LLC"), AdvertisingTier: strp("Enhanced")},
			{ID: 4, CategoryID: 2, LocationID: 10, CompanyName: strp("Dough Co"), AdvertisingTier: strp("Premium")},
		},
		users: map[string]directory.User{
			"+15550001": {SubscriptionTier: "premium", QueriesToday: 3, MaxDailyQueries: 100},
		},
		stats: directory.Stats{TotalCategories: 2, TotalLocations: 1, TotalCompanies: 4, TotalUsers: 1},
	}
}

func (f *fakeRepo) Ping(context.Context) error { return f.err }

func (f *fakeRepo) Categories(context.Context) (map[string]string, error) {
	f.mu.Lock()
	f.categoryLoads++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeRepo) Locations(context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.locations, nil
}

func (f *fakeRepo) FetchCompanies(_ context.Context, categoryID, locationID int64) ([]search.Company, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []search.Company
	for _, c := range f.companies {
		if c.CategoryID == categoryID && c.LocationID == locationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindUser(_ context.Context, phone string) (directory.User, bool, error) {
	if f.err != nil {
		return directory.User{}, false, f.err
	}
	u, ok := f.users[phone]
	return u, ok, nil
}

func (f *fakeRepo) Counts(context.Context) (directory.Stats, error) {
	if f.err != nil {
		return directory.Stats{}, f.err
	}
	return f.stats, nil
}

// memCache is an in-memory directory.LookupCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]map[string]string
	err     error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]map[string]string)}
}

func (c *memCache) GetLookup(_ context.Context, name string) (map[string]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	m, ok := c.entries[name]
	return m, ok, nil
}

func (c *memCache) SetLookup(_ context.Context, name string, m map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[name] = m
	return nil
}
