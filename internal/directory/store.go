package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizdir/directory-gateway/internal/search"
)

// Store is the pgx-backed Repository over the Supabase schema
// (categories, locations, companies, users).
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store using pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping runs the same cheap query the health endpoint has always used.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `SELECT id FROM users LIMIT 1`); err != nil {
		return fmt.Errorf("ping users: %w", err)
	}
	return nil
}

// Categories returns every category as an id → name map.
func (s *Store) Categories(ctx context.Context) (map[string]string, error) {
	return s.idNameMap(ctx, `SELECT id, COALESCE(name, '') FROM categories`)
}

// Locations returns every location as an id → name map.
func (s *Store) Locations(ctx context.Context) (map[string]string, error) {
	return s.idNameMap(ctx, `SELECT id, COALESCE(name, '') FROM locations`)
}

func (s *Store) idNameMap(ctx context.Context, query string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[strconv.FormatInt(id, 10)] = name
	}
	return out, rows.Err()
}

// FetchCompanies returns the companies in one category and location, in
// primary-key order.
func (s *Store) FetchCompanies(ctx context.Context, categoryID, locationID int64) ([]search.Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category_id, location_id, company_name, description,
		        website_link, advertising_tier, keywords
		 FROM companies
		 WHERE category_id = $1 AND location_id = $2
		 ORDER BY id`,
		categoryID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}

	companies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (search.Company, error) {
		var c search.Company
		err := row.Scan(
			&c.ID, &c.CategoryID, &c.LocationID, &c.CompanyName, &c.Description,
			&c.WebsiteLink, &c.AdvertisingTier, &c.Keywords,
		)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan companies: %w", err)
	}
	return companies, nil
}

// FindUser looks a user up by phone number. found is false when no row
// matches.
func (s *Store) FindUser(ctx context.Context, phoneNumber string) (u User, found bool, err error) {
	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(subscription_tier, 'free'),
		        COALESCE(queries_today, 0),
		        COALESCE(max_daily_queries, 10)
		 FROM users
		 WHERE phone_number = $1
		 LIMIT 1`,
		phoneNumber,
	).Scan(&u.SubscriptionTier, &u.QueriesToday, &u.MaxDailyQueries)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("query user: %w", err)
	}
	return u, true, nil
}

// Counts returns exact row counts for the four tables in one round trip.
func (s *Store) Counts(ctx context.Context) (Stats, error) {
	batch := &pgx.Batch{}
	for _, table := range []string{"categories", "locations", "companies", "users"} {
		batch.Queue(`SELECT count(id) FROM ` + table)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	var st Stats
	for _, dst := range []*int64{&st.TotalCategories, &st.TotalLocations, &st.TotalCompanies, &st.TotalUsers} {
		if err := br.QueryRow().Scan(dst); err != nil {
			return Stats{}, fmt.Errorf("count rows: %w", err)
		}
	}
	return st, nil
}
