// Package search implements the company search pipeline: candidate fetch by
// category and location, optional term filtering, tier ranking and
// projection to the public result shape.
package search

// Company mirrors a row of the companies table.
//
// Text columns are nullable in the store, so they are kept as pointers and a
// null value is passed through to the result untouched.
type Company struct {
	ID              int64
	CategoryID      int64
	LocationID      int64
	CompanyName     *string
	Description     *string
	WebsiteLink     *string
	AdvertisingTier *string
	Keywords        any // decoded jsonb; a []any of strings when well formed
}

// Query is a validated search request.
type Query struct {
	CategoryID int64
	LocationID int64
	Term       string // already lowercased and trimmed; "" means no term filter
}

// Result is the public projection of a Company.
type Result struct {
	CompanyName     *string `json:"CompanyName"`
	Description     *string `json:"Description"`
	WebsiteLink     *string `json:"WebsiteLink"`
	AdvertisingTier *string `json:"AdvertisingTier"`
}
