package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// CompanyFetcher is the single data-access call the pipeline depends on.
// It returns every company whose category and location identifiers equal
// the given ones, in whatever order the store yields them.
type CompanyFetcher interface {
	FetchCompanies(ctx context.Context, categoryID, locationID int64) ([]Company, error)
}

// MsgMissingIdentifiers is the validation message for an absent identifier.
const MsgMissingIdentifiers = "category_id and location_id are required"

// ValidationError wraps a user-facing message for a malformed request.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ParseQuery validates raw request values. Both identifiers must be present
// and parse as base-10 integers; the term is normalized.
func ParseQuery(categoryID, locationID, term string) (Query, error) {
	categoryID = strings.TrimSpace(categoryID)
	locationID = strings.TrimSpace(locationID)
	if categoryID == "" || locationID == "" {
		return Query{}, &ValidationError{Msg: MsgMissingIdentifiers}
	}

	cat, err := strconv.ParseInt(categoryID, 10, 64)
	if err != nil {
		return Query{}, &ValidationError{Msg: fmt.Sprintf("category_id must be an integer, got %q", categoryID)}
	}
	loc, err := strconv.ParseInt(locationID, 10, 64)
	if err != nil {
		return Query{}, &ValidationError{Msg: fmt.Sprintf("location_id must be an integer, got %q", locationID)}
	}

	return Query{CategoryID: cat, LocationID: loc, Term: NormalizeTerm(term)}, nil
}

// Search runs the full pipeline for q. A fetch failure fails the whole
// search; no partial result is ever returned.
func Search(ctx context.Context, f CompanyFetcher, q Query) ([]Result, error) {
	candidates, err := f.FetchCompanies(ctx, q.CategoryID, q.LocationID)
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}

	matched := FilterByTerm(candidates, NormalizeTerm(q.Term))
	return Project(Rank(matched)), nil
}

// Rank returns a copy of companies stable-sorted by tier priority.
func Rank(companies []Company) []Company {
	ranked := slices.Clone(companies)
	slices.SortStableFunc(ranked, func(a, b Company) int {
		return cmp.Compare(TierPriority(a.AdvertisingTier), TierPriority(b.AdvertisingTier))
	})
	return ranked
}

// Project maps companies to their public shape. The returned slice is never
// nil so it encodes as [] rather than null.
func Project(companies []Company) []Result {
	results := make([]Result, 0, len(companies))
	for _, c := range companies {
		results = append(results, Result{
			CompanyName:     c.CompanyName,
			Description:     c.Description,
			WebsiteLink:     c.WebsiteLink,
			AdvertisingTier: c.AdvertisingTier,
		})
	}
	return results
}
