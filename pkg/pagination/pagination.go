package pagination

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 2
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// Page is the envelope returned by every paginated collection endpoint.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit, defaultLimit, maxLimit int) int {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit == 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// FromRequest parses limit/offset query parameters. An absent limit falls back
// to defaultLimit; an explicit zero or negative limit is a validation error,
// as is a negative offset. Limits above maxLimit are clamped, not rejected.
func FromRequest(r *http.Request, defaultLimit, maxLimit int) (Params, error) {
	params := Params{Limit: NormalizeLimit(0, defaultLimit, maxLimit)}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be numeric").WithDetails(map[string]any{"field": "limit"})
		}
		if limit <= 0 {
			return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be positive").WithDetails(map[string]any{"field": "limit"})
		}
		params.Limit = NormalizeLimit(limit, defaultLimit, maxLimit)
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "offset must be numeric").WithDetails(map[string]any{"field": "offset"})
		}
		if offset < 0 {
			return Params{}, pkgerrors.New(pkgerrors.CodeValidation, "offset must not be negative").WithDetails(map[string]any{"field": "offset"})
		}
		params.Offset = offset
	}

	return params, nil
}

// NewPage assembles the response envelope, deriving next/previous links from
// the request URL. An offset at or past the total yields an empty page with
// the correct count rather than an error.
func NewPage[T any](r *http.Request, params Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}

	page := Page[T]{
		Count:   count,
		Results: results,
	}

	if int64(params.Offset+params.Limit) < count {
		next := pageLink(r.URL, params.Limit, params.Offset+params.Limit)
		page.Next = &next
	}
	if params.Offset > 0 {
		prevOffset := params.Offset - params.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		previous := pageLink(r.URL, params.Limit, prevOffset)
		page.Previous = &previous
	}

	return page
}

func pageLink(base *url.URL, limit, offset int) string {
	link := *base
	query := link.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}
	link.RawQuery = query.Encode()
	return link.String()
}
