package product

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
)

// ListFilters describe the supported filter knobs for the catalog endpoint.
type ListFilters struct {
	Name         *string
	NameContains *string
	Price        *decimal.Decimal
	PriceLT      *decimal.Decimal
	PriceGT      *decimal.Decimal
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Search       string
	Ordering     *Ordering
}

// Ordering is a validated sort directive. Only whitelisted columns are
// accepted, so it can be interpolated into ORDER BY safely.
type Ordering struct {
	Column string
	Desc   bool
}

var orderableColumns = map[string]string{
	"name":  "name",
	"price": "price",
	"stock": "stock",
}

// ParseListFilters builds filters from query parameters. An absent parameter
// applies no filter; a malformed value is a validation error.
func ParseListFilters(values url.Values) (ListFilters, error) {
	var filters ListFilters

	if raw, ok := queryValue(values, "name"); ok {
		filters.Name = &raw
	}
	if raw, ok := queryValue(values, "name_contains"); ok {
		filters.NameContains = &raw
	}

	for _, spec := range []struct {
		param  string
		target **decimal.Decimal
	}{
		{"price", &filters.Price},
		{"price_lt", &filters.PriceLT},
		{"price_gt", &filters.PriceGT},
		{"price_min", &filters.PriceMin},
		{"price_max", &filters.PriceMax},
	} {
		raw, ok := queryValue(values, spec.param)
		if !ok {
			continue
		}
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decimal value").
				WithDetails(map[string]any{"field": spec.param})
		}
		value := parsed
		*spec.target = &value
	}

	if (filters.PriceMin == nil) != (filters.PriceMax == nil) {
		return ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "price_min and price_max must be provided together").
			WithDetails(map[string]any{"fields": []string{"price_min", "price_max"}})
	}

	if raw, ok := queryValue(values, "search"); ok {
		filters.Search = raw
	}

	if raw, ok := queryValue(values, "ordering"); ok {
		ordering, err := ParseOrdering(raw)
		if err != nil {
			return ListFilters{}, err
		}
		filters.Ordering = ordering
	}

	return filters, nil
}

// ParseOrdering validates an ordering directive against the column whitelist.
// A leading '-' flips the direction, mirroring the query convention.
func ParseOrdering(raw string) (*Ordering, error) {
	value := strings.TrimSpace(raw)
	desc := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	column, ok := orderableColumns[value]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported ordering field").
			WithDetails(map[string]any{"field": "ordering", "allowed": []string{"name", "price", "stock"}})
	}
	return &Ordering{Column: column, Desc: desc}, nil
}

func queryValue(values url.Values, key string) (string, bool) {
	if !values.Has(key) {
		return "", false
	}
	return strings.TrimSpace(values.Get(key)), true
}
