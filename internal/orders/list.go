package orders

import (
	"net/url"
	"strings"
	"time"

	"github.com/storefrontlabs/storefront-api/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
)

const filterDateLayout = "2006-01-02"

// ListFilters describe the supported filter knobs for the order history
// endpoint. Date filters work at day granularity; time-of-day is ignored.
type ListFilters struct {
	Status        *enums.OrderStatus
	CreatedOn     *time.Time
	CreatedBefore *time.Time
	CreatedAfter  *time.Time
}

// ParseListFilters builds filters from query parameters. An absent parameter
// applies no filter; a malformed value is a validation error.
func ParseListFilters(values url.Values) (ListFilters, error) {
	var filters ListFilters

	if values.Has("status") {
		status, err := enums.ParseOrderStatus(strings.TrimSpace(values.Get("status")))
		if err != nil {
			return ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").
				WithDetails(map[string]any{"field": "status"})
		}
		filters.Status = &status
	}

	for _, spec := range []struct {
		param  string
		target **time.Time
	}{
		{"created_at", &filters.CreatedOn},
		{"created_at_before", &filters.CreatedBefore},
		{"created_at_after", &filters.CreatedAfter},
	} {
		if !values.Has(spec.param) {
			continue
		}
		parsed, err := time.Parse(filterDateLayout, strings.TrimSpace(values.Get(spec.param)))
		if err != nil {
			return ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date, expected YYYY-MM-DD").
				WithDetails(map[string]any{"field": spec.param})
		}
		day := parsed.UTC()
		*spec.target = &day
	}

	return filters, nil
}
