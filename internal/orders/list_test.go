package orders

import (
	"net/url"
	"testing"
	"time"

	"github.com/storefrontlabs/storefront-api/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
)

func TestParseListFilters(t *testing.T) {
	t.Run("empty query applies no filters", func(t *testing.T) {
		filters, err := ParseListFilters(url.Values{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filters.Status != nil || filters.CreatedOn != nil || filters.CreatedBefore != nil || filters.CreatedAfter != nil {
			t.Fatalf("expected zero filters, got %+v", filters)
		}
	})

	t.Run("status and dates parse", func(t *testing.T) {
		values := url.Values{}
		values.Set("status", "Confirmed")
		values.Set("created_at", "2026-01-15")
		values.Set("created_at_before", "2026-02-01")
		values.Set("created_at_after", "2026-01-01")

		filters, err := ParseListFilters(values)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filters.Status == nil || *filters.Status != enums.OrderStatusConfirmed {
			t.Fatalf("expected confirmed status, got %+v", filters.Status)
		}
		want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		if filters.CreatedOn == nil || !filters.CreatedOn.Equal(want) {
			t.Fatalf("expected %s, got %+v", want, filters.CreatedOn)
		}
		if filters.CreatedBefore == nil || filters.CreatedAfter == nil {
			t.Fatalf("expected both date bounds, got %+v", filters)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		values := url.Values{}
		values.Set("status", "Shipped")
		_, err := ParseListFilters(values)
		assertValidationCode(t, err)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		values := url.Values{}
		values.Set("created_at", "15/01/2026")
		_, err := ParseListFilters(values)
		assertValidationCode(t, err)
	})
}

func assertValidationCode(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeValidation, err)
	}
}
