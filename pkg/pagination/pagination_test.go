package pagination

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
)

func TestFromRequest(t *testing.T) {
	t.Run("defaults applied when params absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/", nil)
		params, err := FromRequest(r, 2, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.Limit != 2 || params.Offset != 0 {
			t.Fatalf("expected limit=2 offset=0, got %+v", params)
		}
	})

	t.Run("explicit values parsed", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=5&offset=10", nil)
		params, err := FromRequest(r, 2, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.Limit != 5 || params.Offset != 10 {
			t.Fatalf("expected limit=5 offset=10, got %+v", params)
		}
	})

	t.Run("limit above max is clamped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=500", nil)
		params, err := FromRequest(r, 2, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.Limit != 100 {
			t.Fatalf("expected limit clamped to 100, got %d", params.Limit)
		}
	})

	t.Run("zero limit rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=0", nil)
		_, err := FromRequest(r, 2, 100)
		assertValidationError(t, err)
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=-3", nil)
		_, err := FromRequest(r, 2, 100)
		assertValidationError(t, err)
	})

	t.Run("non-numeric limit rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=abc", nil)
		_, err := FromRequest(r, 2, 100)
		assertValidationError(t, err)
	})

	t.Run("negative offset rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?offset=-1", nil)
		_, err := FromRequest(r, 2, 100)
		assertValidationError(t, err)
	})
}

func TestNewPage(t *testing.T) {
	t.Run("first page has next but no previous", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=2", nil)
		page := NewPage(r, Params{Limit: 2}, 6, []string{"a", "b"})
		if page.Count != 6 {
			t.Fatalf("expected count 6, got %d", page.Count)
		}
		if page.Next == nil {
			t.Fatal("expected next link")
		}
		if page.Previous != nil {
			t.Fatalf("expected no previous link, got %s", *page.Previous)
		}
		if got := *page.Next; got != "/products/?limit=2&offset=2" {
			t.Fatalf("unexpected next link: %s", got)
		}
	})

	t.Run("middle page links both directions", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=2&offset=2", nil)
		page := NewPage(r, Params{Limit: 2, Offset: 2}, 6, []string{"c", "d"})
		if page.Next == nil || page.Previous == nil {
			t.Fatalf("expected both links, got next=%v previous=%v", page.Next, page.Previous)
		}
		// first page link omits the offset entirely
		if got := *page.Previous; got != "/products/?limit=2" {
			t.Fatalf("unexpected previous link: %s", got)
		}
	})

	t.Run("last page has no next", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=2&offset=4", nil)
		page := NewPage(r, Params{Limit: 2, Offset: 4}, 6, []string{"e", "f"})
		if page.Next != nil {
			t.Fatalf("expected no next link, got %s", *page.Next)
		}
		if page.Previous == nil {
			t.Fatal("expected previous link")
		}
	})

	t.Run("offset past count yields empty page with count", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products/?limit=2&offset=50", nil)
		page := NewPage[string](r, Params{Limit: 2, Offset: 50}, 6, nil)
		if page.Count != 6 {
			t.Fatalf("expected count 6, got %d", page.Count)
		}
		if len(page.Results) != 0 || page.Results == nil {
			t.Fatalf("expected empty non-nil results, got %v", page.Results)
		}
		if page.Next != nil {
			t.Fatal("expected no next link past the end")
		}
	})
}

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name     string
		limit    int
		expected int
	}{
		{"zero falls back to default", 0, 2},
		{"within range kept", 10, 10},
		{"above max clamped", 1000, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.limit, 2, 100); got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeValidation, err)
	}
}
