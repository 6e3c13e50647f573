package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	product "github.com/storefrontlabs/storefront-api/internal/products"
	"github.com/storefrontlabs/storefront-api/pkg/config"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
	"github.com/storefrontlabs/storefront-api/pkg/logger"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

var testPaginationConfig = config.PaginationConfig{DefaultLimit: 2, MaxLimit: 100}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withRouteParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

type stubProductService struct {
	listResult  *product.ListResult
	detail      *product.ProductDTO
	info        *product.CatalogInfoDTO
	err         error
	lastPage    pagination.Params
	lastCreated *product.CreateProductInput
	deleted     []uuid.UUID
}

func (s *stubProductService) List(_ context.Context, _ product.ListFilters, page pagination.Params) (*product.ListResult, error) {
	s.lastPage = page
	if s.err != nil {
		return nil, s.err
	}
	return s.listResult, nil
}

func (s *stubProductService) Get(context.Context, uuid.UUID) (*product.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubProductService) Create(_ context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.lastCreated = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubProductService) Replace(_ context.Context, _ uuid.UUID, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.lastCreated = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubProductService) Patch(context.Context, uuid.UUID, product.UpdateProductInput) (*product.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubProductService) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubProductService) Info(context.Context) (*product.CatalogInfoDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

func sampleProductDTO(name string, price string) product.ProductDTO {
	return product.ProductDTO{
		Name:        name,
		Description: "test fixture",
		Price:       decimal.RequireFromString(price),
		Stock:       4,
		InStock:     true,
	}
}

func TestProductList(t *testing.T) {
	t.Run("returns a paginated envelope", func(t *testing.T) {
		svc := &stubProductService{listResult: &product.ListResult{
			Products: []product.ProductDTO{sampleProductDTO("A", "12.99"), sampleProductDTO("B", "70.99")},
			Count:    6,
		}}
		handler := ProductList(svc, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/products/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.lastPage.Limit != 2 || svc.lastPage.Offset != 0 {
			t.Fatalf("expected default pagination, got %+v", svc.lastPage)
		}

		var body struct {
			Data struct {
				Count    int64                `json:"count"`
				Next     *string              `json:"next"`
				Previous *string              `json:"previous"`
				Results  []product.ProductDTO `json:"results"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.Count != 6 || len(body.Data.Results) != 2 {
			t.Fatalf("unexpected page: %+v", body.Data)
		}
		if body.Data.Next == nil {
			t.Fatal("expected next link on a partial page")
		}
		if body.Data.Previous != nil {
			t.Fatal("expected no previous link on the first page")
		}
	})

	t.Run("zero limit is a validation error", func(t *testing.T) {
		svc := &stubProductService{}
		handler := ProductList(svc, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/products/?limit=0", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if envelope := decodeError(t, rec); envelope.Error.Code != string(pkgerrors.CodeValidation) {
			t.Fatalf("unexpected error code %q", envelope.Error.Code)
		}
	})

	t.Run("unknown ordering column rejected", func(t *testing.T) {
		svc := &stubProductService{}
		handler := ProductList(svc, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/products/?ordering=created_at", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProductDetail(t *testing.T) {
	t.Run("malformed id rejected", func(t *testing.T) {
		handler := ProductDetail(&stubProductService{}, testLogger())

		rec := httptest.NewRecorder()
		req := withRouteParam(httptest.NewRequest("GET", "/products/abc/", nil), "id", "abc")
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing product yields 404", func(t *testing.T) {
		svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		handler := ProductDetail(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.NewString()
		req := withRouteParam(httptest.NewRequest("GET", "/products/"+id+"/", nil), "id", id)
		handler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("found product returned in envelope", func(t *testing.T) {
		dto := sampleProductDTO("Watch", "500.05")
		svc := &stubProductService{detail: &dto}
		handler := ProductDetail(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.NewString()
		req := withRouteParam(httptest.NewRequest("GET", "/products/"+id+"/", nil), "id", id)
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Data product.ProductDTO `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.Name != "Watch" {
			t.Fatalf("unexpected product: %+v", body.Data)
		}
	})
}

func TestProductCreate(t *testing.T) {
	t.Run("valid payload yields 201", func(t *testing.T) {
		dto := sampleProductDTO("Camera", "350.99")
		svc := &stubProductService{detail: &dto}
		handler := ProductCreate(svc, testLogger())

		rec := httptest.NewRecorder()
		body := `{"name":"Camera","description":"compact","price":"350.99","stock":4}`
		req := httptest.NewRequest("POST", "/products/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.lastCreated == nil || svc.lastCreated.Name != "Camera" {
			t.Fatalf("unexpected input: %+v", svc.lastCreated)
		}
	})

	t.Run("missing name rejected", func(t *testing.T) {
		handler := ProductCreate(&stubProductService{}, testLogger())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/products/", strings.NewReader(`{"price":"9.99","stock":1}`))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		handler := ProductCreate(&stubProductService{}, testLogger())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/products/", strings.NewReader(`{"name":"x","price":"1","bogus":true}`))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProductDelete(t *testing.T) {
	t.Run("delete responds 204", func(t *testing.T) {
		svc := &stubProductService{}
		handler := ProductDelete(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.New()
		req := withRouteParam(httptest.NewRequest("DELETE", "/products/"+id.String()+"/", nil), "id", id.String())
		handler(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(svc.deleted) != 1 || svc.deleted[0] != id {
			t.Fatalf("expected delete of %s, got %v", id, svc.deleted)
		}
	})

	t.Run("missing product yields 404", func(t *testing.T) {
		svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		handler := ProductDelete(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.NewString()
		req := withRouteParam(httptest.NewRequest("DELETE", "/products/"+id+"/", nil), "id", id)
		handler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestProductInfo(t *testing.T) {
	maxPrice := decimal.RequireFromString("500.05")
	svc := &stubProductService{info: &product.CatalogInfoDTO{
		Products: []product.ProductDTO{sampleProductDTO("A", "12.99")},
		Count:    1,
		MaxPrice: &maxPrice,
	}}
	handler := ProductInfo(svc, testLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/products/info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data struct {
			Count    int64   `json:"count"`
			MaxPrice *string `json:"max_price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Count != 1 || body.Data.MaxPrice == nil {
		t.Fatalf("unexpected info payload: %+v", body.Data)
	}
}
