package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-api/api/middleware"
	"github.com/storefrontlabs/storefront-api/internal/orders"
	"github.com/storefrontlabs/storefront-api/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

type stubOrderService struct {
	listResult *orders.ListResult
	dto        *orders.OrderDTO
	err        error
	lastActor  orders.Actor
	lastInput  *orders.CreateOrderInput
	deleted    []uuid.UUID
}

func (s *stubOrderService) List(_ context.Context, actor orders.Actor, _ orders.ListFilters, _ pagination.Params) (*orders.ListResult, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.listResult, nil
}

func (s *stubOrderService) Get(_ context.Context, actor orders.Actor, _ uuid.UUID) (*orders.OrderDTO, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func (s *stubOrderService) Create(_ context.Context, actor orders.Actor, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	s.lastActor = actor
	s.lastInput = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func (s *stubOrderService) Replace(_ context.Context, actor orders.Actor, _ uuid.UUID, _ orders.ReplaceOrderInput) (*orders.OrderDTO, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func (s *stubOrderService) Patch(_ context.Context, actor orders.Actor, _ uuid.UUID, _ orders.PatchOrderInput) (*orders.OrderDTO, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func (s *stubOrderService) Delete(_ context.Context, actor orders.Actor, id uuid.UUID) error {
	s.lastActor = actor
	s.deleted = append(s.deleted, id)
	return s.err
}

func authedRequest(r *http.Request, userID uuid.UUID, staff bool) *http.Request {
	ctx := middleware.WithUserID(r.Context(), userID.String())
	ctx = middleware.WithStaff(ctx, staff)
	return r.WithContext(ctx)
}

func sampleOrderDTO(userID uuid.UUID) *orders.OrderDTO {
	return &orders.OrderDTO{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		User:      userID,
		Status:    enums.OrderStatusPending,
		Items: []orders.OrderItemDTO{{
			ProductName:  "Watch",
			ProductPrice: decimal.RequireFromString("500.05"),
			Quantity:     1,
			ItemSubtotal: decimal.RequireFromString("500.05"),
		}},
		TotalPrice: decimal.RequireFromString("500.05"),
	}
}

func TestOrderList(t *testing.T) {
	t.Run("anonymous caller rejected", func(t *testing.T) {
		handler := OrderList(&stubOrderService{}, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/orders/", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("actor flows into the service", func(t *testing.T) {
		userID := uuid.New()
		svc := &stubOrderService{listResult: &orders.ListResult{
			Orders: []orders.OrderDTO{*sampleOrderDTO(userID)},
			Count:  1,
		}}
		handler := OrderList(svc, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest("GET", "/orders/", nil), userID, true)
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.lastActor.UserID != userID || !svc.lastActor.IsStaff {
			t.Fatalf("unexpected actor: %+v", svc.lastActor)
		}
	})

	t.Run("malformed status filter rejected", func(t *testing.T) {
		handler := OrderList(&stubOrderService{}, testPaginationConfig, testLogger())

		rec := httptest.NewRecorder()
		req := authedRequest(httptest.NewRequest("GET", "/orders/?status=Shipped", nil), uuid.New(), false)
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestOrderCreate(t *testing.T) {
	t.Run("valid payload yields 201", func(t *testing.T) {
		userID := uuid.New()
		productID := uuid.New()
		svc := &stubOrderService{dto: sampleOrderDTO(userID)}
		handler := OrderCreate(svc, testLogger())

		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"items":[{"product":"%s","quantity":2}]}`, productID)
		req := httptest.NewRequest("POST", "/orders/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, authedRequest(req, userID, false))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.lastInput == nil || len(svc.lastInput.Items) != 1 {
			t.Fatalf("unexpected input: %+v", svc.lastInput)
		}
		if svc.lastInput.Items[0].ProductID != productID || svc.lastInput.Items[0].Quantity != 2 {
			t.Fatalf("unexpected item: %+v", svc.lastInput.Items[0])
		}
	})

	t.Run("non-uuid product id rejected", func(t *testing.T) {
		handler := OrderCreate(&stubOrderService{}, testLogger())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/orders/", strings.NewReader(`{"items":[{"product":"banana","quantity":1}]}`))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, authedRequest(req, uuid.New(), false))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		handler := OrderCreate(&stubOrderService{}, testLogger())

		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"items":[{"product":"%s","quantity":0}]}`, uuid.New())
		req := httptest.NewRequest("POST", "/orders/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, authedRequest(req, uuid.New(), false))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("creating for another user without staff yields 403", func(t *testing.T) {
		svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "cannot create orders for another user")}
		handler := OrderCreate(svc, testLogger())

		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"user":"%s","items":[{"product":"%s","quantity":1}]}`, uuid.New(), uuid.New())
		req := httptest.NewRequest("POST", "/orders/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		handler(rec, authedRequest(req, uuid.New(), false))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestOrderDetail(t *testing.T) {
	t.Run("foreign order surfaces as 404", func(t *testing.T) {
		svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
		handler := OrderDetail(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.NewString()
		req := withRouteParam(httptest.NewRequest("GET", "/orders/"+id+"/", nil), "id", id)
		handler(rec, authedRequest(req, uuid.New(), false))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("owned order returned with computed totals", func(t *testing.T) {
		userID := uuid.New()
		svc := &stubOrderService{dto: sampleOrderDTO(userID)}
		handler := OrderDetail(svc, testLogger())

		rec := httptest.NewRecorder()
		id := uuid.NewString()
		req := withRouteParam(httptest.NewRequest("GET", "/orders/"+id+"/", nil), "id", id)
		handler(rec, authedRequest(req, userID, false))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Data struct {
				User       uuid.UUID `json:"user"`
				TotalPrice string    `json:"total_price"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.User != userID || body.Data.TotalPrice != "500.05" {
			t.Fatalf("unexpected payload: %+v", body.Data)
		}
	})
}

func TestOrderDelete(t *testing.T) {
	svc := &stubOrderService{}
	handler := OrderDelete(svc, testLogger())

	rec := httptest.NewRecorder()
	id := uuid.New()
	req := withRouteParam(httptest.NewRequest("DELETE", "/orders/"+id.String()+"/", nil), "id", id.String())
	handler(rec, authedRequest(req, uuid.New(), false))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("expected delete of %s, got %v", id, svc.deleted)
	}
}
