package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-api/api/middleware"
	"github.com/storefrontlabs/storefront-api/api/responses"
	"github.com/storefrontlabs/storefront-api/api/validators"
	"github.com/storefrontlabs/storefront-api/internal/orders"
	"github.com/storefrontlabs/storefront-api/pkg/config"
	"github.com/storefrontlabs/storefront-api/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
	"github.com/storefrontlabs/storefront-api/pkg/logger"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

// OrderList serves the caller's order history; staff see every order.
func OrderList(svc orders.Service, pcfg config.PaginationConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := orders.ParseListFilters(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pagination.FromRequest(r, pcfg.DefaultLimit, pcfg.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), actor, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.NewPage(r, params, result.Count, result.Orders))
	}
}

// OrderDetail serves one order visible to the caller.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, id, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderCreate places a new order for the caller (or, for staff, any user).
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderReplace handles full updates (PUT): status and items are replaced.
func OrderReplace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, id, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Replace(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderPatch handles partial updates (PATCH).
func OrderPatch(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, id, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload patchOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Patch(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderDelete removes an order visible to the caller.
func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, id, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

func actorFromContext(r *http.Request) (orders.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return orders.Actor{
		UserID:  userID,
		IsStaff: middleware.IsStaffFromContext(r.Context()),
	}, nil
}

func actorAndID(r *http.Request) (orders.Actor, uuid.UUID, error) {
	actor, err := actorFromContext(r)
	if err != nil {
		return orders.Actor{}, uuid.Nil, err
	}
	id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		return orders.Actor{}, uuid.Nil, err
	}
	return actor, id, nil
}

type orderItemPayload struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func (p orderItemPayload) toInput() (orders.ItemInput, error) {
	productID, err := uuid.Parse(strings.TrimSpace(p.Product))
	if err != nil {
		return orders.ItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").
			WithDetails(map[string]any{"field": "items.product"})
	}
	return orders.ItemInput{ProductID: productID, Quantity: p.Quantity}, nil
}

type createOrderPayload struct {
	User   *string            `json:"user,omitempty"`
	Status *string            `json:"status,omitempty"`
	Items  []orderItemPayload `json:"items"`
}

func (p createOrderPayload) toInput() (orders.CreateOrderInput, error) {
	input := orders.CreateOrderInput{}

	if p.User != nil {
		parsed, err := uuid.Parse(strings.TrimSpace(*p.User))
		if err != nil {
			return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id").
				WithDetails(map[string]any{"field": "user"})
		}
		input.UserID = &parsed
	}

	if p.Status != nil {
		status, err := parseStatus(*p.Status)
		if err != nil {
			return orders.CreateOrderInput{}, err
		}
		input.Status = &status
	}

	items, err := itemInputs(p.Items)
	if err != nil {
		return orders.CreateOrderInput{}, err
	}
	input.Items = items

	return input, nil
}

type replaceOrderPayload struct {
	Status string             `json:"status" validate:"required"`
	Items  []orderItemPayload `json:"items"`
}

func (p replaceOrderPayload) toInput() (orders.ReplaceOrderInput, error) {
	status, err := parseStatus(p.Status)
	if err != nil {
		return orders.ReplaceOrderInput{}, err
	}
	items, err := itemInputs(p.Items)
	if err != nil {
		return orders.ReplaceOrderInput{}, err
	}
	return orders.ReplaceOrderInput{Status: status, Items: items}, nil
}

type patchOrderPayload struct {
	Status *string             `json:"status,omitempty"`
	Items  *[]orderItemPayload `json:"items,omitempty"`
}

func (p patchOrderPayload) toInput() (orders.PatchOrderInput, error) {
	input := orders.PatchOrderInput{}

	if p.Status != nil {
		status, err := parseStatus(*p.Status)
		if err != nil {
			return orders.PatchOrderInput{}, err
		}
		input.Status = &status
	}

	if p.Items != nil {
		items, err := itemInputs(*p.Items)
		if err != nil {
			return orders.PatchOrderInput{}, err
		}
		input.Items = &items
	}

	return input, nil
}

func parseStatus(raw string) (enums.OrderStatus, error) {
	status, err := enums.ParseOrderStatus(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
			WithDetails(map[string]any{"field": "status"})
	}
	return status, nil
}

func itemInputs(payloads []orderItemPayload) ([]orders.ItemInput, error) {
	items := make([]orders.ItemInput, 0, len(payloads))
	for _, payload := range payloads {
		item, err := payload.toInput()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
