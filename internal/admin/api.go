package admin

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SetDeliveredParams defines parameters for SetDelivered.
type SetDeliveredParams struct {
	Delivered bool `json:"delivered"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Order list (GET /api/admin/orders).
	GetOrders(w http.ResponseWriter, r *http.Request)
	// Delivered toggle (PATCH /api/admin/orders/{id}/delivered).
	SetDelivered(w http.ResponseWriter, r *http.Request, id uuid.UUID, params SetDeliveredParams)
	// Live order feed (GET /api/admin/orders/feed).
	Feed(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts payloads to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// Set delivered operation middleware.
func (siw *ServerInterfaceWrapper) SetDelivered(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" ------------------------------

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		siw.ErrorHandlerFunc(w, r,
			fmt.Errorf("%w: order id: %s", errs.ErrInvalidRequest, err))
		return
	}

	// ------------- Required JSON body parameter "delivered" ---------

	var params SetDeliveredParams

	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}
	if len(data) == 0 {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("%w: empty body", errs.ErrInvalidPayload))
		return
	}
	if err = json.Unmarshal(data, &params); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("%w: %s", errs.ErrInvalidPayload, err))
		return
	}

	siw.Handler.SetDelivered(w, r, id, params)
}

// BearerAuth guards every admin route with the static token. The feed
// route is opened from a browser websocket which cannot set headers, so
// the token is also accepted as a "token" query parameter.
func BearerAuth(token string) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if presented == r.Header.Get("Authorization") {
				presented = r.URL.Query().Get("token")
			}

			if token == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				ErrorHandlerFunc(w, r, errs.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Handler creates http.Handler with routing matching spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
	BaseRouter       chi.Router
	BaseURL          string
	Middlewares      []MiddlewareFunc
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/orders", si.GetOrders)
		r.Get(options.BaseURL+"/orders/feed", si.Feed)
		r.Patch(options.BaseURL+"/orders/{id}/delivered", wrapper.SetDelivered)
	})

	return r
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal
// that.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	var saveErr *errs.SaveFailedError

	switch {
	// Status Unauthorized.
	case errors.Is(err, errs.ErrUnauthorized):
		code = http.StatusUnauthorized

	// Status Bad Request.
	case errors.Is(err, errs.ErrInvalidRequest) ||
		errors.Is(err, errs.ErrInvalidPayload) ||
		errors.Is(err, io.EOF):
		code = http.StatusBadRequest

	// Status Not Found: no order with that id.
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound

	// Status Conflict: the stored document moved on underneath us.
	case errors.Is(err, errs.ErrRevisionMismatch):
		code = http.StatusConflict

	// Status Bad Gateway: the remote store failed.
	case errors.As(err, &saveErr) ||
		errors.Is(err, errs.ErrStoreUnavailable):
		code = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
