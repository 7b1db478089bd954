package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/go-chi/chi/v5"
)

// SubmitOrderParams defines parameters for SubmitOrder.
type SubmitOrderParams struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Widget events accepted by POST /widget/{event}.
const (
	EventProceed   = "proceed"
	EventBack      = "back"
	EventHome      = "home"
	EventIncrement = "increment"
	EventDecrement = "decrement"
	EventNextSlide = "next-slide"
	EventPrevSlide = "prev-slide"
)

// WidgetEventParams defines parameters for WidgetEvent.
type WidgetEventParams struct {
	Event string
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Product details (GET /api/product).
	GetProduct(w http.ResponseWriter, r *http.Request)
	// Widget state (GET /api/widget).
	GetWidget(w http.ResponseWriter, r *http.Request)
	// Widget event (POST /api/widget/{event}).
	WidgetEvent(w http.ResponseWriter, r *http.Request, params WidgetEventParams)
	// Order submission (POST /api/orders).
	SubmitOrder(w http.ResponseWriter, r *http.Request, params SubmitOrderParams)
}

// ServerInterfaceWrapper converts payloads to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// Widget event operation middleware.
func (siw *ServerInterfaceWrapper) WidgetEvent(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	switch event {
	case EventProceed, EventBack, EventHome,
		EventIncrement, EventDecrement,
		EventNextSlide, EventPrevSlide:
	default:
		siw.ErrorHandlerFunc(w, r,
			fmt.Errorf("%w: unknown widget event %q", errs.ErrInvalidRequest, event))
		return
	}

	siw.Handler.WidgetEvent(w, r, WidgetEventParams{Event: event})
}

// Submit order operation middleware.
func (siw *ServerInterfaceWrapper) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	// ------------- Required application/json content type -----------

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		siw.ErrorHandlerFunc(w, r,
			fmt.Errorf("%w: %s", errs.ErrInvalidContentType, r.Header.Get("Content-Type")))
		return
	}

	// ------------- Parse and validate request body params -----------

	var params SubmitOrderParams

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

	// ------------- Required JSON body parameter "name" --------------

	if strings.TrimSpace(params.Name) == "" {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("%w: name", errs.ErrRequiredBodyParam))
		return
	}

	// ------------- Phone: exactly 10 digits remain ------------------

	// Non-digit characters never make it into the stored value.
	params.Phone = digitsOnly(params.Phone)
	if len(params.Phone) != 10 {
		siw.ErrorHandlerFunc(w, r, errs.ErrInvalidPhone)
		return
	}

	siw.Handler.SubmitOrder(w, r, params)
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
		r.Get(options.BaseURL+"/product", si.GetProduct)
		r.Get(options.BaseURL+"/widget", si.GetWidget)
		r.Post(options.BaseURL+"/widget/{event}", wrapper.WidgetEvent)
		r.Post(options.BaseURL+"/orders", wrapper.SubmitOrder)
	})

	return r
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, s)
}

// isJSONContentType returns true if the content type is application/json.
func isJSONContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(contentType, ";"); i > -1 {
		contentType = contentType[0:i]
	}
	return contentType == "application/json"
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal
// that.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	var saveErr *errs.SaveFailedError

	switch {
	// Status Bad Request.
	case errors.Is(err, errs.ErrInvalidRequest) ||
		errors.Is(err, errs.ErrInvalidPayload) ||
		errors.Is(err, errs.ErrRequiredBodyParam) ||
		errors.Is(err, errs.ErrInvalidContentType) ||
		errors.Is(err, errs.ErrInvalidPhone) ||
		errors.Is(err, io.EOF):
		code = http.StatusBadRequest

	// Status Too Many Requests.
	case errors.Is(err, errs.ErrRateLimit):
		code = http.StatusTooManyRequests

	// Status Conflict: the stored document moved on underneath us.
	case errors.Is(err, errs.ErrRevisionMismatch):
		code = http.StatusConflict

	// Status Bad Gateway: the remote store failed the save.
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
