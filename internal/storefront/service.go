// Package storefront is the buyer-facing surface: product details,
// widget state and the order submission pipeline.
package storefront

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/bizzon-vn/bepnhanga/internal/payment"
	"github.com/bizzon-vn/bepnhanga/internal/store"
	"github.com/bizzon-vn/bepnhanga/internal/widget"
	"github.com/bizzon-vn/bepnhanga/internal/ws"
	"github.com/bizzon-vn/bepnhanga/pkg/limiter"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/bizzon-vn/bepnhanga/pkg/vntext"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ ServerInterface = (*Service)(nil)

// Notifier pushes order events to the admin feed.
type Notifier interface {
	Broadcast(event ws.Event)
}

// Service implements the storefront API.
type Service struct {
	store    store.Store
	widget   *widget.Controller
	notifier Notifier
	limiter  *limiter.Limiter
	config   *config.Config
	logger   logger.Logger
}

// New constructs the storefront service.
func New(
	s store.Store,
	w *widget.Controller,
	n Notifier,
	cfg *config.Config,
	l logger.Logger,
) *Service {
	return &Service{
		store:    s,
		widget:   w,
		notifier: n,
		limiter:  limiter.New(cfg.RateLimit.Interval, cfg.RateLimit.Burst),
		config:   cfg,
		logger:   l,
	}
}

// ProductResponse is the payload of GET /product.
type ProductResponse struct {
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unit_price"`
	UnitPriceText string `json:"unit_price_text"`
	ImageCount    int    `json:"image_count"`
}

// GetProduct returns the product the storefront sells.
func (s *Service) GetProduct(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, ProductResponse{
		Name:          s.config.Product.Name,
		UnitPrice:     s.config.Product.UnitPrice,
		UnitPriceText: vntext.FormatVND(s.config.Product.UnitPrice),
		ImageCount:    s.config.Product.ImageCount,
	})
}

// GetWidget returns the current widget state.
func (s *Service) GetWidget(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.widget.State())
}

// WidgetEvent applies one widget event and returns the resulting state.
func (s *Service) WidgetEvent(w http.ResponseWriter, r *http.Request, params WidgetEventParams) {
	var (
		state widget.State
		err   error
	)

	switch params.Event {
	case EventIncrement:
		state = s.widget.Increment()
	case EventDecrement:
		state = s.widget.Decrement()
	case EventNextSlide:
		state = s.widget.NextSlide()
	case EventPrevSlide:
		state = s.widget.PrevSlide()
	case EventProceed:
		state, err = s.widget.ProceedToOrder()
	case EventBack:
		state, err = s.widget.Back()
	case EventHome:
		state, err = s.widget.Home()
	}
	if err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// OrderResponse is the payload of a successful POST /orders. It carries
// everything the payment view renders, including the copyable transfer
// details.
type OrderResponse struct {
	OrderID     uuid.UUID    `json:"order_id"`
	Amount      int64        `json:"amount"`
	AmountText  string       `json:"amount_text"`
	Description string       `json:"description"`
	QRURL       string       `json:"qr_url"`
	Widget      widget.State `json:"widget"`
	Bank        BankDetails  `json:"bank"`
}

// BankDetails are the manual-transfer coordinates shown beside the QR.
type BankDetails struct {
	BankID      string `json:"bank_id"`
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
}

// SubmitOrder persists a new order and moves the widget to the payment
// view. The widget stays on the order view when the save fails, so the
// buyer can retry.
func (s *Service) SubmitOrder(w http.ResponseWriter, r *http.Request, params SubmitOrderParams) {
	if !s.limiter.Allow() {
		ErrorHandlerFunc(w, r, errs.ErrRateLimit)
		return
	}

	if err := s.widget.BeginSubmit(); err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	quantity := s.widget.State().Quantity
	total := decimal.NewFromInt(s.config.Product.UnitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		IntPart()

	o := order.Order{
		ID:       uuid.New(),
		Name:     params.Name,
		Phone:    params.Phone,
		Address:  params.Address,
		Quantity: quantity,
		Total:    total,
		Date:     time.Now().UTC(),
	}

	err := s.store.Append(r.Context(), o)
	// Restore the submit control regardless of the outcome; the state
	// returned below must not look busy.
	s.widget.EndSubmit()
	if err != nil {
		s.logger.With(r.Context(), "order", o.ID).Errorf("save order: %s", err)
		ErrorHandlerFunc(w, r, err)
		return
	}

	state, err := s.widget.ToPayment()
	if err != nil {
		// The order is saved; a view race here is not a submit failure.
		s.logger.With(r.Context(), "order", o.ID).Errorf("to payment: %s", err)
		state = s.widget.State()
	}

	s.notifier.Broadcast(ws.NewEvent(ws.EventOrderCreated, o))

	description := payment.Description(params.Name, params.Phone)

	respondJSON(w, http.StatusCreated, OrderResponse{
		OrderID:     o.ID,
		Amount:      total,
		AmountText:  vntext.FormatVND(total),
		Description: description,
		QRURL:       payment.QRURL(s.config.Bank, total, description),
		Widget:      state,
		Bank: BankDetails{
			BankID:      s.config.Bank.BankID,
			AccountNo:   s.config.Bank.AccountNo,
			AccountName: s.config.Bank.AccountName,
		},
	})
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
