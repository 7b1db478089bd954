// Package admin is the operator-facing surface: the order list, the
// delivered toggle and the live feed.
package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/bizzon-vn/bepnhanga/internal/store"
	"github.com/bizzon-vn/bepnhanga/internal/ws"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/bizzon-vn/bepnhanga/pkg/vntext"
	"github.com/google/uuid"
)

var _ ServerInterface = (*Service)(nil)

// Service implements the admin API.
type Service struct {
	store  store.Store
	hub    *ws.Hub
	logger logger.Logger
}

// New constructs the admin service.
func New(s store.Store, hub *ws.Hub, l logger.Logger) *Service {
	return &Service{store: s, hub: hub, logger: l}
}

// OrderRow is one order as the admin table renders it.
type OrderRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	Quantity  int       `json:"quantity"`
	Total     int64     `json:"total"`
	TotalText string    `json:"total_text"`
	Date      time.Time `json:"date"`
	Delivered bool      `json:"delivered"`
}

// OrdersResponse is the payload of GET /orders. Degraded reports that
// the store could not be read and the rows are an empty placeholder,
// not an empty order book.
type OrdersResponse struct {
	Orders   []OrderRow `json:"orders"`
	Degraded bool       `json:"degraded"`
}

// GetOrders returns every recorded order, newest first.
func (s *Service) GetOrders(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.store.List(r.Context())
	if err != nil {
		ErrorHandlerFunc(w, r, err)
		return
	}

	rows := make([]OrderRow, 0, len(snapshot.Orders))
	for _, o := range snapshot.Orders {
		rows = append(rows, newOrderRow(o))
	}

	respondJSON(w, http.StatusOK, OrdersResponse{
		Orders:   rows,
		Degraded: snapshot.Degraded,
	})
}

// DeliveredEvent is the feed payload for a delivered toggle.
type DeliveredEvent struct {
	ID        uuid.UUID `json:"id"`
	Delivered bool      `json:"delivered"`
}

// SetDelivered flips the delivered mark of one order.
func (s *Service) SetDelivered(
	w http.ResponseWriter, r *http.Request, id uuid.UUID, params SetDeliveredParams,
) {
	if err := s.store.SetDelivered(r.Context(), id, params.Delivered); err != nil {
		s.logger.With(r.Context(), "order", id).Errorf("set delivered: %s", err)
		ErrorHandlerFunc(w, r, err)
		return
	}

	event := DeliveredEvent{ID: id, Delivered: params.Delivered}
	s.hub.Broadcast(ws.NewEvent(ws.EventOrderDelivered, event))

	respondJSON(w, http.StatusOK, event)
}

// Feed upgrades the request to a websocket pushing order events.
// BearerAuth has already vetted the caller.
func (s *Service) Feed(w http.ResponseWriter, r *http.Request) {
	ws.Serve(s.hub, s.logger, w, r)
}

func newOrderRow(o order.Order) OrderRow {
	return OrderRow{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		Quantity:  o.Quantity,
		Total:     o.Total,
		TotalText: vntext.FormatVND(o.Total),
		Date:      o.Date,
		Delivered: o.Delivered,
	}
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
