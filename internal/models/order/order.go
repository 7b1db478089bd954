package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is one purchase record. An order is created exactly once at
// form submit; only Delivered changes afterwards.
type Order struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	Quantity  int       `json:"quantity"`
	Total     int64     `json:"total"`
	Date      time.Time `json:"date"`
	Delivered bool      `json:"delivered"`
}

// List holds all recorded orders, newest first.
type List []Order

// Prepend returns the list with o inserted at the front.
func (l List) Prepend(o Order) List {
	return append(List{o}, l...)
}

// Find returns the index of the order with the given id, or -1.
func (l List) Find(id uuid.UUID) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
