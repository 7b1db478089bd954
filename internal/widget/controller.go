// Package widget drives the storefront view state: which of the three
// views is visible, the quantity stepper and the image carousel. All
// state is owned by the Controller and mutated through its methods;
// nothing lives in package scope.
package widget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/bizzon-vn/bepnhanga/pkg/vntext"
	"github.com/shopspring/decimal"
)

// View names one of the three widget views. Exactly one is current.
type View string

const (
	ViewProduct    View = "product"
	ViewOrderEntry View = "order"
	ViewPayment    View = "payment"
)

// State is a point-in-time snapshot of the widget, as rendered.
type State struct {
	View      View   `json:"view"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
	TotalText string `json:"total_text"`
	Slide     int    `json:"slide"`
	Busy      bool   `json:"busy"`
}

// Controller is the widget state machine for one buyer session.
type Controller struct {
	mu sync.Mutex

	view     View
	quantity int
	slide    int
	busy     bool

	unitPrice decimal.Decimal
	slides    int
	interval  time.Duration
}

func NewController(unitPrice int64, imageCount int, slideInterval time.Duration) *Controller {
	return &Controller{
		view:      ViewProduct,
		quantity:  1,
		unitPrice: decimal.NewFromInt(unitPrice),
		slides:    imageCount,
		interval:  slideInterval,
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state()
}

func (c *Controller) state() State {
	total := c.total()
	return State{
		View:      c.view,
		Quantity:  c.quantity,
		Total:     total,
		TotalText: vntext.FormatVND(total),
		Slide:     c.slide,
		Busy:      c.busy,
	}
}

func (c *Controller) total() int64 {
	return c.unitPrice.Mul(decimal.NewFromInt(int64(c.quantity))).IntPart()
}

// Quantity stepper. Increment is unbounded; decrement is a no-op at 1.
// Every change yields a freshly computed total in the returned state.

func (c *Controller) Increment() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quantity++

	return c.state()
}

func (c *Controller) Decrement() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quantity > 1 {
		c.quantity--
	}

	return c.state()
}

// Carousel. The index stays in [0, N) in both directions.

func (c *Controller) NextSlide() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slide = (c.slide + 1) % c.slides

	return c.state()
}

func (c *Controller) PrevSlide() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slide = (c.slide - 1 + c.slides) % c.slides

	return c.state()
}

// View transitions. Invalid transitions are rejected so a stale or
// duplicated widget event cannot corrupt the session.

// ProceedToOrder moves Product -> OrderEntry, refreshing the order
// summary in the returned state.
func (c *Controller) ProceedToOrder() (State, error) {
	return c.transition(ViewProduct, ViewOrderEntry)
}

// Back moves OrderEntry -> Product or Payment -> OrderEntry.
func (c *Controller) Back() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.view {
	case ViewOrderEntry:
		c.view = ViewProduct
	case ViewPayment:
		c.view = ViewOrderEntry
	default:
		return c.state(), fmt.Errorf("%w: cannot go back from %s view",
			errs.ErrInvalidRequest, c.view)
	}

	return c.state(), nil
}

// Home moves Payment -> Product and resets the session to its initial
// values: quantity 1, form cleared on the client.
func (c *Controller) Home() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewPayment {
		return c.state(), fmt.Errorf("%w: home is only available from the payment view",
			errs.ErrInvalidRequest)
	}

	c.view = ViewProduct
	c.quantity = 1
	c.busy = false

	return c.state(), nil
}

// ToPayment moves OrderEntry -> Payment. Only the order pipeline calls
// it, after a successful submit.
func (c *Controller) ToPayment() (State, error) {
	return c.transition(ViewOrderEntry, ViewPayment)
}

func (c *Controller) transition(from, to View) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != from {
		return c.state(), fmt.Errorf("%w: %s view expected, current is %s",
			errs.ErrInvalidRequest, from, c.view)
	}
	c.view = to

	return c.state(), nil
}

// BeginSubmit marks the session busy for the duration of a persistence
// call; the submit control stays disabled until EndSubmit. A second
// submit while busy is rejected.
func (c *Controller) BeginSubmit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewOrderEntry {
		return fmt.Errorf("%w: submit is only available from the order view",
			errs.ErrInvalidRequest)
	}
	if c.busy {
		return fmt.Errorf("%w: a submission is already in progress",
			errs.ErrInvalidRequest)
	}
	c.busy = true

	return nil
}

// EndSubmit restores the submit control regardless of the outcome.
func (c *Controller) EndSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
}

// Run auto-advances the carousel on a fixed interval while the Product
// view is active. It blocks until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.view == ViewProduct {
				c.slide = (c.slide + 1) % c.slides
			}
			c.mu.Unlock()
		}
	}
}
