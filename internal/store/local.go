package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/google/uuid"
)

// Local keeps the order list in a single named JSON file. It is a
// single-writer, same-process backend, so no revision tokens are
// needed; a mutex serializes the read-modify-write cycles.
type Local struct {
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

func NewLocal(path string, logger logger.Logger) (*Local, error) {
	if path == "" {
		return nil, errors.New("empty local store path")
	}
	return &Local{path: path, logger: logger}, nil
}

var _ Store = (*Local)(nil)

func (s *Local) List(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{Orders: s.load()}, nil
}

func (s *Local) Append(_ context.Context, o order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(s.load().Prepend(o))
}

func (s *Local) SetDelivered(_ context.Context, id uuid.UUID, delivered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.load()

	i := orders.Find(id)
	if i < 0 {
		return fmt.Errorf("order %s: %w", id, errs.ErrNotFound)
	}

	orders[i].Delivered = delivered

	return s.save(orders)
}

// load reads the whole entry. Missing or unparseable content yields an
// empty list.
func (s *Local) load() order.List {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Errorf("read order file %s: %s", s.path, err)
		}
		return order.List{}
	}

	var orders order.List
	if err = json.Unmarshal(data, &orders); err != nil {
		s.logger.Errorf("parse order file %s: %s", s.path, err)
		return order.List{}
	}

	return orders
}

// save overwrites the whole entry.
func (s *Local) save(orders order.List) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	if err = os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write order file %s: %w", s.path, err)
	}

	return nil
}
