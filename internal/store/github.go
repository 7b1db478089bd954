package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/internal/models/errs"
	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/google/uuid"
)

// GitHub keeps the order list as a JSON file in a repository, read and
// replaced whole through the contents API. Concurrent cross-session
// writers are detected by the file blob SHA: every write carries the
// SHA of the read that preceded it and is rejected when the file has
// moved on.
type GitHub struct {
	config config.GitHub
	client *http.Client
	logger logger.Logger
}

func NewGitHub(config config.GitHub, logger logger.Logger) (*GitHub, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("github store requires a token")
	}

	return &GitHub{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

var _ Store = (*GitHub)(nil)

// contentResponse is the contents API read payload.
type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// putRequest is the contents API whole-file replace payload.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	// Omitted on file creation; required to update an existing file.
	SHA string `json:"sha,omitempty"`
}

// apiError is the contents API failure payload.
type apiError struct {
	Message string `json:"message"`
}

func (s *GitHub) List(ctx context.Context) (Snapshot, error) {
	orders, rev, err := s.read(ctx)
	if err != nil {
		// Degraded read: no data, no token, no user-facing failure.
		s.logger.Errorf("read remote orders: %s", err)
		return Snapshot{Orders: order.List{}, Degraded: true}, nil
	}

	return Snapshot{Orders: orders, Rev: rev}, nil
}

func (s *GitHub) Append(ctx context.Context, o order.Order) error {
	// Read the current list and revision immediately before writing.
	// A degraded read leaves the revision empty, which turns the write
	// into a create attempt; the server rejects it if the file exists.
	orders, rev, err := s.read(ctx)
	if err != nil {
		s.logger.Errorf("read before append: %s", err)
		orders, rev = order.List{}, ""
	}

	message := fmt.Sprintf("New order: %s", o.Name)

	return s.write(ctx, orders.Prepend(o), rev, message)
}

func (s *GitHub) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	orders, rev, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err)
	}

	i := orders.Find(id)
	if i < 0 {
		return fmt.Errorf("order %s: %w", id, errs.ErrNotFound)
	}

	orders[i].Delivered = delivered

	message := fmt.Sprintf("Update status order %s", id)

	return s.write(ctx, orders, rev, message)
}

// contentURL addresses the document by owner, repository and path.
func (s *GitHub) contentURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		s.config.APIBase, s.config.Owner, s.config.Repo, s.config.Path)
}

func (s *GitHub) read(ctx context.Context) (order.List, Revision, error) {
	// Cache-defeating query parameter: intermediaries must not serve a
	// stale revision, the SHA is about to authorize a write.
	url := fmt.Sprintf("%s?t=%d", s.contentURL(), time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("build read request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("read document: status %d", res.StatusCode)
	}

	var payload contentResponse
	if err = json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("decode read response: %w", err)
	}

	// The API wraps base64 content in newlines.
	raw, err := base64.StdEncoding.DecodeString(
		strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode document content: %w", err)
	}

	var orders order.List
	if err = json.Unmarshal(raw, &orders); err != nil {
		// The document exists but does not parse; treat as empty while
		// keeping the revision so a write replaces it in place.
		s.logger.Errorf("parse remote orders: %s", err)
		orders = order.List{}
	}

	return orders, Revision(payload.SHA), nil
}

func (s *GitHub) write(ctx context.Context, orders order.List, rev Revision, message string) error {
	content, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	body, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     string(rev),
	})
	if err != nil {
		return fmt.Errorf("marshal write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPut, s.contentURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build write request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var payload apiError
	_ = json.NewDecoder(res.Body).Decode(&payload)

	// Conflict and unprocessable responses mean the revision no longer
	// matches the stored file.
	if res.StatusCode == http.StatusConflict ||
		res.StatusCode == http.StatusUnprocessableEntity {
		if payload.Message != "" {
			return fmt.Errorf("%w: %s", errs.ErrRevisionMismatch, payload.Message)
		}
		return errs.ErrRevisionMismatch
	}

	return &errs.SaveFailedError{Reason: payload.Message}
}
