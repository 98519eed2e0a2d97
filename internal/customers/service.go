package customers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

// UpdateListener is told about every accepted update. Failures are logged and
// never fail the update itself.
type UpdateListener interface {
	CustomerUpdated(ctx context.Context, c Customer) error
}

// ServiceConfig carries optional collaborators.
type ServiceConfig struct {
	Now      func() time.Time
	Listener UpdateListener
	Logger   *slog.Logger
}

type Service struct {
	repo      Repository
	validator *validator.Validate
	now       func() time.Time
	listener  UpdateListener
	logger    *slog.Logger
}

func NewService(repo Repository, cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		validator: newValidator(),
		now:       now,
		listener:  cfg.Listener,
		logger:    logger,
	}
}

// ParseID converts a path segment into a customer ID.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, httpx.Errorf(httpx.ErrInvalidArgument, "Invalid customer ID")
	}
	if id < 1 {
		return 0, httpx.Errorf(httpx.ErrInvalidArgument, "Customer ID must be a positive integer")
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.translate(id, err)
	}
	return c, nil
}

// List returns every customer ordered by ID.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	return out, nil
}

// Update validates req and applies it. Field violations are reported before
// the empty-body check so a client learns about every bad field at once.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if err := s.validateUpdate(req); err != nil {
		return nil, err
	}
	patch := req.Patch()
	if patch.Empty() {
		return nil, httpx.Errorf(httpx.ErrInvalidArgument,
			"Request must include at least one updatable field (phone_number, address, email)")
	}
	c, err := s.repo.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, s.translate(id, err)
	}
	if s.listener != nil {
		if err := s.listener.CustomerUpdated(ctx, *c); err != nil {
			s.logger.Warn("customer update listener", slog.Int64("customer_id", id), slog.Any("error", err))
		}
	}
	return c, nil
}

func (s *Service) translate(id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return httpx.Errorf(httpx.ErrNotFound, fmt.Sprintf("Customer with ID %d not found", id))
	}
	return fmt.Errorf("customers: %w", err)
}
