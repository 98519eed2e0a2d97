package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	"github.com/odyssey-erp/customer-profile/internal/observability"
	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

// ErrMissingDateOfBirth is returned for customers without a birth date.
var ErrMissingDateOfBirth = errors.New("risk: date_of_birth missing")

// CustomerReader loads the record a profile is computed from.
type CustomerReader interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// ServiceConfig carries optional collaborators.
type ServiceConfig struct {
	Now     func() time.Time
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Service computes risk profiles.
type Service struct {
	customers CustomerReader
	now       func() time.Time
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewService(reader CustomerReader, cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{customers: reader, now: now, metrics: cfg.Metrics, logger: logger}
}

// ProfileFor loads customer id and scores it.
func (s *Service) ProfileFor(ctx context.Context, id int64) (*Profile, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Calculate(*c)
}

// Calculate scores c against the service clock. It does not modify c.
func (s *Service) Calculate(c customers.Customer) (*Profile, error) {
	profile, err := Calculate(c, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAssessment(string(profile.RiskLevel))
	s.logger.Debug("risk profile calculated",
		slog.Int64("customer_id", c.ID),
		slog.Int("risk_score", profile.RiskScore),
		slog.String("risk_level", string(profile.RiskLevel)),
	)
	return profile, nil
}

// Calculate runs the scoring pipeline for c at now. The birth date must be
// present and well formed; every other field degrades the score instead of
// failing. Age uses now's calendar day; timestamps are stamped in UTC.
func Calculate(c customers.Customer, now time.Time) (*Profile, error) {
	if strings.TrimSpace(c.DateOfBirth) == "" {
		return nil, validationError(ErrMissingDateOfBirth, "Customer date_of_birth is required for risk assessment")
	}
	age, err := AgeOn(c.DateOfBirth, now)
	if err != nil {
		return nil, validationError(err, fmt.Sprintf("Invalid date_of_birth format: %s", c.DateOfBirth))
	}

	location, area := LocationFactor(c.Address)
	factors := Factors{
		Age:          AgeFactor(age),
		Location:     location,
		Completeness: CompletenessFactor(c),
	}
	score := Aggregate(factors)
	level := LevelFor(score)

	return &Profile{
		CustomerID:      c.ID,
		RiskScore:       score,
		RiskLevel:       level,
		RiskFactors:     factors,
		Recommendations: Recommend(level, age, area),
		CalculatedAt:    now.UTC(),
		ExpiresAt:       now.UTC().Add(ProfileValidity),
	}, nil
}

// validationError keeps cause matchable with errors.Is while the client only
// sees msg.
func validationError(cause error, msg string) error {
	return fmt.Errorf("%w: %w", cause, httpx.Errorf(httpx.ErrValidation, msg))
}
