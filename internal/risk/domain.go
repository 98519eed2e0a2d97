// Package risk scores customers for insurance underwriting. Scoring is a pure
// function of the customer record and the clock, so it can run concurrently.
package risk

import "time"

// ProfileValidity separates calculated_at from expires_at on every profile.
const ProfileValidity = 7 * 24 * time.Hour

// Level buckets a numeric risk score.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
)

// AreaType is the coarse location class inferred from an address.
type AreaType string

const (
	AreaUrban    AreaType = "urban"
	AreaSuburban AreaType = "suburban"
	AreaRural    AreaType = "rural"
	AreaUnknown  AreaType = "unknown"
)

// Factor is one weighted input to the overall score.
type Factor struct {
	Score       int    `json:"score"`
	Description string `json:"description"`
}

type Factors struct {
	Age          Factor `json:"age_factor"`
	Location     Factor `json:"location_factor"`
	Completeness Factor `json:"profile_completeness"`
}

// Profile is the result of a risk calculation. It is never stored.
type Profile struct {
	CustomerID      int64     `json:"customer_id"`
	RiskScore       int       `json:"risk_score"`
	RiskLevel       Level     `json:"risk_level"`
	RiskFactors     Factors   `json:"risk_factors"`
	Recommendations []string  `json:"recommendations"`
	CalculatedAt    time.Time `json:"calculated_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}
