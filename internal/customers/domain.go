package customers

import (
	"errors"
	"time"
)

// DateOfBirthLayout is the only accepted date_of_birth format.
const DateOfBirthLayout = "2006-01-02"

// ErrNotFound is returned by repositories when no record matches the ID.
var ErrNotFound = errors.New("customer not found")

// Customer is a registry record. Blank strings mean the field was never
// captured.
type Customer struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	DateOfBirth string    `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch carries the subset of fields a client may change. Nil leaves the
// stored value untouched.
type Patch struct {
	PhoneNumber *string
	Address     *string
	Email       *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.PhoneNumber == nil && p.Address == nil && p.Email == nil
}

// Apply returns a copy of c with the patch applied and UpdatedAt moved to at.
// UpdatedAt never moves backwards.
func (p Patch) Apply(c Customer, at time.Time) Customer {
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if at.After(c.UpdatedAt) {
		c.UpdatedAt = at
	}
	return c
}

var seededAt = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

// SeedCustomers returns the fixture records the service boots with.
func SeedCustomers() []Customer {
	return []Customer{
		{
			ID:          1,
			FirstName:   "Julia",
			LastName:    "Kordick",
			Email:       "julia.kordick@example.com",
			PhoneNumber: "+1-555-0123",
			Address:     "123 Main St, New York, NY 10001",
			DateOfBirth: "1985-03-15",
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
		{
			ID:          2,
			FirstName:   "Alexander",
			LastName:    "Wachtel",
			Email:       "alexander.wachtel@example.com",
			PhoneNumber: "+1-555-0456",
			Address:     "456 Oak Ave, Boston, MA 02101",
			DateOfBirth: "1978-11-22",
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
		{
			ID:          3,
			FirstName:   "Igor",
			LastName:    "Rykhlevskyi",
			Email:       "igor.rykhlevskyi@example.com",
			PhoneNumber: "+1-555-0789",
			Address:     "789 Pine Rd, San Francisco, CA 94102",
			DateOfBirth: "1990-07-08",
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
	}
}
