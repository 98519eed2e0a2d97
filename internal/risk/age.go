package risk

import (
	"errors"
	"fmt"
	"time"

	"github.com/odyssey-erp/customer-profile/internal/customers"
)

// ErrInvalidDate is returned when a birth date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("risk: invalid date format")

// AgeOn returns the whole years between dob and now. The birthday counts from
// its calendar day in now's location.
func AgeOn(dob string, now time.Time) (int, error) {
	birth, err := time.Parse(customers.DateOfBirthLayout, dob)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, dob)
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, nil
}
