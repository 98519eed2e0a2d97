package risk

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/odyssey-erp/customer-profile/internal/customers"
)

type ageBand struct {
	min, max int
	score    int
	label    string
}

var ageBands = []ageBand{
	{min: 18, max: 25, score: 65, label: "higher risk demographic"},
	{min: 26, max: 45, score: 85, label: "lower risk demographic"},
	{min: 46, max: 65, score: 75, label: "moderate risk demographic"},
	{min: 66, max: math.MaxInt, score: 67, label: "higher risk demographic"},
}

// AgeFactor scores an age in years.
func AgeFactor(age int) Factor {
	for _, band := range ageBands {
		if age >= band.min && age <= band.max {
			return Factor{Score: band.score, Description: fmt.Sprintf("Age %d - %s", age, band.label)}
		}
	}
	return Factor{Score: 50, Description: fmt.Sprintf("Age %d - insufficient data for assessment", age)}
}

type locationRule struct {
	area        AreaType
	indicators  []string
	score       int
	description string
}

// Evaluated in order; the first rule with a matching indicator wins.
var locationRules = []locationRule{
	{AreaUrban, []string{"new york", "brooklyn", "manhattan", "bronx", "queens"}, 70, "Urban area - moderate crime rates"},
	{AreaUrban, []string{"boston", "cambridge"}, 75, "Urban area - moderate crime rates"},
	{AreaUrban, []string{"san francisco", "los angeles", "chicago"}, 65, "Urban area - higher cost of living"},
	{AreaUrban, []string{"avenue", "street", "boulevard"}, 72, "Urban street address - moderate risk"},
	{AreaSuburban, []string{"road", "lane", "drive", "suburb"}, 82, "Suburban area - lower risk"},
	{AreaRural, []string{"rural", "county", "farm", "ranch"}, 75, "Rural area - variable risk"},
}

var fallbackLocation = locationRule{area: AreaUnknown, score: 70, description: "Area analysis - moderate risk assessment"}

const minAddressLength = 5

var zipPattern = regexp.MustCompile(`\b(\d{5})\b`)

// ExtractZIP returns the first standalone five-digit group in address.
func ExtractZIP(address string) (string, bool) {
	m := zipPattern.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LocationFactor scores an address and reports the area it was classified as.
func LocationFactor(address string) (Factor, AreaType) {
	if utf8.RuneCountInString(strings.TrimSpace(address)) < minAddressLength {
		return Factor{Score: 60, Description: "Insufficient address data for assessment"}, AreaUnknown
	}
	// cases.Caser keeps state, so each call gets its own.
	folded := cases.Fold().String(address)
	rule := fallbackLocation
	for _, candidate := range locationRules {
		if containsAny(folded, candidate.indicators) {
			rule = candidate
			break
		}
	}
	description := rule.description
	if zip, ok := ExtractZIP(address); ok {
		description += " (ZIP " + zip + ")"
	}
	return Factor{Score: rule.score, Description: description}, rule.area
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

var profileFields = []struct {
	name  string
	value func(customers.Customer) string
}{
	{"first_name", func(c customers.Customer) string { return c.FirstName }},
	{"last_name", func(c customers.Customer) string { return c.LastName }},
	{"email", func(c customers.Customer) string { return c.Email }},
	{"phone_number", func(c customers.Customer) string { return c.PhoneNumber }},
	{"address", func(c customers.Customer) string { return c.Address }},
	{"date_of_birth", func(c customers.Customer) string { return c.DateOfBirth }},
}

// MissingFields lists the profile fields that are blank, in display order.
func MissingFields(c customers.Customer) []string {
	var missing []string
	for _, field := range profileFields {
		if strings.TrimSpace(field.value(c)) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// CompletenessFactor scores how much of the profile is filled in.
func CompletenessFactor(c customers.Customer) Factor {
	missing := MissingFields(c)
	switch n := len(missing); {
	case n == 0:
		return Factor{Score: 95, Description: "Complete profile with verified contact info"}
	case n <= 2:
		return Factor{Score: 77, Description: fmt.Sprintf("Profile missing %d field(s): %s", n, strings.Join(missing, ", "))}
	default:
		return Factor{Score: 60, Description: fmt.Sprintf("Incomplete profile missing %d fields: %s", n, strings.Join(missing, ", "))}
	}
}
