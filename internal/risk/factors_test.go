package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/customer-profile/internal/customers"
)

func TestAgeOnBirthdayBoundary(t *testing.T) {
	cases := []struct {
		name string
		dob  string
		now  time.Time
		want int
	}{
		{"day before birthday", "1985-03-15", time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC), 39},
		{"on birthday", "1985-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 40},
		{"later month", "1985-03-15", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 40},
		{"leap day before", "2000-02-29", time.Date(2021, 2, 28, 12, 0, 0, 0, time.UTC), 20},
		{"leap day after", "2000-02-29", time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC), 21},
		{"born today", "2025-06-01", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AgeOn(tc.dob, tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAgeOnRejectsMalformedDates(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, dob := range []string{"15/03/1985", "1985-02-30", "not-a-date", "1985-3-15"} {
		_, err := AgeOn(dob, now)
		assert.ErrorIs(t, err, ErrInvalidDate, dob)
	}
}

func TestAgeFactorBands(t *testing.T) {
	cases := []struct {
		age   int
		score int
		desc  string
	}{
		{17, 50, "Age 17 - insufficient data for assessment"},
		{18, 65, "Age 18 - higher risk demographic"},
		{25, 65, "Age 25 - higher risk demographic"},
		{26, 85, "Age 26 - lower risk demographic"},
		{45, 85, "Age 45 - lower risk demographic"},
		{46, 75, "Age 46 - moderate risk demographic"},
		{65, 75, "Age 65 - moderate risk demographic"},
		{66, 67, "Age 66 - higher risk demographic"},
		{104, 67, "Age 104 - higher risk demographic"},
		{-3, 50, "Age -3 - insufficient data for assessment"},
	}
	for _, tc := range cases {
		got := AgeFactor(tc.age)
		assert.Equal(t, Factor{Score: tc.score, Description: tc.desc}, got, "age %d", tc.age)
	}
}

func TestAgeFactorPrimeBandIs85(t *testing.T) {
	for age := 26; age <= 45; age++ {
		assert.Equal(t, 85, AgeFactor(age).Score)
	}
}

func TestLocationFactor(t *testing.T) {
	cases := []struct {
		address string
		score   int
		desc    string
		area    AreaType
	}{
		{"", 60, "Insufficient address data for assessment", AreaUnknown},
		{"  ab  ", 60, "Insufficient address data for assessment", AreaUnknown},
		{"123 Main St, New York, NY 10001", 70, "Urban area - moderate crime rates (ZIP 10001)", AreaUrban},
		{"12 Harvard Sq, CAMBRIDGE", 75, "Urban area - moderate crime rates", AreaUrban},
		{"1 Market Street, Chicago", 65, "Urban area - higher cost of living", AreaUrban},
		{"742 Evergreen Terrace Avenue", 72, "Urban street address - moderate risk", AreaUrban},
		{"12 Maple Lane 30301", 82, "Suburban area - lower risk (ZIP 30301)", AreaSuburban},
		{"Rural Route 5, Polk County", 75, "Rural area - variable risk", AreaRural},
		{"PO Box 12, Springfield", 70, "Area analysis - moderate risk assessment", AreaUnknown},
		{"Somewhere 123456", 70, "Area analysis - moderate risk assessment", AreaUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.address, func(t *testing.T) {
			factor, area := LocationFactor(tc.address)
			assert.Equal(t, tc.score, factor.Score)
			assert.Equal(t, tc.desc, factor.Description)
			assert.Equal(t, tc.area, area)
		})
	}
}

func TestExtractZIP(t *testing.T) {
	zip, ok := ExtractZIP("456 Oak Ave, Boston, MA 02101")
	require.True(t, ok)
	assert.Equal(t, "02101", zip)

	_, ok = ExtractZIP("Unit 1234567")
	assert.False(t, ok)
}

func TestCompletenessFactor(t *testing.T) {
	full := customers.SeedCustomers()[0]
	assert.Equal(t, Factor{Score: 95, Description: "Complete profile with verified contact info"}, CompletenessFactor(full))

	partial := full
	partial.Email = ""
	partial.PhoneNumber = "   "
	assert.Equal(t, Factor{Score: 77, Description: "Profile missing 2 field(s): email, phone_number"}, CompletenessFactor(partial))

	sparse := full
	sparse.FirstName = ""
	sparse.LastName = ""
	sparse.Address = "\t"
	assert.Equal(t, Factor{Score: 60, Description: "Incomplete profile missing 3 fields: first_name, last_name, address"}, CompletenessFactor(sparse))
}

func TestAggregateRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		age, location, completeness int
		want                        int
		level                       Level
	}{
		{85, 70, 95, 82, LevelModerate},
		{75, 60, 60, 65, LevelHigh}, // 64.5
		{85, 82, 95, 87, LevelLow},  // 86.8
		{85, 75, 95, 84, LevelModerate},
		{0, 0, 0, 0, LevelHigh},
		{100, 100, 100, 100, LevelLow},
	}
	for _, tc := range cases {
		score := Aggregate(Factors{
			Age:          Factor{Score: tc.age},
			Location:     Factor{Score: tc.location},
			Completeness: Factor{Score: tc.completeness},
		})
		assert.Equal(t, tc.want, score)
		assert.Equal(t, tc.level, LevelFor(score))
	}
}

func TestLevelForBoundaries(t *testing.T) {
	assert.Equal(t, LevelLow, LevelFor(85))
	assert.Equal(t, LevelModerate, LevelFor(84))
	assert.Equal(t, LevelModerate, LevelFor(70))
	assert.Equal(t, LevelHigh, LevelFor(69))
}

func TestRecommend(t *testing.T) {
	assert.Equal(t, []string{
		"Standard coverage recommended",
		"Consider loyalty discount eligibility",
		"Prime demographic - consider premium package options",
	}, Recommend(LevelLow, 30, AreaSuburban))

	assert.Equal(t, []string{
		"Standard coverage recommended",
		"Consider loyalty discount eligibility",
	}, Recommend(LevelLow, 50, AreaUrban))

	assert.Equal(t, []string{
		"Standard coverage recommended",
		"Monitor profile for improvements",
		"Consider senior-specific coverage options",
		"Urban area - consider comprehensive theft protection",
	}, Recommend(LevelModerate, 70, AreaUrban))

	assert.Equal(t, []string{
		"Enhanced screening recommended",
		"Additional underwriting review required",
		"Young driver - consider defensive driving course discount",
	}, Recommend(LevelHigh, 19, AreaRural))

	for _, level := range []Level{LevelLow, LevelModerate, LevelHigh} {
		assert.NotEmpty(t, Recommend(level, 0, AreaUnknown))
	}
}
