package risk

// Weights are in tenths and sum to ten.
const (
	ageWeight          = 3
	locationWeight     = 4
	completenessWeight = 3
)

// Aggregate combines the factors into a 0-100 score. The weighted sum is kept
// in integer tenths and rounded half away from zero, so 81.5 becomes 82.
func Aggregate(f Factors) int {
	tenths := f.Age.Score*ageWeight + f.Location.Score*locationWeight + f.Completeness.Score*completenessWeight
	if tenths < 0 {
		return -((-tenths + 5) / 10)
	}
	return (tenths + 5) / 10
}

// LevelFor buckets a score.
func LevelFor(score int) Level {
	switch {
	case score >= 85:
		return LevelLow
	case score >= 70:
		return LevelModerate
	default:
		return LevelHigh
	}
}
