package risk

// Recommend returns advisory strings for a level. The result is never empty.
func Recommend(level Level, age int, area AreaType) []string {
	switch level {
	case LevelLow:
		recs := []string{"Standard coverage recommended", "Consider loyalty discount eligibility"}
		if age >= 26 && age <= 45 {
			recs = append(recs, "Prime demographic - consider premium package options")
		}
		return recs
	case LevelModerate:
		recs := []string{"Standard coverage recommended", "Monitor profile for improvements"}
		if age >= 65 {
			recs = append(recs, "Consider senior-specific coverage options")
		}
		if area == AreaUrban {
			recs = append(recs, "Urban area - consider comprehensive theft protection")
		}
		return recs
	default:
		recs := []string{"Enhanced screening recommended", "Additional underwriting review required"}
		if age <= 25 {
			recs = append(recs, "Young driver - consider defensive driving course discount")
		}
		return recs
	}
}
