package risk

import (
	"fmt"

	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

const (
	// EliteAge skips range validation and returns EasterEgg instead of a bracket.
	EliteAge = 1337
	MaxAge   = 150
)

// Bracket describes the underwriting view of an age range.
type Bracket struct {
	Age             int      `json:"age"`
	AgeRange        string   `json:"age_range"`
	RiskLevel       string   `json:"risk_level"`
	RiskFactors     []string `json:"risk_factors"`
	PremiumModifier string   `json:"premium_modifier"`
	Description     string   `json:"description"`
}

type EasterEgg struct {
	Age         int    `json:"age"`
	Message     string `json:"message"`
	Joke        string `json:"joke"`
	EliteStatus string `json:"elite_status"`
}

type bracketRule struct {
	below    int
	label    string
	level    string
	factors  []string
	modifier string
}

// Ordered by upper bound; the last rule catches the rest of [0, MaxAge].
var bracketRules = []bracketRule{
	{18, "Under 18", "Low", []string{"Limited driving experience", "Parental supervision typically required"}, "Standard with parental discount"},
	{25, "18-24", "High", []string{"Statistically higher accident rates", "Less driving experience", "Higher likelihood of risky behavior"}, "Increased by 50-100%"},
	{40, "25-39", "Low to Medium", []string{"Generally responsible driving behavior", "Established driving history"}, "Standard rate"},
	{60, "40-59", "Low", []string{"Extensive driving experience", "Lower accident rates", "Mature decision-making"}, "Reduced by 10-20%"},
	{75, "60-74", "Medium", []string{"Potential health-related concerns", "Slower reaction times", "Senior discount eligibility"}, "Standard rate with senior discount"},
	{MaxAge + 1, "75+", "High", []string{"Increased health concerns", "Vision and mobility challenges", "Higher accident severity"}, "Increased by 30-50%"},
}

// EasterEggFor returns the payload served for EliteAge.
func EasterEggFor(age int) EasterEgg {
	return EasterEgg{
		Age:         age,
		Message:     "🎉 You found the easter egg! 🎉",
		Joke:        "Why do programmers prefer dark mode? Because light attracts bugs! 🐛💡",
		EliteStatus: "1337 - You are truly elite!",
	}
}

// BracketFor returns the bracket containing age, which must be in [0, MaxAge].
func BracketFor(age int) (*Bracket, error) {
	if age < 0 {
		return nil, httpx.Errorf(httpx.ErrInvalidArgument, "Age must be a non-negative integer")
	}
	if age > MaxAge {
		return nil, httpx.Errorf(httpx.ErrInvalidArgument, fmt.Sprintf("Age must be %d or less", MaxAge))
	}
	rule := bracketRules[len(bracketRules)-1]
	for _, candidate := range bracketRules {
		if age < candidate.below {
			rule = candidate
			break
		}
	}
	return &Bracket{
		Age:             age,
		AgeRange:        rule.label,
		RiskLevel:       rule.level,
		RiskFactors:     append([]string(nil), rule.factors...),
		PremiumModifier: rule.modifier,
		Description:     fmt.Sprintf("Risk assessment for customers in the %s age range", rule.label),
	}, nil
}

// AssessAge resolves an age query to either the easter egg or a bracket.
func AssessAge(age int) (any, error) {
	if age == EliteAge {
		return EasterEggFor(age), nil
	}
	bracket, err := BracketFor(age)
	if err != nil {
		return nil, err
	}
	return bracket, nil
}
