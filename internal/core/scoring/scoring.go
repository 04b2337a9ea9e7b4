package scoring

import (
	"math"
	"sort"
)

// Severity levels recognized by the priority formula
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
	SeverityProfound = "profound"
)

// Priority labels (bucketed from percentage score)
const (
	LabelVeryHigh = "Very High"
	LabelHigh     = "High"
	LabelMedium   = "Medium"
	LabelStandard = "Standard"
)

// maxPossibleScore = 7*3 + 10*2.5 + 5*2 + 2 + 2
const maxPossibleScore = 60.0

// Input holds the member attributes the priority formula reads.
// Nil pointers mean the attribute is absent (or was malformed at the source
// and must be treated as absent).
type Input struct {
	Severity      string
	MonthlyIncome *float64
	Dependants    *int
	Age           int
	IsSoloParent  bool
}

// Score is the full breakdown of a member's priority computation.
// Derived on demand, never persisted: member attributes may change.
type Score struct {
	SeverityScore   int     `json:"severity_score"`
	IncomeScore     int     `json:"income_score"`
	DependantsScore int     `json:"dependants_score"`
	SeniorBonus     int     `json:"senior_bonus"`
	SoloParentBonus int     `json:"solo_parent_bonus"`
	TotalScore      float64 `json:"total_score"`
	PercentageScore int     `json:"percentage_score"`
	Label           string  `json:"label"`
}

// Compute returns the priority score for one member. Pure and deterministic:
// identical inputs always produce identical output.
func Compute(in Input) Score {
	s := Score{
		SeverityScore:   severityScore(in.Severity),
		IncomeScore:     incomeScore(in.MonthlyIncome),
		DependantsScore: dependantsScore(in.Dependants),
	}
	if in.Age >= 60 {
		s.SeniorBonus = 2
	}
	if in.IsSoloParent {
		s.SoloParentBonus = 2
	}

	s.TotalScore = float64(s.SeverityScore)*3 +
		float64(s.IncomeScore)*2.5 +
		float64(s.DependantsScore)*2 +
		float64(s.SeniorBonus) +
		float64(s.SoloParentBonus)
	s.PercentageScore = int(math.Round(s.TotalScore / maxPossibleScore * 100))
	s.Label = labelFor(s.PercentageScore)

	return s
}

func severityScore(severity string) int {
	switch severity {
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 3
	case SeveritySevere:
		return 5
	case SeverityProfound:
		return 7
	default:
		return 1
	}
}

// incomeScore: lower income means higher priority. Checks are ordered
// ascending and the first match wins, so a boundary value takes the
// higher score.
func incomeScore(income *float64) int {
	if income == nil || *income <= 0 {
		return 10
	}
	switch {
	case *income <= 3000:
		return 8
	case *income <= 6000:
		return 6
	case *income <= 10000:
		return 4
	case *income <= 15000:
		return 2
	default:
		return 1
	}
}

func dependantsScore(dependants *int) int {
	if dependants == nil || *dependants <= 0 {
		return 1
	}
	if *dependants >= 4 {
		return 5
	}
	return *dependants + 1
}

// labelFor buckets a percentage score, evaluated high to low.
func labelFor(percentage int) string {
	switch {
	case percentage >= 80:
		return LabelVeryHigh
	case percentage >= 60:
		return LabelHigh
	case percentage >= 40:
		return LabelMedium
	default:
		return LabelStandard
	}
}

// Rank sorts items by percentage score descending, in place. The sort is
// stable: equal scores keep their prior relative order, with no secondary
// key. Ranking screens rely on that for reproducible ordering.
func Rank[T any](items []T, score func(T) Score) {
	sort.SliceStable(items, func(i, j int) bool {
		return score(items[i]).PercentageScore > score(items[j]).PercentageScore
	})
}
