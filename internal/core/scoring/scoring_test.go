package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestComputeWorkedExample(t *testing.T) {
	// severe, income 2500, 3 dependants, senior, solo parent
	in := Input{
		Severity:      SeveritySevere,
		MonthlyIncome: floatPtr(2500),
		Dependants:    intPtr(3),
		Age:           65,
		IsSoloParent:  true,
	}

	s := Compute(in)

	assert.Equal(t, 5, s.SeverityScore)
	assert.Equal(t, 8, s.IncomeScore)
	assert.Equal(t, 4, s.DependantsScore)
	assert.Equal(t, 2, s.SeniorBonus)
	assert.Equal(t, 2, s.SoloParentBonus)
	assert.Equal(t, 47.0, s.TotalScore)
	assert.Equal(t, 78, s.PercentageScore)
	assert.Equal(t, LabelHigh, s.Label)
}

func TestComputeDeterministic(t *testing.T) {
	in := Input{
		Severity:      SeverityModerate,
		MonthlyIncome: floatPtr(7200),
		Dependants:    intPtr(2),
		Age:           41,
	}

	first := Compute(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Compute(in))
	}
}

func TestComputeAbsentInputsFloor(t *testing.T) {
	// All-absent input still earns the no-income branch score.
	s := Compute(Input{})

	assert.Equal(t, 1, s.SeverityScore)
	assert.Equal(t, 10, s.IncomeScore)
	assert.Equal(t, 1, s.DependantsScore)
	assert.Equal(t, 0, s.SeniorBonus)
	assert.Equal(t, 0, s.SoloParentBonus)
	assert.Equal(t, 30.0, s.TotalScore)
	assert.Equal(t, 50, s.PercentageScore)
	assert.Equal(t, LabelMedium, s.Label)
}

func TestComputeZeroIncomeSameAsAbsent(t *testing.T) {
	absent := Compute(Input{Severity: SeverityMild})
	zero := Compute(Input{Severity: SeverityMild, MonthlyIncome: floatPtr(0)})
	assert.Equal(t, absent, zero)
}

func TestIncomeBoundariesTakeHigherScore(t *testing.T) {
	cases := []struct {
		income float64
		want   int
	}{
		{1, 8},
		{3000, 8},
		{3000.01, 6},
		{6000, 6},
		{10000, 4},
		{15000, 2},
		{15000.01, 1},
		{50000, 1},
	}
	for _, tc := range cases {
		s := Compute(Input{MonthlyIncome: floatPtr(tc.income)})
		assert.Equal(t, tc.want, s.IncomeScore, "income %.2f", tc.income)
	}
}

func TestDependantsScoreCaps(t *testing.T) {
	cases := []struct {
		dependants int
		want       int
	}{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {9, 5},
	}
	for _, tc := range cases {
		s := Compute(Input{Dependants: intPtr(tc.dependants)})
		assert.Equal(t, tc.want, s.DependantsScore, "dependants %d", tc.dependants)
	}
}

func TestPercentageWithinBounds(t *testing.T) {
	severities := []string{"", SeverityMild, SeverityModerate, SeveritySevere, SeverityProfound, "unknown"}
	incomes := []*float64{nil, floatPtr(0), floatPtr(2500), floatPtr(5000), floatPtr(9000), floatPtr(12000), floatPtr(99999)}
	dependants := []*int{nil, intPtr(0), intPtr(1), intPtr(3), intPtr(7)}

	for _, sev := range severities {
		for _, inc := range incomes {
			for _, dep := range dependants {
				for _, age := range []int{0, 59, 60, 90} {
					for _, solo := range []bool{false, true} {
						s := Compute(Input{Severity: sev, MonthlyIncome: inc, Dependants: dep, Age: age, IsSoloParent: solo})
						assert.GreaterOrEqual(t, s.PercentageScore, 0)
						assert.LessOrEqual(t, s.PercentageScore, 100)
					}
				}
			}
		}
	}
}

func TestMaximumAttributesHitCeiling(t *testing.T) {
	s := Compute(Input{
		Severity:      SeverityProfound,
		MonthlyIncome: nil,
		Dependants:    intPtr(6),
		Age:           72,
		IsSoloParent:  true,
	})
	assert.Equal(t, 60.0, s.TotalScore)
	assert.Equal(t, 100, s.PercentageScore)
	assert.Equal(t, LabelVeryHigh, s.Label)
}

func TestRankStableOnTies(t *testing.T) {
	type candidate struct {
		Name string
		In   Input
	}
	// b and c share identical attributes, so identical scores; a outranks both.
	items := []candidate{
		{Name: "b", In: Input{Severity: SeverityMild}},
		{Name: "c", In: Input{Severity: SeverityMild}},
		{Name: "a", In: Input{Severity: SeverityProfound, Dependants: intPtr(4), Age: 66, IsSoloParent: true}},
	}

	Rank(items, func(c candidate) Score { return Compute(c.In) })

	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)
	assert.Equal(t, "c", items[2].Name)
}
