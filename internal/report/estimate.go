package report

import (
	"github.com/shopspring/decimal"
)

// Consumption multiplies each line's per-student quantity by students.
// The arithmetic is exact, so the result is linear in students.
func Consumption(plan []PlanLine, students int) []ConsumptionLine {
	n := decimal.NewFromInt(int64(students))

	lines := make([]ConsumptionLine, 0, len(plan))
	for _, p := range plan {
		qty := p.QuantityPerStudent.Mul(n)
		cost := decimal.Zero
		if p.CostPerUnit != nil {
			cost = qty.Mul(*p.CostPerUnit)
		}
		lines = append(lines, ConsumptionLine{PlanLine: p, Quantity: qty, Cost: cost})
	}
	return lines
}

// Cost sums line costs; lines without a price contribute zero.
func Cost(lines []ConsumptionLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Cost)
	}
	return total
}

// Summarize groups servings by school, preserving first-seen school order.
func Summarize(servings []Serving) ([]SchoolSummary, Totals, decimal.Decimal) {
	schools := []SchoolSummary{}
	index := map[int64]int{}
	totals := Totals{}
	cost := decimal.Zero

	for _, s := range servings {
		i, ok := index[s.SchoolID]
		if !ok {
			i = len(schools)
			index[s.SchoolID] = i
			schools = append(schools, SchoolSummary{
				SchoolID:      s.SchoolID,
				SchoolName:    s.SchoolName,
				SchoolCode:    s.SchoolCode,
				EstimatedCost: decimal.Zero,
			})
		}

		c := s.EstimatedCost()
		sc := &schools[i]
		sc.Totals.add(s)
		sc.EstimatedCost = sc.EstimatedCost.Add(c)

		totals.add(s)
		cost = cost.Add(c)
	}
	return schools, totals, cost
}

func (t *Totals) add(s Serving) {
	t.Records++
	t.MealsServed += int64(s.MealsServed)
	t.StudentsPresent += int64(s.StudentsPresent)
}
