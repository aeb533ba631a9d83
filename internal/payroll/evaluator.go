package payroll

import (
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Skip reason constants surfaced in Result.Skipped. A skipped category is an
// explicit, reported outcome — never a silent zero.
const (
	SkipNoApplicableRule     = "no applicable rule for bracket"
	SkipDependencyUnresolved = "base category has no computed amount"
)

// Input is everything the evaluator needs. Evaluation is a pure function of
// these values: identical input yields identical output, which is what lets
// assignment rows be recomputed and overwritten safely.
type Input struct {
	BaseSalary decimal.Decimal
	Rules      []model.SalaryRule
	Ranges     []model.SalaryRange
	Kinds      map[uuid.UUID]string // category id -> kind, for the net figure
}

// Skip records a category that produced no amount, with the reason.
type Skip struct {
	CategoryID uuid.UUID `json:"category_id"`
	Reason     string    `json:"reason"`
}

// Result holds the computed amount per category plus the net figure:
// base salary + additions + allowances - deductions.
type Result struct {
	Amounts map[uuid.UUID]decimal.Decimal
	Net     decimal.Decimal
	Skipped []Skip
}

// FindBracket returns the range whose [min, max) interval contains amount,
// treating a nil max as unbounded, or nil when no bracket matches.
func FindBracket(ranges []model.SalaryRange, amount decimal.Decimal) *model.SalaryRange {
	for i := range ranges {
		if ranges[i].Contains(amount) {
			return &ranges[i]
		}
	}
	return nil
}

// Evaluate walks the rules in dependency order and computes one amount per
// category. Per category the most specific rule wins: a rule whose range
// matches the bracket selected for its base amount beats the "applies to all"
// rule; with neither, the category is skipped (reported, not an error).
// Amounts are rounded to 2 decimal places, half up.
func Evaluate(in Input) (*Result, error) {
	order, err := Order(in.Rules)
	if err != nil {
		return nil, err
	}
	byCat := groupByCategory(in.Rules)

	res := &Result{Amounts: make(map[uuid.UUID]decimal.Decimal, len(order))}

	for _, catID := range order {
		rule, skip := selectRule(byCat[catID], in, res.Amounts)
		if rule == nil {
			res.Skipped = append(res.Skipped, Skip{CategoryID: catID, Reason: skip})
			continue
		}

		base, _ := baseFor(*rule, in.BaseSalary, res.Amounts)
		res.Amounts[catID] = applyRule(*rule, base)
	}

	res.Net = net(in.BaseSalary, res.Amounts, in.Kinds)
	return res, nil
}

// selectRule applies the tie-break policy over a category's candidates.
// Candidates arrive range-scoped first (see groupByCategory), so the bracket
// match is found before the fallback is considered.
func selectRule(candidates []model.SalaryRule, in Input, resolved map[uuid.UUID]decimal.Decimal) (*model.SalaryRule, string) {
	var fallback *model.SalaryRule
	skip := SkipNoApplicableRule

	for i := range candidates {
		r := candidates[i]
		base, ok := baseFor(r, in.BaseSalary, resolved)
		if !ok {
			skip = SkipDependencyUnresolved
			continue
		}

		if r.RangeID == nil {
			if fallback == nil {
				fallback = &candidates[i]
			}
			continue
		}

		if br := FindBracket(in.Ranges, base); br != nil && br.ID == *r.RangeID {
			return &candidates[i], ""
		}
	}

	if fallback != nil {
		return fallback, ""
	}
	return nil, skip
}

// baseFor resolves a rule's base amount: the raw base salary, or the already
// computed amount of the referenced category.
func baseFor(r model.SalaryRule, baseSalary decimal.Decimal, resolved map[uuid.UUID]decimal.Decimal) (decimal.Decimal, bool) {
	if r.AppliesToCategoryID == nil {
		return baseSalary, true
	}
	amount, ok := resolved[*r.AppliesToCategoryID]
	return amount, ok
}

func applyRule(r model.SalaryRule, base decimal.Decimal) decimal.Decimal {
	if r.CalculationType == model.CalculationPercentage {
		return base.Mul(r.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return r.Value.Round(2)
}

func net(baseSalary decimal.Decimal, amounts map[uuid.UUID]decimal.Decimal, kinds map[uuid.UUID]string) decimal.Decimal {
	total := baseSalary
	for catID, amount := range amounts {
		switch kinds[catID] {
		case model.CategoryKindAddition, model.CategoryKindAllowance:
			total = total.Add(amount)
		case model.CategoryKindDeduction:
			total = total.Sub(amount)
		}
	}
	return total.Round(2)
}
