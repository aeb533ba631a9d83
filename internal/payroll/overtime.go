package payroll

import "github.com/shopspring/decimal"

// Overtime pay bypasses the rule engine: the formula is fixed company policy,
// not master data. 240 is the standard working hours per month; overtime is
// paid at 1.5x the derived hourly rate.
var (
	monthlyWorkingHours = decimal.NewFromInt(240)
	overtimeMultiplier  = decimal.RequireFromString("1.5")
)

// OvertimeAmount computes round((baseSalary / 240) * hours * 1.5, 2).
func OvertimeAmount(baseSalary, hours decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(monthlyWorkingHours).Mul(hours).Mul(overtimeMultiplier).Round(2)
}
