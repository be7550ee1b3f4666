package domain

import (
	"github.com/shopspring/decimal"

	"referraldesk/internal/apperrors"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeCommission derives the ledger amount for a won deal:
// dealAmount * ratePercent / 100. Full decimal precision is preserved;
// display rounding is the caller's concern. A zero rate is legal and
// yields a zero amount, still worth a ledger entry.
func ComputeCommission(dealAmount, ratePercent decimal.Decimal) (decimal.Decimal, error) {
	if dealAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.New(apperrors.CodeValidation, "deal amount must be greater than zero")
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(oneHundred) {
		return decimal.Zero, apperrors.New(apperrors.CodeValidation, "commission rate must be between 0 and 100")
	}
	return dealAmount.Mul(ratePercent).Div(oneHundred), nil
}
