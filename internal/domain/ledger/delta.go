package ledger

import "github.com/shopspring/decimal"

// The delta policy is the single place where movement semantics translate
// into signed stock changes. It is pure: both the create path and the
// reversal paths (update diff, delete) are derived from the same per-kind
// sign, which keeps create/delete symmetric for every kind.
//
//	kind      create        delete        update
//	purchase  +q            -q            +(new-old)
//	sale      -q            +q            -(new-old)
//	return    +q            -q            +(new-old)
//
// A purchase quantity may be negative (purchase-return), which flips the
// effective direction without changing the sign convention.

// kindSign returns +1 for inbound kinds and -1 for outbound kinds
func kindSign(kind MovementKind) decimal.Decimal {
	if kind == MovementSale {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// CreateDelta returns the stock change implied by creating a movement
func CreateDelta(kind MovementKind, quantity decimal.Decimal) decimal.Decimal {
	return kindSign(kind).Mul(quantity)
}

// DeleteDelta returns the stock change that reverses a movement
func DeleteDelta(kind MovementKind, quantity decimal.Decimal) decimal.Decimal {
	return CreateDelta(kind, quantity).Neg()
}

// UpdateDelta returns the stock change implied by changing a movement's
// quantity in place
func UpdateDelta(kind MovementKind, oldQuantity, newQuantity decimal.Decimal) decimal.Decimal {
	return kindSign(kind).Mul(newQuantity.Sub(oldQuantity))
}

// AdjustmentDelta returns the stock change of a direct adjustment; the
// signed quantity is the delta. Adjustments are not reversible records.
func AdjustmentDelta(signedQuantity decimal.Decimal) decimal.Decimal {
	return signedQuantity
}

// NeedsAvailabilityCheck reports whether a delta must be checked against the
// current stock. Any negative delta can drive the stock below zero, so
// sale-create, purchase-return-create, return-delete and a purchase update
// that decreases quantity all take the same insufficient-stock path.
func NeedsAvailabilityCheck(delta decimal.Decimal) bool {
	return delta.IsNegative()
}
