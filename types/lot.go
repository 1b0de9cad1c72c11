package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// costPerSharePrecision is the scale used when deriving per-share figures.
const costPerSharePrecision = 7

// Lot is one atomic tranche of inventory for a ticker. Quantity is positive
// for long tranches and negative for short tranches. Cost holds the total
// cost basis for long lots and the total net proceeds for short lots; both
// conventions keep Cost positive at open, so CostPerShare is non-negative
// for either direction.
type Lot struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal
	Date     time.Time
}

func NewLot(quantity, cost decimal.Decimal, date time.Time) Lot {
	return Lot{
		Quantity: quantity,
		Cost:     cost,
		Date:     date,
	}
}

// CostPerShare returns Cost divided by the absolute quantity, rounded to
// seven fractional digits. A zero-quantity lot yields zero.
func (l Lot) CostPerShare() decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	return l.Cost.Div(l.Quantity.Abs()).Round(costPerSharePrecision)
}
