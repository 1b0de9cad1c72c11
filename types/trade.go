package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single input event. It is immutable once constructed and is
// consumed exactly once by the inventory engine. Id is only set for trades
// loaded from (or destined for) the database.
type Trade struct {
	Id       string
	Date     time.Time
	Ticker   string
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fee      decimal.Decimal
}

func NewTrade(
	date time.Time,
	ticker string,
	side Side,
	quantity decimal.Decimal,
	price decimal.Decimal,
	fee decimal.Decimal,
) Trade {
	return Trade{
		Date:     date,
		Ticker:   ticker,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
	}
}
