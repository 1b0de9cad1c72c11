package engine

import (
	"errors"

	"pnltracker/types"

	"github.com/shopspring/decimal"
)

var UnknownSideErr = errors.New("unknown trade side")
var ShortSellNotAllowedErr = errors.New("short sell not allowed, sell exceeds long position")

// Inventory owns the per-ticker sequences of open lots and the running
// realized-PnL accumulators. Lots are appended in acquisition order; the
// match method only changes which end of the sequence is read and removed.
// Not safe for concurrent mutation.
type Inventory struct {
	method            types.MatchMethod
	allowShortSelling bool
	lots              map[string][]*types.Lot
	realized          map[string]decimal.Decimal
}

func NewInventory(method types.MatchMethod, allowShortSelling bool) *Inventory {
	return &Inventory{
		method:            method,
		allowShortSelling: allowShortSelling,
		lots:              make(map[string][]*types.Lot),
		realized:          make(map[string]decimal.Decimal),
	}
}

func (inv *Inventory) Method() types.MatchMethod {
	return inv.method
}

// ApplyTrade mutates the ticker's lot sequence and realized PnL according to
// the trade. Trades must be applied in non-decreasing date order; the engine
// does not re-sort.
func (inv *Inventory) ApplyTrade(tr types.Trade) error {
	if tr.Side != types.SideTypeBuy && tr.Side != types.SideTypeSell {
		return UnknownSideErr
	}
	inv.ensure(tr.Ticker)

	if tr.Side == types.SideTypeBuy {
		inv.buy(tr)
		return nil
	}
	return inv.sell(tr)
}

func (inv *Inventory) ensure(ticker string) {
	if _, ok := inv.lots[ticker]; !ok {
		inv.lots[ticker] = nil
		inv.realized[ticker] = decimal.Zero
	}
}

// matchIndex resolves the read/remove end of the lot sequence for the
// configured method: front (oldest) for FIFO, back for LIFO.
func (inv *Inventory) matchIndex(lots []*types.Lot) int {
	if inv.method == types.MatchMethodLIFO {
		return len(lots) - 1
	}
	return 0
}

// buy covers short lots at the match end first, then opens a long lot for
// any remainder. The trade fee goes entirely into the new lot's cost basis;
// a buy that only covers shorts attributes its fee nowhere.
func (inv *Inventory) buy(tr types.Trade) {
	lots := inv.lots[tr.Ticker]
	remaining := tr.Quantity

	for remaining.IsPositive() && len(lots) > 0 {
		i := inv.matchIndex(lots)
		lot := lots[i]
		if !lot.Quantity.IsNegative() {
			break
		}
		cover := decimal.Min(remaining, lot.Quantity.Neg())
		costPerShare := lot.CostPerShare()

		// Covering below the short's opening price is a gain.
		pnl := costPerShare.Sub(tr.Price).Mul(cover)
		inv.realized[tr.Ticker] = inv.realized[tr.Ticker].Add(pnl)

		lot.Quantity = lot.Quantity.Add(cover)
		lot.Cost = lot.Cost.Sub(costPerShare.Mul(cover))
		remaining = remaining.Sub(cover)
		if lot.Quantity.IsZero() {
			lots = append(lots[:i], lots[i+1:]...)
		}
	}

	if remaining.IsPositive() {
		lot := types.NewLot(remaining, remaining.Mul(tr.Price).Add(tr.Fee), tr.Date)
		lots = append(lots, &lot)
	}
	inv.lots[tr.Ticker] = lots
}

// sell closes long lots at the match end first. Any remainder opens a short
// lot when short selling is enabled, otherwise ShortSellNotAllowedErr is
// returned with the long-closing mutations already committed.
func (inv *Inventory) sell(tr types.Trade) error {
	lots := inv.lots[tr.Ticker]
	remaining := tr.Quantity

	for remaining.IsPositive() && len(lots) > 0 {
		i := inv.matchIndex(lots)
		lot := lots[i]
		if !lot.Quantity.IsPositive() {
			break
		}
		closeQty := decimal.Min(remaining, lot.Quantity)
		costPerShare := lot.CostPerShare()

		pnl := tr.Price.Sub(costPerShare).Mul(closeQty)
		if closeQty.Equal(remaining) {
			// The whole fee lands on the slice that exhausts the sell,
			// not prorated across lots.
			pnl = pnl.Sub(tr.Fee)
		}
		inv.realized[tr.Ticker] = inv.realized[tr.Ticker].Add(pnl)

		lot.Quantity = lot.Quantity.Sub(closeQty)
		lot.Cost = lot.Cost.Sub(costPerShare.Mul(closeQty))
		remaining = remaining.Sub(closeQty)
		if lot.Quantity.IsZero() {
			lots = append(lots[:i], lots[i+1:]...)
		}
	}

	if remaining.IsPositive() {
		if !inv.allowShortSelling {
			inv.lots[tr.Ticker] = lots
			return ShortSellNotAllowedErr
		}
		proceeds := remaining.Mul(tr.Price).Sub(tr.Fee)
		lot := types.NewLot(remaining.Neg(), proceeds, tr.Date)
		lots = append(lots, &lot)
	}
	inv.lots[tr.Ticker] = lots
	return nil
}

// Positions returns a value copy of the current lots per ticker, in
// acquisition order. Tickers whose sequence is empty are omitted.
func (inv *Inventory) Positions() map[string][]types.Lot {
	out := make(map[string][]types.Lot, len(inv.lots))
	for ticker, lots := range inv.lots {
		if len(lots) == 0 {
			continue
		}
		copied := make([]types.Lot, 0, len(lots))
		for _, lot := range lots {
			copied = append(copied, *lot)
		}
		out[ticker] = copied
	}
	return out
}

// Realized returns a copy of the accumulated realized PnL per ticker.
func (inv *Inventory) Realized() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(inv.realized))
	for ticker, pnl := range inv.realized {
		out[ticker] = pnl
	}
	return out
}
