package orders

import (
	"stocksim/internal/model"
	"stocksim/internal/types"
)

// ShouldTrigger decides whether a pending conditional order fires at the
// current price.
//
// LIMIT BUY fires at price <= target, LIMIT SELL at price >= target.
// STOP_LOSS fires at price <= target for both actions; the upstream system
// behaved this way and the behaviour is kept as-is.
func ShouldTrigger(o model.Order, price float64) bool {
	switch o.Type {
	case types.OrderTypeLimit:
		if o.Action == types.OrderActionBuy {
			return price <= o.TargetPrice
		}
		return price >= o.TargetPrice
	case types.OrderTypeStopLoss:
		return price <= o.TargetPrice
	default:
		return false
	}
}
