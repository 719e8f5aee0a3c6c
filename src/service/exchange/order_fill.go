package exchange

import (
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"time"
)

// OrderRenderDelayMilli lets the open orders table render the fresh row before polling.
const OrderRenderDelayMilli = 1000

type OrderFillWaiterInterface interface {
	WaitFill(side model.Side, timeout time.Duration) (bool, error)
}

type OrderFillWaiter struct {
	Page        client.PageAutomationInterface
	TimeService utils.TimeServiceInterface
}

// WaitFill reports true once the pending order row of side disappears.
func (o *OrderFillWaiter) WaitFill(side model.Side, timeout time.Duration) (bool, error) {
	o.TimeService.WaitMilliseconds(OrderRenderDelayMilli)

	return utils.PollUntil(o.TimeService, func() (bool, error) {
		pending, err := o.Page.HasPendingOrder(side)
		if err != nil {
			return false, err
		}

		return !pending, nil
	}, timeout, utils.FrameInterval)
}
