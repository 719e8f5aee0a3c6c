package exchange

import (
	"context"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"time"
)

// LiquidationOffsetPercent puts the sell slightly below the last trade to cross the spread.
const LiquidationOffsetPercent = -0.006
const LiquidationRetryDelayMilli = 1000
const AuthGraceOrderSeconds = 3
const AuthGraceReverseSeconds = 10

type LastPriceInterface interface {
	GetLastPrice(symbol string) (string, error)
}

type LiquidatorInterface interface {
	Liquidate(ctx context.Context, runId string, pair model.TradingPair, timeout time.Duration) (model.Liquidation, error)
}

type Liquidator struct {
	Page        client.PageAutomationInterface
	MarketData  LastPriceInterface
	FillWaiter  OrderFillWaiterInterface
	TimeService utils.TimeServiceInterface
	Formatter   *utils.Formatter
	Logger      service.RunLoggerInterface
}

// Liquidate sells the whole position until the page reports none is left.
// Errors never end the loop, only ctx does.
func (l *Liquidator) Liquidate(ctx context.Context, runId string, pair model.TradingPair, timeout time.Duration) (model.Liquidation, error) {
	liquidation := model.Liquidation{}

	for {
		if err := ctx.Err(); err != nil {
			return liquidation, err
		}

		open, err := l.Page.HasOpenPosition()
		if err != nil {
			l.Logger.Log(runId, fmt.Sprintf("Position probe failed: %s", err.Error()), model.SeverityError)
			l.TimeService.WaitMilliseconds(LiquidationRetryDelayMilli)
			continue
		}

		if !open {
			return liquidation, nil
		}

		liquidation.Attempts++
		price, err := l.sell(runId, pair, timeout)
		if err != nil {
			l.Logger.Log(runId, fmt.Sprintf("Liquidation sell failed: %s", err.Error()), model.SeverityError)
			l.TimeService.WaitMilliseconds(LiquidationRetryDelayMilli)
			continue
		}

		liquidation.Price = price
		l.Logger.Log(runId, fmt.Sprintf("Liquidation sell filled, price: %s", price), model.SeveritySuccess)
	}
}

func (l *Liquidator) sell(runId string, pair model.TradingPair, timeout time.Duration) (string, error) {
	lastPrice, err := l.MarketData.GetLastPrice(pair.Symbol)
	if err != nil {
		return "", err
	}

	price, err := l.Formatter.ApplyPercentString(lastPrice, LiquidationOffsetPercent)
	if err != nil {
		return "", err
	}

	if err := l.Page.SwitchPanel(model.PanelSell); err != nil {
		return "", err
	}
	if err := l.Page.SetReverseOrder(false); err != nil {
		return "", err
	}
	if err := l.Page.WriteOrderPrice(price); err != nil {
		return "", err
	}
	if err := l.Page.WriteOrderQuantityPercent("100"); err != nil {
		return "", err
	}
	if err := l.Page.SubmitOrder(); err != nil {
		return "", err
	}

	challenged, err := l.Page.HasAuthChallenge()
	if err == nil && challenged {
		l.TimeService.WaitSeconds(AuthGraceOrderSeconds)
	}

	filled, err := l.FillWaiter.WaitFill(model.SideSell, timeout)
	if err != nil {
		return "", err
	}
	if !filled {
		if err := l.Page.CancelPendingOrders(); err != nil {
			l.Logger.Log(runId, fmt.Sprintf("Liquidation sell is not canceled: %s", err.Error()), model.SeverityError)
		}
		return "", fmt.Errorf("%w: price %s", model.ErrSellFillTimeout, price)
	}

	return price, nil
}
