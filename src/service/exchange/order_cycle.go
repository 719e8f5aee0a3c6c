package exchange

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/event"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/service/auth"
	"gitlab.com/open-soft/go-alpha-bot/src/service/strategy"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"sync"
	"time"
)

const PreCycleDelayMilli = 1000
const PriceSampleDelayMilli = 500
const SkipDelaySeconds = 3
const FailureDelayMilli = 1000
const BalanceSettleMilli = 1000

type OrderCycleController struct {
	Page            client.PageAutomationInterface
	MarketData      client.MarketDataInterface
	Analyzer        strategy.StabilityAnalyzerInterface
	RiskGuard       RiskGuardInterface
	Liquidator      LiquidatorInterface
	FillWaiter      OrderFillWaiterInterface
	Watchdog        auth.TwoFactorWatchdogInterface
	DealRepository  repository.DealStorageInterface
	EventDispatcher service.EventDispatcherInterface
	TimeService     utils.TimeServiceInterface
	Formatter       *utils.Formatter
	Logger          service.RunLoggerInterface

	state model.RunState
	lock  sync.RWMutex
}

// buyOrder is what one cycle committed on the buy side.
type buyOrder struct {
	Price        string
	ReversePrice string
	Amount       decimal.Decimal
	Trend        model.Trend
}

func (c *OrderCycleController) State() model.RunState {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.state
}

func (c *OrderCycleController) update(change func(state *model.RunState)) {
	c.lock.Lock()
	change(&c.state)
	c.lock.Unlock()
}

func (c *OrderCycleController) transition(cycleState model.CycleState) {
	c.update(func(state *model.RunState) {
		state.State = cycleState
	})
}

func (c *OrderCycleController) log(message string, severity model.Severity) {
	c.Logger.Log(c.State().RunId, message, severity)
}

// Run executes cycles until a stop condition holds, then drains leftover orders and position.
// Only fatal failures are returned, cycle failures are classified and retried.
func (c *OrderCycleController) Run(ctx context.Context, config model.RunConfig, stop *service.StopHandle) (model.RunState, error) {
	runId := uuid.New().String()
	c.update(func(state *model.RunState) {
		*state = model.RunState{
			RunId:     runId,
			State:     model.CycleStateIdle,
			Running:   true,
			StartedAt: c.TimeService.GetNowDateTimeString(),
		}
	})

	c.transition(model.CycleStateAcquiringSymbol)
	pair, err := c.acquireSymbol()
	if err != nil {
		c.log(fmt.Sprintf("Symbol resolution failed: %s", err.Error()), model.SeverityError)
		stop.RequestStop("symbol resolution failed", err)

		return c.finish(stop), err
	}
	c.update(func(state *model.RunState) {
		state.Pair = pair
	})
	c.log(fmt.Sprintf("Trading %s as %s, points multiplier %.2f", pair.DisplayName, pair.Symbol, pair.Multiplier), model.SeverityInfo)

	if balance, err := c.Page.ReadBalance(); err == nil {
		c.update(func(state *model.RunState) {
			state.StartBalance = balance
			state.CurrentBalance = balance
		})
	} else {
		c.log(fmt.Sprintf("Balance is unavailable: %s", err.Error()), model.SeverityError)
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := c.Watchdog.Start(watchCtx, runId, config.Secret, stop)

	timeout := time.Duration(config.Timeout) * time.Second

	for {
		if reason, done := c.shouldStop(ctx, config, pair, stop); done {
			c.log(reason, model.SeverityInfo)
			stop.RequestStop(reason, nil)
			break
		}

		attempt := c.State().Attempt + 1
		c.update(func(state *model.RunState) {
			state.Attempt = attempt
			state.CycleIndex = state.CompletedCycles + 1
		})
		c.log(fmt.Sprintf("Cycle %d, attempt %d", c.State().CycleIndex, attempt), model.SeverityInfo)

		stat, err := c.cycle(ctx, config, pair, timeout)

		if err == nil {
			c.update(func(state *model.RunState) {
				state.CompletedCycles++
				state.ConsecutiveErrors = 0
			})
			if c.EventDispatcher != nil {
				c.EventDispatcher.Dispatch(event.CycleCompleted{Stat: stat}, event.EventCycleCompleted)
			}

			if config.MaxSleep > 0 {
				seconds := c.Formatter.RandomSeconds(config.MinSleep, config.MaxSleep)
				c.log(fmt.Sprintf("Next cycle in %ds", seconds), model.SeverityInfo)
				c.TimeService.WaitSeconds(seconds)
			}
			continue
		}

		if IsSkip(err) {
			c.update(func(state *model.RunState) {
				state.SkippedCycles++
			})
			c.log(fmt.Sprintf("Cycle skipped: %s", err.Error()), model.SeverityError)
			c.TimeService.WaitSeconds(SkipDelaySeconds)
			continue
		}

		c.update(func(state *model.RunState) {
			state.FailedCycles++
			state.ConsecutiveErrors++
		})
		c.log(fmt.Sprintf("Cycle failed: %s", err.Error()), model.SeverityError)

		if c.RiskGuard.Classify(err, attempt, c.State().ConsecutiveErrors) == RemedyReload {
			if reloadErr := c.RiskGuard.Escalate(c.State().RunId, err.Error()); reloadErr != nil {
				c.log(fmt.Sprintf("Page reload failed: %s", reloadErr.Error()), model.SeverityError)
			}
			c.update(func(state *model.RunState) {
				state.ConsecutiveErrors = 0
			})
			continue
		}

		c.TimeService.WaitMilliseconds(FailureDelayMilli)
	}

	c.drain(ctx, pair, timeout)

	stopWatch()
	<-watchDone

	return c.finish(stop), stop.Err()
}

func (c *OrderCycleController) finish(stop *service.StopHandle) model.RunState {
	c.update(func(state *model.RunState) {
		state.State = model.CycleStateIdle
		state.Running = false
		state.StopReason = stop.Reason()
	})

	return c.State()
}

func IsSkip(err error) bool {
	return errors.Is(err, model.ErrMarketUnstable) || errors.Is(err, model.ErrDropRisk)
}

func (c *OrderCycleController) acquireSymbol() (model.TradingPair, error) {
	name, err := c.Page.ReadAssetName()
	if err != nil {
		return model.TradingPair{}, err
	}

	return c.MarketData.ResolveSymbol(name)
}

// shouldStop is checked before every cycle, never inside one.
func (c *OrderCycleController) shouldStop(ctx context.Context, config model.RunConfig, pair model.TradingPair, stop *service.StopHandle) (string, bool) {
	if stop.IsStopped() {
		return fmt.Sprintf("Stop requested: %s", stop.Reason()), true
	}

	if ctx.Err() != nil {
		return "Process is shutting down", true
	}

	if config.IsTargetMode() {
		deal, err := c.DealRepository.GetDeal(model.DealDay(c.TimeService.GetNow()))
		if err != nil {
			c.log(fmt.Sprintf("Daily deal is unavailable: %s", err.Error()), model.SeverityError)
			return "", false
		}

		c.update(func(state *model.RunState) {
			state.TodayPoints = deal.Points.String()
		})

		if deal.Points.GreaterThanOrEqual(config.RunPrice) {
			return fmt.Sprintf("Target reached: %s of %s", deal.Points.String(), config.RunPrice.String()), true
		}

		return "", false
	}

	completed := c.State().CompletedCycles
	if completed >= int64(config.RunNum) {
		return fmt.Sprintf("Run completed: %d cycles", completed), true
	}

	return "", false
}

func (c *OrderCycleController) cycle(ctx context.Context, config model.RunConfig, pair model.TradingPair, timeout time.Duration) (model.CycleStat, error) {
	startedAt := model.TimestampMilli(c.TimeService.GetNowUnixMilli())
	c.update(func(state *model.RunState) {
		state.SellTimeouts = 0
	})

	c.transition(model.CycleStatePreCycleCleanup)
	if err := c.cleanup(ctx, pair, timeout); err != nil {
		return model.CycleStat{}, err
	}

	c.transition(model.CycleStateEvaluatingStability)
	stability, err := c.Analyzer.Check(pair, config.Stability)
	if err != nil {
		return model.CycleStat{}, err
	}
	if !stability.Stable {
		return model.CycleStat{}, fmt.Errorf("%w: %s", model.ErrMarketUnstable, stability.Message)
	}
	c.log(stability.Message, model.SeveritySuccess)

	if config.DropRiskPercent > 0 {
		if _, err := c.RiskGuard.CheckDropRisk(pair, config.DropRiskPercent); err != nil {
			return model.CycleStat{}, err
		}
	}

	c.transition(model.CycleStateComputingBuyOrder)
	order, err := c.placeBuy(config, pair, stability)
	if err != nil {
		return model.CycleStat{}, err
	}

	c.transition(model.CycleStateAwaitingBuyFill)
	filled, err := c.FillWaiter.WaitFill(model.SideBuy, timeout)
	if err != nil {
		return model.CycleStat{}, err
	}
	if !filled {
		if cancelErr := c.Page.CancelPendingOrders(); cancelErr != nil {
			c.log(fmt.Sprintf("Stale buy order is not canceled: %s", cancelErr.Error()), model.SeverityError)
		}
		return model.CycleStat{}, fmt.Errorf("%w: price %s", model.ErrBuyFillTimeout, order.Price)
	}

	points := order.Amount.Mul(decimal.NewFromFloat(pair.Multiplier))
	c.log(fmt.Sprintf("Buy filled, price: %s amount: %s", order.Price, order.Amount.String()), model.SeveritySuccess)
	if err := c.DealRepository.AddDeal(model.DealDay(c.TimeService.GetNow()), order.Amount, points); err != nil {
		c.log(fmt.Sprintf("Daily deal is not saved: %s", err.Error()), model.SeverityError)
	}

	c.transition(model.CycleStateComputingSellOrder)
	sellPrice, liquidated, err := c.sell(ctx, config, pair, order, timeout)
	if err != nil {
		return model.CycleStat{}, err
	}

	c.transition(model.CycleStateCycleComplete)
	c.TimeService.WaitMilliseconds(BalanceSettleMilli)
	balance, err := c.Page.ReadBalance()
	if err != nil {
		c.log(fmt.Sprintf("Balance is unavailable: %s", err.Error()), model.SeverityError)
		balance = c.State().CurrentBalance
	} else {
		c.update(func(state *model.RunState) {
			state.CurrentBalance = balance
		})
		c.log(fmt.Sprintf("Balance: %s", balance), model.SeverityInfo)
	}

	state := c.State()
	finishedAt := model.TimestampMilli(c.TimeService.GetNowUnixMilli())
	c.log(fmt.Sprintf(
		"Cycle %d completed, buy: %s sell: %s amount: %s, %s - %s",
		state.CycleIndex,
		order.Price,
		sellPrice,
		order.Amount.String(),
		startedAt.Time().UTC().Format(time.TimeOnly),
		finishedAt.Time().UTC().Format(time.TimeOnly),
	), model.SeveritySuccess)

	return model.CycleStat{
		RunId:      state.RunId,
		Symbol:     pair.Symbol,
		Mode:       config.Mode,
		CycleIndex: state.CycleIndex,
		BuyPrice:   order.Price,
		SellPrice:  sellPrice,
		Amount:     order.Amount.String(),
		Points:     points.String(),
		Trend:      order.Trend,
		Liquidated: liquidated,
		Balance:    balance,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}, nil
}

// cleanup makes a cycle safe to start after a crash or a timeout of the previous one.
func (c *OrderCycleController) cleanup(ctx context.Context, pair model.TradingPair, timeout time.Duration) error {
	c.TimeService.WaitMilliseconds(PreCycleDelayMilli)

	if err := c.RiskGuard.CheckUnknownModal(); err != nil {
		return err
	}
	if err := c.RiskGuard.CancelStrayOrders(); err != nil {
		return err
	}

	liquidation, err := c.Liquidator.Liquidate(ctx, c.State().RunId, pair, timeout)
	if err != nil {
		return err
	}
	if liquidation.Attempts > 0 {
		c.update(func(state *model.RunState) {
			state.Liquidations++
		})
	}

	return c.Page.SwitchPanel(model.PanelBuy)
}

func (c *OrderCycleController) readPrice(pair model.TradingPair, side model.Side) (string, error) {
	price, err := c.Page.ReadPrice(side)
	if err == nil && len(price) > 0 {
		return price, nil
	}

	price, apiErr := c.MarketData.GetLastPrice(pair.Symbol)
	if apiErr != nil {
		return "", fmt.Errorf("%w: %s", model.ErrPriceUnavailable, apiErr.Error())
	}

	return price, nil
}

// lowestPrice samples the price count+1 times and keeps the lowest one with the widest precision seen.
func (c *OrderCycleController) lowestPrice(pair model.TradingPair, count int) (decimal.Decimal, int32, error) {
	price, err := c.readPrice(pair, model.SideBuy)
	if err != nil {
		return decimal.Zero, 0, err
	}
	lowest, err := c.Formatter.Parse(price)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("%w: %s", model.ErrPriceUnavailable, price)
	}
	precision := c.Formatter.Precision(price)

	for i := 0; i < count; i++ {
		c.TimeService.WaitMilliseconds(PriceSampleDelayMilli)

		sample, err := c.readPrice(pair, model.SideBuy)
		if err != nil {
			return decimal.Zero, 0, err
		}
		value, err := c.Formatter.Parse(sample)
		if err != nil {
			return decimal.Zero, 0, fmt.Errorf("%w: %s", model.ErrPriceUnavailable, sample)
		}

		if sampled := c.Formatter.Precision(sample); sampled > precision {
			precision = sampled
		}
		if value.LessThan(lowest) {
			lowest = value
			c.log(fmt.Sprintf("Price dropped, buy price is %s", sample), model.SeverityInfo)
		}
	}

	return lowest, precision, nil
}

func (c *OrderCycleController) orderAmount(config model.RunConfig) decimal.Decimal {
	if config.OrderAmountMode == model.OrderAmountModeRandom {
		return c.Formatter.RandomAmount(config.MinAmount, config.MaxAmount)
	}

	return config.Amount
}

func (c *OrderCycleController) placeBuy(config model.RunConfig, pair model.TradingPair, stability model.MarketStability) (buyOrder, error) {
	lowest, precision, err := c.lowestPrice(pair, config.CheckPriceCount)
	if err != nil {
		return buyOrder{}, err
	}

	price := lowest
	if config.IsReverse() {
		price = c.Formatter.FloorToPrecision(c.Formatter.ApplyPercent(price, config.PriceRatio), precision)
	}
	if stability.IsUptrend() {
		price = c.Formatter.FloorToPrecision(c.Formatter.ApplyPercent(price, config.UptrendMarkupPercent), precision)
	}

	order := buyOrder{
		Price:  price.StringFixed(precision),
		Amount: c.orderAmount(config),
		Trend:  stability.Trend,
	}
	c.log(fmt.Sprintf("Buy price: %s (%s), amount: %s", order.Price, stability.Trend, order.Amount.String()), model.SeverityInfo)

	if err := c.Page.SetReverseOrder(config.IsReverse()); err != nil {
		return order, err
	}
	if err := c.Page.WriteOrderPrice(order.Price); err != nil {
		return order, err
	}
	if err := c.Page.WriteOrderAmount(order.Amount.StringFixed(2)); err != nil {
		return order, err
	}

	if config.IsReverse() {
		discount := c.Formatter.RandomDiscount(config.MinDiscount, config.MaxDiscount)
		reverse := c.Formatter.FloorToPrecision(lowest.Mul(decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100)))), precision)
		order.ReversePrice = reverse.StringFixed(precision)
		c.log(fmt.Sprintf("Reverse sell price: %s (-%s%%)", order.ReversePrice, discount.String()), model.SeverityInfo)

		if err := c.Page.WriteReversePrice(order.ReversePrice); err != nil {
			return order, err
		}
	}

	if err := c.Page.SubmitOrder(); err != nil {
		return order, err
	}
	c.authGrace(config)

	return order, nil
}

func (c *OrderCycleController) authGrace(config model.RunConfig) {
	challenged, err := c.Page.HasAuthChallenge()
	if err != nil || !challenged {
		return
	}

	c.log("Auth challenge after submit, waiting", model.SeverityInfo)
	if config.IsReverse() {
		c.TimeService.WaitSeconds(AuthGraceReverseSeconds)
		return
	}

	c.TimeService.WaitSeconds(AuthGraceOrderSeconds)
}

// sell runs the sell side until it fills or the timeout budget is spent, then liquidates.
func (c *OrderCycleController) sell(ctx context.Context, config model.RunConfig, pair model.TradingPair, order buyOrder, timeout time.Duration) (string, bool, error) {
	// the reverse order is attached to the filled buy
	attached := config.IsReverse()

	for {
		price := order.ReversePrice
		if !attached {
			var err error
			if price, err = c.placeSell(config, pair, order); err != nil {
				return "", false, err
			}
		}
		attached = false

		c.transition(model.CycleStateAwaitingSellFill)
		filled, err := c.FillWaiter.WaitFill(model.SideSell, timeout)
		if err != nil {
			return "", false, err
		}
		if filled {
			c.log(fmt.Sprintf("Sell filled, price: %s", price), model.SeveritySuccess)
			return price, false, nil
		}

		if err := c.Page.CancelPendingOrders(); err != nil {
			c.log(fmt.Sprintf("Stale sell order is not canceled: %s", err.Error()), model.SeverityError)
		}

		c.update(func(state *model.RunState) {
			state.SellTimeouts++
		})
		timeouts := c.State().SellTimeouts
		c.log(fmt.Sprintf("Sell timeout %d of %d", timeouts, config.TimeoutCount), model.SeverityError)

		if timeouts > int64(config.TimeoutCount) {
			c.log(fmt.Sprintf("Sell timed out %d times, forced liquidation", timeouts), model.SeverityError)
			liquidation, err := c.Liquidator.Liquidate(ctx, c.State().RunId, pair, timeout)
			if err != nil {
				return "", true, err
			}
			c.update(func(state *model.RunState) {
				state.Liquidations++
			})

			if liquidation.Price != "" {
				return liquidation.Price, true, nil
			}

			return price, true, nil
		}

		c.transition(model.CycleStateComputingSellOrder)
	}
}

func (c *OrderCycleController) placeSell(config model.RunConfig, pair model.TradingPair, order buyOrder) (string, error) {
	if err := c.Page.SwitchPanel(model.PanelSell); err != nil {
		return "", err
	}
	if err := c.Page.SetReverseOrder(false); err != nil {
		return "", err
	}

	price := order.ReversePrice
	if len(price) == 0 {
		var err error
		if price, err = c.readPrice(pair, model.SideSell); err != nil {
			return "", err
		}
	}

	if err := c.Page.WriteOrderPrice(price); err != nil {
		return "", err
	}
	if err := c.Page.WriteOrderQuantityPercent("100"); err != nil {
		return "", err
	}
	if err := c.Page.SubmitOrder(); err != nil {
		return "", err
	}
	c.authGrace(config)

	return price, nil
}

// drain leaves the page without orders and position, whatever stopped the run.
func (c *OrderCycleController) drain(ctx context.Context, pair model.TradingPair, timeout time.Duration) {
	c.transition(model.CycleStateDraining)
	c.TimeService.WaitMilliseconds(PreCycleDelayMilli)

	if err := c.RiskGuard.CheckUnknownModal(); err != nil {
		c.log(fmt.Sprintf("Drain: %s", err.Error()), model.SeverityError)
	}
	if err := c.RiskGuard.CancelStrayOrders(); err != nil {
		c.log(fmt.Sprintf("Drain: orders are not canceled: %s", err.Error()), model.SeverityError)
	}

	liquidation, err := c.Liquidator.Liquidate(ctx, c.State().RunId, pair, timeout)
	if err != nil {
		c.log(fmt.Sprintf("Drain: liquidation interrupted: %s", err.Error()), model.SeverityError)
	}
	if liquidation.Attempts > 0 {
		c.update(func(state *model.RunState) {
			state.Liquidations++
		})
	}

	balance, err := c.Page.ReadBalance()
	if err != nil {
		c.log(fmt.Sprintf("Final balance is unavailable: %s", err.Error()), model.SeverityError)
		return
	}

	c.update(func(state *model.RunState) {
		state.CurrentBalance = balance
	})
	c.log(fmt.Sprintf("Final balance: %s", balance), model.SeverityInfo)
}
