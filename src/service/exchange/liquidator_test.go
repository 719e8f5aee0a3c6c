package exchange

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/tests"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"testing"
	"time"
)

type fillWaiterStub struct {
	results map[model.Side][]bool
	calls   map[model.Side]int
}

func (f *fillWaiterStub) WaitFill(side model.Side, timeout time.Duration) (bool, error) {
	if f.calls == nil {
		f.calls = make(map[model.Side]int)
	}

	index := f.calls[side]
	f.calls[side]++

	results := f.results[side]
	if len(results) == 0 {
		return true, nil
	}
	if index >= len(results) {
		return results[len(results)-1], nil
	}

	return results[index], nil
}

func liquidationPage() *tests.PageAutomationMock {
	page := new(tests.PageAutomationMock)
	page.On("SwitchPanel", model.PanelSell).Return(nil)
	page.On("SetReverseOrder", false).Return(nil)
	page.On("WriteOrderPrice", mock.Anything).Return(nil)
	page.On("WriteOrderQuantityPercent", "100").Return(nil)
	page.On("SubmitOrder").Return(nil)
	page.On("HasAuthChallenge").Return(false, nil)
	page.On("CancelPendingOrders").Return(nil)

	return page
}

func TestLiquidateSellsOncePerReportedPosition(t *testing.T) {
	assertion := assert.New(t)

	for _, positions := range []int{0, 1, 4} {
		page := liquidationPage()
		if positions > 0 {
			page.On("HasOpenPosition").Return(true, nil).Times(positions)
		}
		page.On("HasOpenPosition").Return(false, nil)

		marketData := new(tests.MarketDataMock)
		marketData.On("GetLastPrice", "ALPHA_1USDT").Return("1.000000", nil)

		liquidator := Liquidator{
			Page:        page,
			MarketData:  marketData,
			FillWaiter:  &fillWaiterStub{},
			TimeService: &tests.VirtualClock{},
			Formatter:   &utils.Formatter{},
			Logger:      &tests.LogCollector{},
		}

		liquidation, err := liquidator.Liquidate(context.Background(), "run", model.TradingPair{Symbol: "ALPHA_1USDT"}, time.Second)
		assertion.Nil(err)
		assertion.Equal(int64(positions), liquidation.Attempts)
		page.AssertNumberOfCalls(t, "SubmitOrder", positions)
	}
}

func TestLiquidateSellsBelowLastPrice(t *testing.T) {
	assertion := assert.New(t)

	page := liquidationPage()
	page.On("HasOpenPosition").Return(true, nil).Once()
	page.On("HasOpenPosition").Return(false, nil)

	marketData := new(tests.MarketDataMock)
	marketData.On("GetLastPrice", "ALPHA_1USDT").Return("1.000000", nil)

	liquidator := Liquidator{
		Page:        page,
		MarketData:  marketData,
		FillWaiter:  &fillWaiterStub{},
		TimeService: &tests.VirtualClock{},
		Formatter:   &utils.Formatter{},
		Logger:      &tests.LogCollector{},
	}

	liquidation, err := liquidator.Liquidate(context.Background(), "run", model.TradingPair{Symbol: "ALPHA_1USDT"}, time.Second)
	assertion.Nil(err)
	assertion.Equal("0.999940", liquidation.Price)
	page.AssertCalled(t, "WriteOrderPrice", "0.999940")
}

func TestLiquidateRetriesAfterErrors(t *testing.T) {
	assertion := assert.New(t)

	page := liquidationPage()
	page.On("HasOpenPosition").Return(false, errors.New("probe")).Once()
	page.On("HasOpenPosition").Return(true, nil).Times(2)
	page.On("HasOpenPosition").Return(false, nil)

	marketData := new(tests.MarketDataMock)
	marketData.On("GetLastPrice", "ALPHA_1USDT").Return("", model.ErrPriceUnavailable).Once()
	marketData.On("GetLastPrice", "ALPHA_1USDT").Return("2.5000", nil)

	clock := &tests.VirtualClock{}
	logger := &tests.LogCollector{}
	liquidator := Liquidator{
		Page:        page,
		MarketData:  marketData,
		FillWaiter:  &fillWaiterStub{},
		TimeService: clock,
		Formatter:   &utils.Formatter{},
		Logger:      logger,
	}

	liquidation, err := liquidator.Liquidate(context.Background(), "run", model.TradingPair{Symbol: "ALPHA_1USDT"}, time.Second)
	assertion.Nil(err)
	assertion.Equal(int64(2), liquidation.Attempts)
	assertion.Equal(2, logger.Count(model.SeverityError))
	assertion.Equal(time.Millisecond*LiquidationRetryDelayMilli*2, clock.GetWaited())
	page.AssertNumberOfCalls(t, "SubmitOrder", 1)
}

func TestLiquidateStopsOnContext(t *testing.T) {
	assertion := assert.New(t)

	page := liquidationPage()
	page.On("HasOpenPosition").Return(true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	liquidator := Liquidator{Page: page, TimeService: &tests.VirtualClock{}, Logger: &tests.LogCollector{}}
	liquidation, err := liquidator.Liquidate(ctx, "run", model.TradingPair{Symbol: "ALPHA_1USDT"}, time.Second)
	assertion.ErrorIs(err, context.Canceled)
	assertion.Equal(int64(0), liquidation.Attempts)
}

func TestLiquidateLogsStuckSellOrder(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("SwitchPanel", model.PanelSell).Return(nil)
	page.On("SetReverseOrder", false).Return(nil)
	page.On("WriteOrderPrice", mock.Anything).Return(nil)
	page.On("WriteOrderQuantityPercent", "100").Return(nil)
	page.On("SubmitOrder").Return(nil)
	page.On("HasAuthChallenge").Return(false, nil)
	page.On("CancelPendingOrders").Return(errors.New("cancel link is missing"))
	page.On("HasOpenPosition").Return(true, nil).Once()
	page.On("HasOpenPosition").Return(false, nil)

	marketData := new(tests.MarketDataMock)
	marketData.On("GetLastPrice", "ALPHA_1USDT").Return("1.000000", nil)

	logger := &tests.LogCollector{}
	liquidator := Liquidator{
		Page:        page,
		MarketData:  marketData,
		FillWaiter:  &fillWaiterStub{results: map[model.Side][]bool{model.SideSell: {false}}},
		TimeService: &tests.VirtualClock{},
		Formatter:   &utils.Formatter{},
		Logger:      logger,
	}

	liquidation, err := liquidator.Liquidate(context.Background(), "run", model.TradingPair{Symbol: "ALPHA_1USDT"}, time.Second)
	assertion.Nil(err)
	assertion.Equal("", liquidation.Price)
	// cancel failure, then the timed out sell
	assertion.Equal(2, logger.Count(model.SeverityError))
	assertion.Contains(logger.Entries[0].Message, "cancel link is missing")
}
