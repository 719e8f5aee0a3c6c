package exchange

import (
	"errors"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

const MaxConsecutiveErrors = 5
const ReloadEvery = 10
const ReloadCooldownSeconds = 6

const DropRiskTradeLimit = 15
const DropRiskWindowMilli = 5000

type Remedy string

const RemedyRetry Remedy = "retry"
const RemedyReload Remedy = "reload"

type RecentTradesInterface interface {
	FetchRecentTrades(symbol string, limit int64) ([]model.AggTrade, error)
}

type RiskGuardInterface interface {
	CheckUnknownModal() error
	CancelStrayOrders() error
	Classify(err error, attempt int64, consecutiveErrors int64) Remedy
	Escalate(runId string, reason string) error
	CheckDropRisk(pair model.TradingPair, thresholdPercent float64) (model.DropRisk, error)
}

type RiskGuard struct {
	Page        client.PageAutomationInterface
	MarketData  RecentTradesInterface
	TimeService utils.TimeServiceInterface
	Logger      service.RunLoggerInterface
}

func (r *RiskGuard) CheckUnknownModal() error {
	opened, err := r.Page.HasUnknownModal()
	if err != nil {
		return err
	}

	if opened {
		return model.ErrUnknownModal
	}

	return nil
}

func (r *RiskGuard) CancelStrayOrders() error {
	return r.Page.CancelPendingOrders()
}

// Classify picks the remedy for a failed attempt. Attempts are counted from 1.
func (r *RiskGuard) Classify(err error, attempt int64, consecutiveErrors int64) Remedy {
	if IsReloadClass(err) {
		return RemedyReload
	}

	if consecutiveErrors > MaxConsecutiveErrors {
		return RemedyReload
	}

	if attempt > 0 && attempt%ReloadEvery == 0 {
		return RemedyReload
	}

	return RemedyRetry
}

func (r *RiskGuard) Escalate(runId string, reason string) error {
	r.Logger.Log(runId, fmt.Sprintf("Error debounce, page reload: %s", reason), model.SeverityError)

	err := r.Page.Reload()
	r.TimeService.WaitSeconds(ReloadCooldownSeconds)

	return err
}

func (r *RiskGuard) CheckDropRisk(pair model.TradingPair, thresholdPercent float64) (model.DropRisk, error) {
	if thresholdPercent <= 0 {
		return model.DropRisk{}, nil
	}

	trades, err := r.MarketData.FetchRecentTrades(pair.Symbol, DropRiskTradeLimit)
	if err != nil {
		return model.DropRisk{}, err
	}

	risk, err := DetectDropRisk(trades, DropRiskWindowMilli, thresholdPercent)
	if err != nil {
		return risk, err
	}

	if risk.HasRisk {
		return risk, fmt.Errorf(
			"%w: [%s] worst drop %.4f%% > %.4f%%",
			model.ErrDropRisk,
			pair.Symbol,
			risk.WorstDropPercent,
			thresholdPercent,
		)
	}

	return risk, nil
}

func IsReloadClass(err error) bool {
	return errors.Is(err, model.ErrElementNotFound) ||
		errors.Is(err, model.ErrUnknownModal) ||
		errors.Is(err, model.ErrSubmitTimeout)
}

// DetectDropRisk measures the worst fall from the first trade within windowMilli.
func DetectDropRisk(trades []model.AggTrade, windowMilli int64, thresholdPercent float64) (model.DropRisk, error) {
	if len(trades) == 0 {
		return model.DropRisk{}, errors.New("drop risk: trades are empty")
	}

	start := trades[0]
	startPrice := start.GetPrice()
	if startPrice <= 0 {
		return model.DropRisk{}, errors.New(fmt.Sprintf("drop risk: invalid start price %s", start.Price))
	}

	risk := model.DropRisk{
		StartPrice:       startPrice,
		MinPrice:         startPrice,
		CheckedStart:     start.Timestamp,
		CheckedEnd:       model.TimestampMilli(start.Timestamp.Value() + windowMilli),
		ThresholdPercent: thresholdPercent,
	}

	thresholdPrice := startPrice * (1 - thresholdPercent/100)

	for i := range trades {
		trade := trades[i]
		if trade.Timestamp.Gt(risk.CheckedEnd) {
			break
		}

		price := trade.GetPrice()
		quantity := trade.GetQuantity()
		risk.TotalVolume += quantity

		if price < risk.MinPrice {
			risk.MinPrice = price
			risk.MinTrade = &trade
		}
		if price <= thresholdPrice {
			risk.LowPriceVolume += quantity
		}
	}

	risk.WorstDropPercent = (startPrice - risk.MinPrice) / startPrice * 100
	risk.HasRisk = risk.WorstDropPercent > thresholdPercent
	if risk.TotalVolume > 0 {
		risk.LowPriceVolumeRatio = risk.LowPriceVolume / risk.TotalVolume
	}

	return risk, nil
}
