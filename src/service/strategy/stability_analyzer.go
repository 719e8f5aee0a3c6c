package strategy

import (
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"math"
)

const volatilityBreakRatio = 1.2

type KLineSourceInterface interface {
	FetchKlines(symbol string, interval string, limit int64) ([]model.KLine, error)
}

type StabilityAnalyzerInterface interface {
	Check(pair model.TradingPair, options model.StabilityOptions) (model.MarketStability, error)
}

type StabilityAnalyzer struct {
	MarketData KLineSourceInterface
}

// Check fetches fresh 1s klines and evaluates them. Klines are never reused between checks.
func (s *StabilityAnalyzer) Check(pair model.TradingPair, options model.StabilityOptions) (model.MarketStability, error) {
	options = NormalizeStabilityOptions(options)

	kLines, err := s.MarketData.FetchKlines(pair.Symbol, model.KLineIntervalSecond, options.Limit)
	if err != nil {
		return model.MarketStability{}, fmt.Errorf("[%s] market data: %w", pair.Symbol, err)
	}

	return Analyze(pair.Symbol, model.ClosePrices(kLines), options), nil
}

// NormalizeStabilityOptions replaces unset values with defaults.
func NormalizeStabilityOptions(options model.StabilityOptions) model.StabilityOptions {
	defaults := model.DefaultStabilityOptions()

	if options.ToSlope <= 0 {
		options.ToSlope = defaults.ToSlope
	}
	if options.Confirm <= 0 {
		options.Confirm = defaults.Confirm
	}
	if options.Short <= 0 {
		options.Short = defaults.Short
	}
	if options.Long <= 0 {
		options.Long = defaults.Long
	}
	if options.Lookback <= 0 {
		options.Lookback = defaults.Lookback
	}
	if options.Limit <= 0 {
		options.Limit = defaults.Limit
	}
	if options.UpThreshold <= 0 {
		options.UpThreshold = defaults.UpThreshold
	}

	return options
}

func Analyze(symbol string, closes []float64, options model.StabilityOptions) model.MarketStability {
	signals := model.StabilitySignals{
		TrendSlope:      TrendSlope(closes, options.ToSlope),
		Momentum:        Momentum(closes, options.Confirm),
		ShortVsLong:     ShortVsLong(closes, options.Short, options.Long),
		VolatilityBreak: VolatilityBreak(closes, options.Lookback),
		Acceleration:    Acceleration(closes),
	}

	trend := model.TrendDown
	if signals.Count() >= options.UpThreshold {
		trend = model.TrendUp
	}

	stable := signals.Any()
	verdict := "not tradable"
	if stable {
		verdict = "tradable"
	}

	return model.MarketStability{
		Symbol:  symbol,
		Stable:  stable,
		Trend:   trend,
		Signals: signals,
		Message: fmt.Sprintf(
			"%s, %s (slope: %t; momentum: %t; short vs long: %t; volatility break: %t; acceleration: %t)",
			verdict,
			trend,
			signals.TrendSlope,
			signals.Momentum,
			signals.ShortVsLong,
			signals.VolatilityBreak,
			signals.Acceleration,
		),
	}
}

// LinearSlope is the least squares slope of price against index.
func LinearSlope(closes []float64) float64 {
	n := len(closes)
	if n < 2 {
		return 0
	}

	avgX := float64(n-1) / 2
	avgY := mean(closes)

	var num, den float64
	for i, price := range closes {
		dx := float64(i) - avgX
		num += dx * (price - avgY)
		den += dx * dx
	}

	return num / den
}

func TrendSlope(closes []float64, toSlope float64) bool {
	if len(closes) < 5 {
		return false
	}

	return LinearSlope(closes) >= toSlope
}

// Momentum fires when each of the last confirm candles closed above the previous one.
func Momentum(closes []float64, confirm int) bool {
	if confirm <= 0 || len(closes) < confirm+1 {
		return false
	}

	count := 0
	for i := len(closes) - confirm; i < len(closes); i++ {
		if closes[i] > closes[i-1] {
			count++
		}
	}

	return count == confirm
}

// ShortVsLong compares the one step change of the short and long moving averages.
// With exactly long closes the previous long average is taken over what is left.
func ShortVsLong(closes []float64, short int, long int) bool {
	if short <= 0 || long <= 0 || len(closes) < long || len(closes) < short+1 {
		return false
	}

	previous := closes[:len(closes)-1]
	shortSlope := tailMean(closes, short) - tailMean(previous, short)
	longSlope := tailMean(closes, long) - tailMean(previous, min(long, len(previous)))

	return shortSlope > longSlope && shortSlope > 0
}

// VolatilityBreak fires when the last close is above mean + 1.2 stddev of the lookback window.
func VolatilityBreak(closes []float64, lookback int) bool {
	if lookback <= 0 || len(closes) < lookback {
		return false
	}

	recent := closes[len(closes)-lookback:]
	avg := mean(recent)

	var variance float64
	for _, price := range recent {
		variance += (price - avg) * (price - avg)
	}
	std := math.Sqrt(variance / float64(lookback))

	return recent[len(recent)-1] > avg+std*volatilityBreakRatio
}

func Acceleration(closes []float64) bool {
	n := len(closes)
	if n < 4 {
		return false
	}

	a1 := closes[n-1] - closes[n-2]
	a2 := closes[n-2] - closes[n-3]
	a3 := closes[n-3] - closes[n-4]

	return a1 > a2 && a2 > a3 && a1 > 0
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, value := range values {
		sum += value
	}

	return sum / float64(len(values))
}

func tailMean(values []float64, window int) float64 {
	return mean(values[len(values)-window:])
}
