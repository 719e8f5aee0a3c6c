package model

type Trend string

const TrendUp Trend = "Uptrend"
const TrendDown Trend = "Downtrend"

type StabilitySignals struct {
	TrendSlope      bool `json:"trendSlope"`
	Momentum        bool `json:"momentum"`
	ShortVsLong     bool `json:"shortVsLong"`
	VolatilityBreak bool `json:"volatilityBreak"`
	Acceleration    bool `json:"acceleration"`
}

func (s StabilitySignals) Count() int {
	count := 0
	for _, signal := range []bool{s.TrendSlope, s.Momentum, s.ShortVsLong, s.VolatilityBreak, s.Acceleration} {
		if signal {
			count++
		}
	}

	return count
}

func (s StabilitySignals) Any() bool {
	return s.Count() > 0
}

type MarketStability struct {
	Symbol  string           `json:"symbol"`
	Stable  bool             `json:"stable"`
	Trend   Trend            `json:"trend"`
	Signals StabilitySignals `json:"signals"`
	Message string           `json:"message"`
}

func (m MarketStability) IsUptrend() bool {
	return m.Trend == TrendUp
}
