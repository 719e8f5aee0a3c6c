package model

import (
	"github.com/shopspring/decimal"
	"time"
)

const DealDayLayout = "2006-01-02"

// DailyDeal is the traded volume of one UTC day. Amount is the literal USDT volume,
// Points is the volume scaled by the token reward multiplier.
type DailyDeal struct {
	Day    string          `json:"day"`
	Amount decimal.Decimal `json:"amount"`
	Points decimal.Decimal `json:"points"`
}

func (d DailyDeal) Add(amount decimal.Decimal, points decimal.Decimal) DailyDeal {
	return DailyDeal{
		Day:    d.Day,
		Amount: d.Amount.Add(amount),
		Points: d.Points.Add(points),
	}
}

func DealDay(t time.Time) string {
	return t.UTC().Format(DealDayLayout)
}
