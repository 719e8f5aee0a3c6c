package model

import "strconv"

type AggTrade struct {
	AggregateTradeId int64          `json:"a"`
	Price            string         `json:"p"`
	Quantity         string         `json:"q"`
	FirstTradeId     int64          `json:"f"`
	LastTradeId      int64          `json:"l"`
	Timestamp        TimestampMilli `json:"T"`
	IsBuyerMaker     bool           `json:"m"` // IsBuyerMaker = true -> SELL / IsBuyerMaker = false -> BUY
}

func (t AggTrade) GetPrice() float64 {
	value, _ := strconv.ParseFloat(t.Price, 64)
	return value
}

func (t AggTrade) GetQuantity() float64 {
	value, _ := strconv.ParseFloat(t.Quantity, 64)
	return value
}

func (t AggTrade) GetOperation() string {
	if t.IsBuyerMaker {
		return "SELL"
	}

	return "BUY"
}

type AlphaAggTradeResponse struct {
	Code    string     `json:"code"`
	Message *string    `json:"message"`
	Success bool       `json:"success"`
	Data    []AggTrade `json:"data"`
}

type DropRisk struct {
	HasRisk             bool           `json:"hasRisk"`
	WorstDropPercent    float64        `json:"worstDropPercent"`
	StartPrice          float64        `json:"startPrice"`
	MinPrice            float64        `json:"minPrice"`
	MinTrade            *AggTrade      `json:"minTrade"`
	CheckedStart        TimestampMilli `json:"checkedStart"`
	CheckedEnd          TimestampMilli `json:"checkedEnd"`
	ThresholdPercent    float64        `json:"thresholdPercent"`
	LowPriceVolume      float64        `json:"lowPriceVolume"`
	TotalVolume         float64        `json:"totalVolume"`
	LowPriceVolumeRatio float64        `json:"lowPriceVolumeRatio"`
}

// Liquidation sums up one forced sell-off. Price is the last filled sell price, empty when nothing filled.
type Liquidation struct {
	Attempts int64
	Price    string
}
