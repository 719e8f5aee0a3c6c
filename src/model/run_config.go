package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
)

const RunModeOrder = "Order"
const RunModeReverse = "Reverse"

const OrderAmountModeFixed = "Fixed"
const OrderAmountModeRandom = "Random"

// RunTypeSum stops after RunNum completed cycles, RunTypePrice once today's points reach RunPrice.
const RunTypeSum = "sum"
const RunTypePrice = "price"

const KLineIntervalSecond = "1s"

type StabilityOptions struct {
	ToSlope     float64 `json:"toSlope"`
	Confirm     int     `json:"confirm"`
	Short       int     `json:"short"`
	Long        int     `json:"long"`
	Lookback    int     `json:"lookback"`
	Limit       int64   `json:"limit"`
	UpThreshold int     `json:"upThreshold"`
}

func DefaultStabilityOptions() StabilityOptions {
	return StabilityOptions{
		ToSlope:     0.000001,
		Confirm:     3,
		Short:       5,
		Long:        20,
		Lookback:    15,
		Limit:       15,
		UpThreshold: 2,
	}
}

type RunConfig struct {
	Mode            string          `json:"mode"`
	OrderAmountMode string          `json:"orderAmountMode"`
	Amount          decimal.Decimal `json:"amount"`
	MinAmount       decimal.Decimal `json:"minAmount"`
	MaxAmount       decimal.Decimal `json:"maxAmount"`
	// CheckPriceCount is the number of conservative price samples before a buy.
	CheckPriceCount int `json:"count"`
	// Timeout is the order fill timeout in seconds.
	Timeout              int64            `json:"timeout"`
	TimeoutCount         int              `json:"timeoutCount"`
	RunType              string           `json:"runType"`
	RunNum               int              `json:"runNum"`
	RunPrice             decimal.Decimal  `json:"runPrice"`
	MinDiscount          float64          `json:"minDiscount"`
	MaxDiscount          float64          `json:"maxDiscount"`
	PriceRatio           float64          `json:"priceRatio"`
	UptrendMarkupPercent float64          `json:"uptrendMarkupPercent"`
	MinSleep             int64            `json:"minSleep"`
	MaxSleep             int64            `json:"maxSleep"`
	DropRiskPercent      float64          `json:"dropRiskPercent"`
	Secret               string           `json:"secret"`
	Stability            StabilityOptions `json:"stability"`
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Mode:                 RunModeOrder,
		OrderAmountMode:      OrderAmountModeFixed,
		Amount:               decimal.Zero,
		MinAmount:            decimal.NewFromInt(50),
		MaxAmount:            decimal.NewFromInt(100),
		CheckPriceCount:      1,
		Timeout:              2,
		TimeoutCount:         3,
		RunType:              RunTypeSum,
		RunNum:               3,
		RunPrice:             decimal.NewFromInt(65536),
		MinDiscount:          0.1,
		MaxDiscount:          0.2,
		PriceRatio:           0.5,
		UptrendMarkupPercent: 0.1,
		MinSleep:             1,
		MaxSleep:             5,
		Stability:            DefaultStabilityOptions(),
	}
}

func (c *RunConfig) IsReverse() bool {
	return c.Mode == RunModeReverse
}

func (c *RunConfig) IsTargetMode() bool {
	return c.RunType == RunTypePrice
}

func (c *RunConfig) HasSecret() bool {
	return len(c.Secret) > 0
}

func (c *RunConfig) Scan(src interface{}) error {
	switch value := src.(type) {
	case []byte:
		return json.Unmarshal(value, &c)
	case string:
		return json.Unmarshal([]byte(value), &c)
	}

	return errors.New(fmt.Sprintf("RunConfig: unsupported data type given, %T", src))
}

func (c RunConfig) Value() (driver.Value, error) {
	jsonV, err := json.Marshal(c)
	return string(jsonV), err
}

// Masked hides the TOTP secret before the config leaves the process.
func (c RunConfig) Masked() RunConfig {
	if len(c.Secret) > 0 {
		c.Secret = "****"
	}

	return c
}
