package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type TimestampMilli int64

func (t *TimestampMilli) UnmarshalJSON(b []byte) error {
	var strValue string
	err := json.Unmarshal(b, &strValue)
	if err == nil {
		intValue, _ := strconv.ParseInt(strValue, 10, 64)
		*t = TimestampMilli(intValue)
		return nil
	}

	var intValue int64
	err = json.Unmarshal(b, &intValue)

	if err == nil {
		*t = TimestampMilli(intValue)
		return nil
	}

	return errors.New(fmt.Sprintf("TimestampMilli: unsupported data type given, %s", err.Error()))
}

func (t TimestampMilli) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value())
}

func (t TimestampMilli) Value() int64 {
	return int64(t)
}

func (t TimestampMilli) Time() time.Time {
	return time.UnixMilli(t.Value())
}

func (t TimestampMilli) Gt(milli TimestampMilli) bool {
	return t.Value() > milli.Value()
}

func (t TimestampMilli) Gte(milli TimestampMilli) bool {
	return t.Value() >= milli.Value()
}

func (t TimestampMilli) Lte(milli TimestampMilli) bool {
	return t.Value() <= milli.Value()
}

type Side string

const SideBuy Side = "Buy"
const SideSell Side = "Sell"

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}

	return SideBuy
}

type Panel string

const PanelBuy Panel = "Buy"
const PanelSell Panel = "Sell"

// PricePoint is a single observed price, kept as the exchange rendered it.
type PricePoint struct {
	Price string `json:"price"`
	Side  Side   `json:"side"`
}
