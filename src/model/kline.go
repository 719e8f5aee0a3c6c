package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// KLine keeps every numeric field as the exchange formatted it.
type KLine struct {
	OpenTime  TimestampMilli `json:"openTime"`
	Open      string         `json:"open"`
	High      string         `json:"high"`
	Low       string         `json:"low"`
	Close     string         `json:"close"`
	Volume    string         `json:"volume"`
	CloseTime TimestampMilli `json:"closeTime"`
}

// UnmarshalJSON reads the exchange row format: [openTime, o, h, l, c, v, closeTime, ...].
func (k *KLine) UnmarshalJSON(b []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		type plain KLine
		var p plain
		if objErr := json.Unmarshal(b, &p); objErr != nil {
			return errors.New(fmt.Sprintf("KLine: unsupported data type given, %s", err.Error()))
		}
		*k = KLine(p)
		return nil
	}

	if len(row) < 6 {
		return errors.New(fmt.Sprintf("KLine: row has %d fields, at least 6 expected", len(row)))
	}

	fields := make([]string, len(row))
	for i, raw := range row {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			fields[i] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.New(fmt.Sprintf("KLine: field %d is neither string nor number", i))
		}
		fields[i] = n.String()
	}

	openTime, _ := strconv.ParseInt(fields[0], 10, 64)
	k.OpenTime = TimestampMilli(openTime)
	k.Open = fields[1]
	k.High = fields[2]
	k.Low = fields[3]
	k.Close = fields[4]
	k.Volume = fields[5]
	if len(fields) > 6 {
		closeTime, _ := strconv.ParseInt(fields[6], 10, 64)
		k.CloseTime = TimestampMilli(closeTime)
	}

	return nil
}

func (k KLine) GetClose() float64 {
	value, _ := strconv.ParseFloat(k.Close, 64)
	return value
}

func ClosePrices(kLines []KLine) []float64 {
	closes := make([]float64, 0, len(kLines))
	for _, kLine := range kLines {
		closes = append(closes, kLine.GetClose())
	}

	return closes
}

type AlphaKLineResponse struct {
	Code          string  `json:"code"`
	Message       *string `json:"message"`
	MessageDetail *string `json:"messageDetail"`
	Success       bool    `json:"success"`
	Data          []KLine `json:"data"`
}
