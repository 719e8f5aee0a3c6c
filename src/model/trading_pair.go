package model

import "fmt"

const QuoteAsset = "USDT"

// AlphaToken is a row of the exchange token list.
type AlphaToken struct {
	AlphaId  string  `json:"alphaId"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	MulPoint float64 `json:"mulPoint"`
}

func (a AlphaToken) ToTradingPair() TradingPair {
	multiplier := a.MulPoint
	if multiplier <= 0 {
		multiplier = 1
	}

	return TradingPair{
		DisplayName: a.Symbol,
		Symbol:      fmt.Sprintf("%s%s", a.AlphaId, QuoteAsset),
		Multiplier:  multiplier,
	}
}

type AlphaTokenListResponse struct {
	Code    string       `json:"code"`
	Message *string      `json:"message"`
	Success bool         `json:"success"`
	Data    []AlphaToken `json:"data"`
}

type TradingPair struct {
	DisplayName string  `json:"displayName"`
	Symbol      string  `json:"symbol"`
	Multiplier  float64 `json:"multiplier"`
}
