package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
	"net/url"
	"strings"
	"time"
)

const DefaultAlphaApiDsn = "https://www.binance.com"

const tokenListPath = "/bapi/defi/v1/public/wallet-direct/buw/wallet/cex/alpha/all/token/list"
const aggTradesPath = "/bapi/defi/v1/public/alpha-trade/agg-trades"
const kLinesPath = "/bapi/defi/v1/public/alpha-trade/klines"

const tokenListCacheKey = "alpha-token-list"
const tokenListCacheTTL = time.Minute * 10

type HttpGetInterface interface {
	Get(url string, headers map[string]string) ([]byte, error)
}

type MarketDataInterface interface {
	ResolveSymbol(displayName string) (model.TradingPair, error)
	FetchRecentTrades(symbol string, limit int64) ([]model.AggTrade, error)
	FetchKlines(symbol string, interval string, limit int64) ([]model.KLine, error)
	GetLastPrice(symbol string) (string, error)
}

// AlphaClient reads the public alpha market endpoints. It does not retry.
type AlphaClient struct {
	DestinationURI string
	HttpClient     HttpGetInterface
	RDB            *redis.Client
	Ctx            *context.Context
}

func (a *AlphaClient) baseURI() string {
	base := a.DestinationURI
	if len(base) == 0 {
		base = DefaultAlphaApiDsn
	}

	return strings.TrimRight(base, "/")
}

func (a *AlphaClient) ResolveSymbol(displayName string) (model.TradingPair, error) {
	tokens, err := a.getTokenListCached()
	if err != nil {
		return model.TradingPair{}, err
	}

	name := strings.TrimSpace(displayName)
	for _, token := range tokens {
		if token.Symbol == name {
			return token.ToTradingPair(), nil
		}
	}

	return model.TradingPair{}, fmt.Errorf("%w: %s", model.ErrSymbolNotFound, name)
}

func (a *AlphaClient) getTokenListCached() ([]model.AlphaToken, error) {
	if a.RDB != nil {
		cached := a.RDB.Get(*a.Ctx, tokenListCacheKey).Val()
		if len(cached) > 0 {
			var tokens []model.AlphaToken
			if err := json.Unmarshal([]byte(cached), &tokens); err == nil {
				return tokens, nil
			}
		}
	}

	tokens, err := a.GetTokenList()
	if err != nil {
		return nil, err
	}

	if a.RDB != nil {
		encoded, err := json.Marshal(tokens)
		if err == nil {
			if err := a.RDB.Set(*a.Ctx, tokenListCacheKey, string(encoded), tokenListCacheTTL).Err(); err != nil {
				log.Printf("Token list cache write failed: %s", err.Error())
			}
		}
	}

	return tokens, nil
}

func (a *AlphaClient) GetTokenList() ([]model.AlphaToken, error) {
	body, err := a.HttpClient.Get(fmt.Sprintf("%s%s", a.baseURI(), tokenListPath), nil)
	if err != nil {
		return nil, err
	}

	var response model.AlphaTokenListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, errors.New(fmt.Sprintf("Token list request failed: %s", messageOf(response.Code, response.Message)))
	}

	return response.Data, nil
}

func (a *AlphaClient) FetchRecentTrades(symbol string, limit int64) ([]model.AggTrade, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", fmt.Sprintf("%d", limit))

	body, err := a.HttpClient.Get(fmt.Sprintf("%s%s?%s", a.baseURI(), aggTradesPath, query.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var response model.AlphaAggTradeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, errors.New(fmt.Sprintf("[%s] Agg trades request failed: %s", symbol, messageOf(response.Code, response.Message)))
	}

	return response.Data, nil
}

func (a *AlphaClient) FetchKlines(symbol string, interval string, limit int64) ([]model.KLine, error) {
	query := url.Values{}
	query.Set("interval", interval)
	query.Set("limit", fmt.Sprintf("%d", limit))
	query.Set("symbol", symbol)

	body, err := a.HttpClient.Get(fmt.Sprintf("%s%s?%s", a.baseURI(), kLinesPath, query.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var response model.AlphaKLineResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		message := response.MessageDetail
		if message == nil {
			message = response.Message
		}

		return nil, errors.New(fmt.Sprintf("[%s] KLines request failed: %s", symbol, messageOf(response.Code, message)))
	}

	return response.Data, nil
}

func (a *AlphaClient) GetLastPrice(symbol string) (string, error) {
	trades, err := a.FetchRecentTrades(symbol, 1)
	if err != nil {
		return "", err
	}

	if len(trades) == 0 || len(trades[len(trades)-1].Price) == 0 {
		return "", fmt.Errorf("%w: [%s] no recent trades", model.ErrPriceUnavailable, symbol)
	}

	return trades[len(trades)-1].Price, nil
}

func messageOf(code string, message *string) string {
	if message != nil && len(*message) > 0 {
		return *message
	}
	if len(code) > 0 {
		return fmt.Sprintf("code %s", code)
	}

	return "unknown error"
}
