package client

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"testing"
)

type HttpGetMock struct {
	mock.Mock
}

func (m *HttpGetMock) Get(url string, headers map[string]string) ([]byte, error) {
	args := m.Called(url, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestResolveSymbol(t *testing.T) {
	assertion := assert.New(t)
	httpClient := new(HttpGetMock)
	alphaClient := AlphaClient{DestinationURI: "https://example.test/", HttpClient: httpClient}

	httpClient.On("Get", "https://example.test/bapi/defi/v1/public/wallet-direct/buw/wallet/cex/alpha/all/token/list", map[string]string(nil)).Return([]byte(`{
		"code": "000000",
		"success": true,
		"data": [
			{"alphaId": "ALPHA_1", "symbol": "KOGE", "name": "KOGE", "mulPoint": 4},
			{"alphaId": "ALPHA_2", "symbol": "ZKJ", "name": "Polyhedra", "mulPoint": 0}
		]
	}`), nil)

	pair, err := alphaClient.ResolveSymbol(" KOGE ")
	assertion.Nil(err)
	assertion.Equal("ALPHA_1USDT", pair.Symbol)
	assertion.Equal(4.0, pair.Multiplier)
	assertion.Equal("KOGE", pair.DisplayName)

	pair, err = alphaClient.ResolveSymbol("ZKJ")
	assertion.Nil(err)
	assertion.Equal(1.0, pair.Multiplier)

	_, err = alphaClient.ResolveSymbol("DOGE")
	assertion.ErrorIs(err, model.ErrSymbolNotFound)
}

func TestFetchKlinesKeepsStrings(t *testing.T) {
	assertion := assert.New(t)
	httpClient := new(HttpGetMock)
	alphaClient := AlphaClient{HttpClient: httpClient}

	httpClient.On("Get", "https://www.binance.com/bapi/defi/v1/public/alpha-trade/klines?interval=1s&limit=2&symbol=ALPHA_1USDT", map[string]string(nil)).Return([]byte(`{
		"code": "000000",
		"success": true,
		"data": [
			["1718000000000", "0.10010000", "0.10020000", "0.10000000", "0.10015000", "1200.5", "1718000000999"],
			[1718000001000, "0.10015000", "0.10030000", "0.10010000", "0.10025000", "800", 1718000001999]
		]
	}`), nil)

	kLines, err := alphaClient.FetchKlines("ALPHA_1USDT", model.KLineIntervalSecond, 2)
	assertion.Nil(err)
	assertion.Len(kLines, 2)
	assertion.Equal("0.10015000", kLines[0].Close)
	assertion.Equal(model.TimestampMilli(1718000001000), kLines[1].OpenTime)
	assertion.Equal([]float64{0.10015, 0.10025}, model.ClosePrices(kLines))
}

func TestFetchKlinesFailure(t *testing.T) {
	assertion := assert.New(t)
	httpClient := new(HttpGetMock)
	alphaClient := AlphaClient{HttpClient: httpClient}

	httpClient.On("Get", mock.Anything, mock.Anything).Return([]byte(`{"code": "100001", "success": false, "messageDetail": "symbol is invalid", "data": null}`), nil)

	_, err := alphaClient.FetchKlines("BROKEN", model.KLineIntervalSecond, 15)
	assertion.NotNil(err)
	assertion.Contains(err.Error(), "symbol is invalid")
}

func TestGetLastPrice(t *testing.T) {
	assertion := assert.New(t)
	httpClient := new(HttpGetMock)
	alphaClient := AlphaClient{HttpClient: httpClient}

	httpClient.On("Get", "https://www.binance.com/bapi/defi/v1/public/alpha-trade/agg-trades?limit=1&symbol=ALPHA_1USDT", map[string]string(nil)).Return([]byte(`{
		"code": "000000",
		"success": true,
		"data": [{"a": 1, "p": "0.12345600", "q": "10", "f": 1, "l": 1, "T": 1718000000000, "m": false}]
	}`), nil).Once()

	price, err := alphaClient.GetLastPrice("ALPHA_1USDT")
	assertion.Nil(err)
	assertion.Equal("0.12345600", price)

	httpClient.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("network down"))
	_, err = alphaClient.GetLastPrice("ALPHA_1USDT")
	assertion.NotNil(err)
}
