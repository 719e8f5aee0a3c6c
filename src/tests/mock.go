package tests

import (
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"sync"
	"time"
)

type PageAutomationMock struct {
	mock.Mock
}

func (m *PageAutomationMock) ReadAssetName() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
func (m *PageAutomationMock) ReadPrice(side model.Side) (string, error) {
	args := m.Called(side)
	return args.String(0), args.Error(1)
}
func (m *PageAutomationMock) ReadBalance() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
func (m *PageAutomationMock) WriteOrderPrice(value string) error {
	args := m.Called(value)
	return args.Error(0)
}
func (m *PageAutomationMock) WriteOrderAmount(value string) error {
	args := m.Called(value)
	return args.Error(0)
}
func (m *PageAutomationMock) WriteOrderQuantityPercent(value string) error {
	args := m.Called(value)
	return args.Error(0)
}
func (m *PageAutomationMock) WriteReversePrice(value string) error {
	args := m.Called(value)
	return args.Error(0)
}
func (m *PageAutomationMock) SetReverseOrder(enabled bool) error {
	args := m.Called(enabled)
	return args.Error(0)
}
func (m *PageAutomationMock) SubmitOrder() error {
	args := m.Called()
	return args.Error(0)
}
func (m *PageAutomationMock) HasPendingOrder(side model.Side) (bool, error) {
	args := m.Called(side)
	return args.Bool(0), args.Error(1)
}
func (m *PageAutomationMock) CancelPendingOrders() error {
	args := m.Called()
	return args.Error(0)
}
func (m *PageAutomationMock) HasOpenPosition() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}
func (m *PageAutomationMock) HasUnknownModal() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}
func (m *PageAutomationMock) HasAuthChallenge() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}
func (m *PageAutomationMock) GetAuthStep() (model.AuthStep, error) {
	args := m.Called()
	return args.Get(0).(model.AuthStep), args.Error(1)
}
func (m *PageAutomationMock) SkipPasskey() error {
	args := m.Called()
	return args.Error(0)
}
func (m *PageAutomationMock) SelectAuthenticatorMethod() error {
	args := m.Called()
	return args.Error(0)
}
func (m *PageAutomationMock) EnterAuthCode(code string) error {
	args := m.Called(code)
	return args.Error(0)
}
func (m *PageAutomationMock) SwitchPanel(panel model.Panel) error {
	args := m.Called(panel)
	return args.Error(0)
}
func (m *PageAutomationMock) Reload() error {
	args := m.Called()
	return args.Error(0)
}
func (m *PageAutomationMock) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

type MarketDataMock struct {
	mock.Mock
}

func (m *MarketDataMock) ResolveSymbol(displayName string) (model.TradingPair, error) {
	args := m.Called(displayName)
	return args.Get(0).(model.TradingPair), args.Error(1)
}
func (m *MarketDataMock) FetchRecentTrades(symbol string, limit int64) ([]model.AggTrade, error) {
	args := m.Called(symbol, limit)
	return args.Get(0).([]model.AggTrade), args.Error(1)
}
func (m *MarketDataMock) FetchKlines(symbol string, interval string, limit int64) ([]model.KLine, error) {
	args := m.Called(symbol, interval, limit)
	return args.Get(0).([]model.KLine), args.Error(1)
}
func (m *MarketDataMock) GetLastPrice(symbol string) (string, error) {
	args := m.Called(symbol)
	return args.String(0), args.Error(1)
}

type StabilityAnalyzerMock struct {
	mock.Mock
}

func (m *StabilityAnalyzerMock) Check(pair model.TradingPair, options model.StabilityOptions) (model.MarketStability, error) {
	args := m.Called(pair, options)
	return args.Get(0).(model.MarketStability), args.Error(1)
}

// VirtualClock advances instead of sleeping.
type VirtualClock struct {
	Now    time.Time
	Waited time.Duration
	lock   sync.Mutex
}

func (c *VirtualClock) advance(duration time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.Now.IsZero() {
		c.Now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	c.Now = c.Now.Add(duration)
	c.Waited += duration
}

func (c *VirtualClock) WaitSeconds(seconds int64) {
	c.advance(time.Second * time.Duration(seconds))
}
func (c *VirtualClock) WaitMilliseconds(milliseconds int64) {
	c.advance(time.Millisecond * time.Duration(milliseconds))
}
func (c *VirtualClock) GetNow() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.Now.IsZero() {
		c.Now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}

	return c.Now
}
func (c *VirtualClock) GetNowUnix() int64 {
	return c.GetNow().Unix()
}
func (c *VirtualClock) GetNowUnixMilli() int64 {
	return c.GetNow().UnixMilli()
}
func (c *VirtualClock) GetNowDateTimeString() string {
	return c.GetNow().Format("2006-01-02 15:04:05")
}
func (c *VirtualClock) GetWaited() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.Waited
}

type LogCollector struct {
	Entries []model.LogEntry
	lock    sync.Mutex
}

func (l *LogCollector) Log(runId string, message string, severity model.Severity) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.Entries = append(l.Entries, model.LogEntry{RunId: runId, Message: message, Severity: severity})
}

func (l *LogCollector) Count(severity model.Severity) int {
	l.lock.Lock()
	defer l.lock.Unlock()

	count := 0
	for _, entry := range l.Entries {
		if entry.Severity == severity {
			count++
		}
	}

	return count
}
