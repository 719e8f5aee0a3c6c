package client

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"strings"
	"testing"
)

type ScriptRunnerMock struct {
	mock.Mock
}

func (m *ScriptRunnerMock) Evaluate(expression string) (model.ScriptResult, error) {
	args := m.Called(expression)
	return args.Get(0).(model.ScriptResult), args.Error(1)
}
func (m *ScriptRunnerMock) Reload() error {
	args := m.Called()
	return args.Error(0)
}
func (m *ScriptRunnerMock) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func scriptValue(value any) model.ScriptResult {
	encoded, _ := json.Marshal(value)
	return model.ScriptResult{Val: encoded}
}

func TestPageAutomationPassesArguments(t *testing.T) {
	assertion := assert.New(t)
	runner := new(ScriptRunnerMock)
	page := PageAutomation{DevTools: runner}

	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.HasSuffix(expression, `)(...["0.12345600"])`)
	})).Return(scriptValue(true), nil).Once()

	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.HasSuffix(expression, `)(...["Buy"])`)
	})).Return(scriptValue("0.999900"), nil).Once()
	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.HasSuffix(expression, `)(...["Sell"])`)
	})).Return(scriptValue("1.000100"), nil).Once()

	assertion.Nil(page.WriteOrderPrice("0.12345600"))

	buy, err := page.ReadPrice(model.SideBuy)
	assertion.Nil(err)
	sell, err := page.ReadPrice(model.SideSell)
	assertion.Nil(err)
	assertion.Equal("0.999900", buy)
	assertion.Equal("1.000100", sell)
	runner.AssertExpectations(t)
}

func TestPageAutomationReadsValues(t *testing.T) {
	assertion := assert.New(t)
	runner := new(ScriptRunnerMock)
	page := PageAutomation{DevTools: runner}

	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.Contains(expression, "div[class~=\"text-PrimaryText\"]")
	})).Return(scriptValue("1024.55"), nil)
	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.Contains(expression, "#bn-tab-pane-orderOrder td div")
	})).Return(scriptValue(true), nil)

	balance, err := page.ReadBalance()
	assertion.Nil(err)
	assertion.Equal("1024.55", balance)

	pending, err := page.HasPendingOrder(model.SideBuy)
	assertion.Nil(err)
	assertion.True(pending)
}

func TestPageAutomationClassifiesErrors(t *testing.T) {
	assertion := assert.New(t)
	runner := new(ScriptRunnerMock)
	page := PageAutomation{DevTools: runner}

	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.Contains(expression, "button.bn-button__buy")
	})).Return(model.ScriptResult{Error: "timeout:submit confirmation"}, nil)
	runner.On("Evaluate", mock.MatchedBy(func(expression string) bool {
		return strings.Contains(expression, "input#limitPrice") && !strings.Contains(expression, "openPanel(1)")
	})).Return(model.ScriptResult{Error: "not_found:input"}, nil)
	runner.On("Evaluate", mock.Anything).Return(model.ScriptResult{Error: "Cannot read properties of null"}, nil)

	assertion.ErrorIs(page.SubmitOrder(), model.ErrSubmitTimeout)
	assertion.ErrorIs(page.WriteOrderPrice("1"), model.ErrElementNotFound)
	assertion.ErrorIs(page.CancelPendingOrders(), model.ErrPageScript)
}

func TestPageAutomationAuthStep(t *testing.T) {
	assertion := assert.New(t)
	runner := new(ScriptRunnerMock)
	page := PageAutomation{DevTools: runner}

	runner.On("Evaluate", mock.Anything).Return(scriptValue("passkey"), nil).Once()
	runner.On("Evaluate", mock.Anything).Return(scriptValue("something-new"), nil).Once()

	step, err := page.GetAuthStep()
	assertion.Nil(err)
	assertion.Equal(model.AuthStepPasskey, step)

	step, err = page.GetAuthStep()
	assertion.Nil(err)
	assertion.Equal(model.AuthStepUnknown, step)
}
