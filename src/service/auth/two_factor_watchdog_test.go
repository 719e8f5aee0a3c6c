package auth

import (
	"context"
	"errors"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/tests"
	"testing"
	"time"
)

const testSecret = "JBSWY3DPEHPK3PXP"

type codeGeneratorStub struct {
	code string
	err  error
}

func (c codeGeneratorStub) Generate(secret string, at time.Time) (string, error) {
	return c.code, c.err
}

func TestTotpCodeGenerator(t *testing.T) {
	assertion := assert.New(t)

	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	code, err := TotpCodeGenerator{}.Generate(testSecret, at)
	assertion.Nil(err)
	assertion.Len(code, 6)
	expected, _ := totp.GenerateCode(testSecret, at)
	assertion.Equal(expected, code)

	again, _ := TotpCodeGenerator{}.Generate(testSecret, at.Add(time.Second*5))
	assertion.Equal(code, again)
}

func TestCheckWithoutChallengeDoesNothing(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(false, nil)

	watchdog := TwoFactorWatchdog{Page: page, TimeService: &tests.VirtualClock{}, Logger: &tests.LogCollector{}}
	challenged, err := watchdog.Check("run", "")
	assertion.Nil(err)
	assertion.False(challenged)
	page.AssertNotCalled(t, "GetAuthStep")
}

func TestCheckWithoutSecretIsFatal(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil)

	watchdog := TwoFactorWatchdog{Page: page, TimeService: &tests.VirtualClock{}, Logger: &tests.LogCollector{}}
	challenged, err := watchdog.Check("run", "")
	assertion.True(challenged)
	assertion.ErrorIs(err, model.ErrAuthSecretMissing)
	assertion.True(IsFatal(err))
}

func TestCheckWalksEveryStepAndEntersCodeOnce(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil).Once()
	page.On("HasAuthChallenge").Return(false, nil)
	page.On("GetAuthStep").Return(model.AuthStepPasskey, nil).Once()
	page.On("GetAuthStep").Return(model.AuthStepMethodSelection, nil).Once()
	page.On("GetAuthStep").Return(model.AuthStepCodeEntry, nil)
	page.On("SkipPasskey").Return(nil)
	page.On("SelectAuthenticatorMethod").Return(nil)
	page.On("EnterAuthCode", "123456").Return(nil)

	clock := &tests.VirtualClock{}
	watchdog := TwoFactorWatchdog{
		Page:          page,
		CodeGenerator: codeGeneratorStub{code: "123456"},
		TimeService:   clock,
		Logger:        &tests.LogCollector{},
	}

	challenged, err := watchdog.Check("run", testSecret)
	assertion.Nil(err)
	assertion.True(challenged)
	page.AssertNumberOfCalls(t, "EnterAuthCode", 1)
	page.AssertNumberOfCalls(t, "SkipPasskey", 1)
	page.AssertNumberOfCalls(t, "SelectAuthenticatorMethod", 1)
	page.AssertNotCalled(t, "Reload")
	assertion.Equal(time.Millisecond*StepSettleMilli*2+time.Second*CodeSettleSeconds, clock.GetWaited())
}

func TestCheckReloadsWhenChallengePersists(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil)
	page.On("GetAuthStep").Return(model.AuthStepCodeEntry, nil)
	page.On("EnterAuthCode", mock.Anything).Return(nil)
	page.On("Reload").Return(nil)

	watchdog := TwoFactorWatchdog{
		Page:          page,
		CodeGenerator: TotpCodeGenerator{},
		TimeService:   &tests.VirtualClock{},
		Logger:        &tests.LogCollector{},
	}

	_, err := watchdog.Check("run", testSecret)
	assertion.Nil(err)
	page.AssertNumberOfCalls(t, "EnterAuthCode", 1)
	page.AssertNumberOfCalls(t, "Reload", 1)
}

func TestCheckCodeFailureIsFatal(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil)
	page.On("GetAuthStep").Return(model.AuthStepCodeEntry, nil)

	watchdog := TwoFactorWatchdog{
		Page:          page,
		CodeGenerator: codeGeneratorStub{err: errors.New("bad secret")},
		TimeService:   &tests.VirtualClock{},
		Logger:        &tests.LogCollector{},
	}

	_, err := watchdog.Check("run", testSecret)
	assertion.ErrorIs(err, model.ErrAuthCodeFailed)
	assertion.True(IsFatal(err))
	page.AssertNotCalled(t, "EnterAuthCode", mock.Anything)
}

func TestCheckUnknownStepIsRetried(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil)
	page.On("GetAuthStep").Return(model.AuthStepUnknown, nil)

	watchdog := TwoFactorWatchdog{Page: page, TimeService: &tests.VirtualClock{}, Logger: &tests.LogCollector{}}
	_, err := watchdog.Check("run", testSecret)
	assertion.Error(err)
	assertion.False(IsFatal(err))
}

func TestStartStopsRunWithinOnePollWithoutSecret(t *testing.T) {
	assertion := assert.New(t)

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil)

	clock := &tests.VirtualClock{}
	logger := &tests.LogCollector{}
	watchdog := TwoFactorWatchdog{Page: page, TimeService: clock, Logger: logger}
	stop := service.NewStopHandle()

	<-watchdog.Start(context.Background(), "run", "", stop)

	assertion.True(stop.IsStopped())
	assertion.ErrorIs(stop.Err(), model.ErrAuthSecretMissing)
	assertion.Equal(time.Millisecond*PollIntervalMilli, clock.GetWaited())
	assertion.Equal(1, logger.Count(model.SeverityError))
}

func TestStartExitsOnContext(t *testing.T) {
	assertion := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stop := service.NewStopHandle()
	watchdog := TwoFactorWatchdog{Page: new(tests.PageAutomationMock), TimeService: &tests.VirtualClock{}, Logger: &tests.LogCollector{}}

	<-watchdog.Start(ctx, "run", testSecret, stop)
	assertion.False(stop.IsStopped())
}

func TestStartAnswersChallengeWhileDraining(t *testing.T) {
	assertion := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	page := new(tests.PageAutomationMock)
	page.On("HasAuthChallenge").Return(true, nil).Once()
	page.On("HasAuthChallenge").Return(false, nil)
	page.On("GetAuthStep").Return(model.AuthStepCodeEntry, nil)
	page.On("EnterAuthCode", "123456").Return(nil).Run(func(args mock.Arguments) {
		cancel()
	})

	stop := service.NewStopHandle()
	stop.RequestStop("Run completed: 3 cycles", nil)

	watchdog := TwoFactorWatchdog{
		Page:          page,
		CodeGenerator: codeGeneratorStub{code: "123456"},
		TimeService:   &tests.VirtualClock{},
		Logger:        &tests.LogCollector{},
	}

	<-watchdog.Start(ctx, "run", testSecret, stop)

	page.AssertNumberOfCalls(t, "EnterAuthCode", 1)
	assertion.Nil(stop.Err())
	assertion.Equal("Run completed: 3 cycles", stop.Reason())
}
