package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/pquerna/otp/totp"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"log"
	"time"
)

const PollIntervalMilli = 300
const StepSettleMilli = 1000
const CodeSettleSeconds = 5

type StopRequesterInterface interface {
	RequestStop(reason string, err error)
	IsStopped() bool
}

type CodeGeneratorInterface interface {
	Generate(secret string, at time.Time) (string, error)
}

type TotpCodeGenerator struct {
}

func (t TotpCodeGenerator) Generate(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}

type TwoFactorWatchdogInterface interface {
	Start(ctx context.Context, runId string, secret string, stop StopRequesterInterface) <-chan struct{}
}

// TwoFactorWatchdog answers verification dialogs for the lifetime of one run.
type TwoFactorWatchdog struct {
	Page          client.PageAutomationInterface
	CodeGenerator CodeGeneratorInterface
	TimeService   utils.TimeServiceInterface
	Logger        service.RunLoggerInterface
}

// Start polls until ctx is done, including while a stopped run drains. The returned channel is closed on exit.
func (w *TwoFactorWatchdog) Start(ctx context.Context, runId string, secret string, stop StopRequesterInterface) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		w.watch(ctx, runId, secret, stop)
	}()

	return done
}

func (w *TwoFactorWatchdog) watch(ctx context.Context, runId string, secret string, stop StopRequesterInterface) {
	for {
		if ctx.Err() != nil {
			return
		}

		w.TimeService.WaitMilliseconds(PollIntervalMilli)

		_, err := w.Check(runId, secret)
		if err == nil {
			continue
		}

		if IsFatal(err) {
			w.Logger.Log(runId, fmt.Sprintf("%s, run is stopped", err.Error()), model.SeverityError)
			stop.RequestStop("auth challenge cannot be answered", err)
			return
		}

		log.Printf("[%s] Auth watchdog: %s", runId, err.Error())
	}
}

// Check handles a single poll and reports whether a challenge was on the page.
func (w *TwoFactorWatchdog) Check(runId string, secret string) (bool, error) {
	challenged, err := w.Page.HasAuthChallenge()
	if err != nil || !challenged {
		return false, err
	}

	if len(secret) == 0 {
		return true, model.ErrAuthSecretMissing
	}

	w.Logger.Log(runId, "Auth challenge detected", model.SeverityInfo)

	step, err := w.Page.GetAuthStep()
	if err != nil {
		return true, err
	}

	if step == model.AuthStepPasskey {
		if err := w.Page.SkipPasskey(); err != nil {
			return true, err
		}
		w.TimeService.WaitMilliseconds(StepSettleMilli)

		if step, err = w.Page.GetAuthStep(); err != nil {
			return true, err
		}
	}

	if step == model.AuthStepMethodSelection {
		if err := w.Page.SelectAuthenticatorMethod(); err != nil {
			return true, err
		}
		w.TimeService.WaitMilliseconds(StepSettleMilli)

		if step, err = w.Page.GetAuthStep(); err != nil {
			return true, err
		}
	}

	if step != model.AuthStepCodeEntry {
		return true, errors.New(fmt.Sprintf("auth step %s is not supported", step))
	}

	code, err := w.CodeGenerator.Generate(secret, w.TimeService.GetNow())
	if err != nil || len(code) == 0 {
		return true, fmt.Errorf("%w: %v", model.ErrAuthCodeFailed, err)
	}

	if err := w.Page.EnterAuthCode(code); err != nil {
		return true, err
	}

	w.TimeService.WaitSeconds(CodeSettleSeconds)

	still, err := w.Page.HasAuthChallenge()
	if err != nil {
		return true, err
	}

	if still {
		w.Logger.Log(runId, "Auth challenge is still open, page reload", model.SeverityError)
		return true, w.Page.Reload()
	}

	w.Logger.Log(runId, "Auth challenge passed", model.SeveritySuccess)

	return true, nil
}

func IsFatal(err error) bool {
	return errors.Is(err, model.ErrAuthSecretMissing) || errors.Is(err, model.ErrAuthCodeFailed)
}
