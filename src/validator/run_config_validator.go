package validator

import (
	"errors"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"slices"
)

type RunConfigValidatorInterface interface {
	Validate(config model.RunConfig) error
}

type RunConfigValidator struct {
	StabilityOptionsValidator *StabilityOptionsValidator
}

func (v *RunConfigValidator) Validate(config model.RunConfig) error {
	if !slices.Contains([]string{model.RunModeOrder, model.RunModeReverse}, config.Mode) {
		return errors.New(fmt.Sprintf("RunConfig `mode` %s is invalid", config.Mode))
	}

	if config.Timeout <= 0 {
		return errors.New("RunConfig `timeout` should be greater than 0")
	}

	if config.TimeoutCount < 0 {
		return errors.New("RunConfig `timeoutCount` should not be negative")
	}

	if config.CheckPriceCount < 0 {
		return errors.New("RunConfig `count` should not be negative")
	}

	switch config.OrderAmountMode {
	case model.OrderAmountModeFixed:
		if !config.Amount.IsPositive() {
			return errors.New("RunConfig `amount` should be greater than 0")
		}
	case model.OrderAmountModeRandom:
		if !config.MinAmount.IsPositive() || !config.MaxAmount.IsPositive() {
			return errors.New("RunConfig `minAmount` and `maxAmount` should be greater than 0")
		}
		if config.MinAmount.GreaterThan(config.MaxAmount) {
			return errors.New(fmt.Sprintf(
				"RunConfig `minAmount` %s is greater than `maxAmount` %s",
				config.MinAmount.String(),
				config.MaxAmount.String(),
			))
		}
	default:
		return errors.New(fmt.Sprintf("RunConfig `orderAmountMode` %s is invalid", config.OrderAmountMode))
	}

	if config.IsReverse() {
		if config.MinDiscount < 0 || config.MaxDiscount < 0 {
			return errors.New("RunConfig discount should not be negative")
		}
		if config.MinDiscount > config.MaxDiscount {
			return errors.New(fmt.Sprintf("RunConfig `minDiscount` %.6f is greater than `maxDiscount` %.6f", config.MinDiscount, config.MaxDiscount))
		}
	}

	if config.MinSleep < 0 || config.MaxSleep < 0 {
		return errors.New("RunConfig sleep bounds should not be negative")
	}
	if config.MinSleep > 0 && config.MaxSleep > 0 && config.MaxSleep <= config.MinSleep {
		return errors.New(fmt.Sprintf("RunConfig `maxSleep` %d should be greater than `minSleep` %d", config.MaxSleep, config.MinSleep))
	}

	switch config.RunType {
	case model.RunTypeSum:
		if config.RunNum <= 0 {
			return errors.New("RunConfig `runNum` should be greater than 0")
		}
	case model.RunTypePrice:
		if !config.RunPrice.IsPositive() {
			return errors.New("RunConfig `runPrice` should be greater than 0")
		}
	default:
		return errors.New(fmt.Sprintf("RunConfig `runType` %s is invalid", config.RunType))
	}

	if config.DropRiskPercent < 0 {
		return errors.New("RunConfig `dropRiskPercent` should not be negative")
	}

	if v.StabilityOptionsValidator != nil {
		return v.StabilityOptionsValidator.Validate(config.Stability)
	}

	return nil
}
