package validator

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"testing"
)

func validConfig() model.RunConfig {
	config := model.DefaultRunConfig()
	config.Amount = decimal.NewFromInt(50)

	return config
}

func TestRunConfigValid(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{StabilityOptionsValidator: &StabilityOptionsValidator{}}

	assertion.Nil(validator.Validate(validConfig()))
}

func TestRunConfigRandomAmountRange(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{StabilityOptionsValidator: &StabilityOptionsValidator{}}

	config := validConfig()
	config.OrderAmountMode = model.OrderAmountModeRandom
	config.MinAmount = decimal.NewFromInt(100)
	config.MaxAmount = decimal.NewFromInt(50)
	err := validator.Validate(config)
	assertion.Error(err)
	assertion.Contains(err.Error(), "minAmount")

	config.MaxAmount = decimal.NewFromInt(100)
	assertion.Nil(validator.Validate(config))
}

func TestRunConfigFixedAmountRequired(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{}

	config := validConfig()
	config.Amount = decimal.Zero
	assertion.Error(validator.Validate(config))
}

func TestRunConfigReverseDiscount(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{}

	config := validConfig()
	config.Mode = model.RunModeReverse
	config.MinDiscount = 0.3
	config.MaxDiscount = 0.2
	assertion.Error(validator.Validate(config))

	// discount is not used by order mode
	config.Mode = model.RunModeOrder
	assertion.Nil(validator.Validate(config))
}

func TestRunConfigRunType(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{}

	config := validConfig()
	config.RunNum = 0
	assertion.Error(validator.Validate(config))

	config.RunType = model.RunTypePrice
	config.RunPrice = decimal.Zero
	assertion.Error(validator.Validate(config))

	config.RunPrice = decimal.NewFromInt(1024)
	assertion.Nil(validator.Validate(config))

	config.RunType = "forever"
	assertion.Error(validator.Validate(config))
}

func TestRunConfigSleepAndTimeout(t *testing.T) {
	assertion := assert.New(t)
	validator := RunConfigValidator{}

	config := validConfig()
	config.MinSleep = 5
	config.MaxSleep = 5
	assertion.Error(validator.Validate(config))

	config = validConfig()
	config.Timeout = 0
	assertion.Error(validator.Validate(config))
}

func TestStabilityOptions(t *testing.T) {
	assertion := assert.New(t)
	validator := StabilityOptionsValidator{}

	assertion.Nil(validator.Validate(model.DefaultStabilityOptions()))
	assertion.Nil(validator.Validate(model.StabilityOptions{}))

	options := model.DefaultStabilityOptions()
	options.Short = 30
	assertion.Error(validator.Validate(options))

	options = model.DefaultStabilityOptions()
	options.Confirm = -1
	err := validator.Validate(options)
	assertion.Error(err)
	assertion.Contains(err.Error(), "confirm")
}
