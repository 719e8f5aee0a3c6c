package validator

import (
	"errors"
	"fmt"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"strings"
)

type StabilityOptionsValidator struct {
}

// Validate accepts zero values, the analyzer replaces them with defaults.
func (v *StabilityOptionsValidator) Validate(options model.StabilityOptions) error {
	negative := make([]string, 0)

	if options.ToSlope < 0 {
		negative = append(negative, "toSlope")
	}
	if options.Confirm < 0 {
		negative = append(negative, "confirm")
	}
	if options.Short < 0 {
		negative = append(negative, "short")
	}
	if options.Long < 0 {
		negative = append(negative, "long")
	}
	if options.Lookback < 0 {
		negative = append(negative, "lookback")
	}
	if options.Limit < 0 {
		negative = append(negative, "limit")
	}
	if options.UpThreshold < 0 {
		negative = append(negative, "upThreshold")
	}

	if len(negative) > 0 {
		return errors.New(fmt.Sprintf("Stability options: %s must not be negative", strings.Join(negative, ", ")))
	}

	if options.Short > 0 && options.Long > 0 && options.Short >= options.Long {
		return errors.New(fmt.Sprintf("Stability options: short window %d must be less than long window %d", options.Short, options.Long))
	}

	if options.UpThreshold > 5 {
		return errors.New(fmt.Sprintf("Stability options: upThreshold %d is greater than the number of signals", options.UpThreshold))
	}

	return nil
}
