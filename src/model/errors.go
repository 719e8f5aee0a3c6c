package model

import "errors"

// Page automation failures.
var ErrElementNotFound = errors.New("page element is not found")
var ErrPageScript = errors.New("page script failed")
var ErrTimeout = errors.New("operation timed out")
var ErrSubmitTimeout = errors.New("order submit confirmation timed out")
var ErrNotConnected = errors.New("devtools connection is not established")

// Cycle outcomes.
var ErrSymbolNotFound = errors.New("trading symbol is not found")
var ErrMarketUnstable = errors.New("market is not stable")
var ErrDropRisk = errors.New("price drop risk detected")
var ErrUnknownModal = errors.New("unknown modal dialog is open")
var ErrBuyFillTimeout = errors.New("buy order fill timed out")
var ErrSellFillTimeout = errors.New("sell order fill timed out")
var ErrPriceUnavailable = errors.New("price is unavailable")
var ErrBalanceUnavailable = errors.New("balance is unavailable")

// Run level.
var ErrRunInProgress = errors.New("run is already in progress")
var ErrAuthSecretMissing = errors.New("auth challenge appeared but no secret is configured")
var ErrAuthCodeFailed = errors.New("auth code generation failed")
var ErrStopRequested = errors.New("stop requested")
