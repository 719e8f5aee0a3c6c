package model

type CycleState string

const CycleStateIdle CycleState = "Idle"
const CycleStateAcquiringSymbol CycleState = "AcquiringSymbol"
const CycleStatePreCycleCleanup CycleState = "PreCycleCleanup"
const CycleStateEvaluatingStability CycleState = "EvaluatingStability"
const CycleStateComputingBuyOrder CycleState = "ComputingBuyOrder"
const CycleStateAwaitingBuyFill CycleState = "AwaitingBuyFill"
const CycleStateComputingSellOrder CycleState = "ComputingSellOrder"
const CycleStateAwaitingSellFill CycleState = "AwaitingSellFill"
const CycleStateCycleComplete CycleState = "CycleComplete"
const CycleStateDraining CycleState = "Draining"

// RunState is owned by a single run of the order cycle controller.
type RunState struct {
	RunId             string      `json:"runId"`
	Pair              TradingPair `json:"pair"`
	State             CycleState  `json:"state"`
	Attempt           int64       `json:"attempt"`
	CycleIndex        int64       `json:"cycleIndex"`
	CompletedCycles   int64       `json:"completedCycles"`
	SkippedCycles     int64       `json:"skippedCycles"`
	FailedCycles      int64       `json:"failedCycles"`
	ConsecutiveErrors int64       `json:"consecutiveErrors"`
	SellTimeouts      int64       `json:"sellTimeouts"`
	Liquidations      int64       `json:"liquidations"`
	TodayPoints       string      `json:"todayPoints"`
	StartBalance      string      `json:"startBalance"`
	CurrentBalance    string      `json:"currentBalance"`
	StartedAt         string      `json:"startedAt"`
	StopReason        string      `json:"stopReason"`
	Running           bool        `json:"running"`
}

type CycleStat struct {
	RunId      string         `json:"runId"`
	Symbol     string         `json:"symbol"`
	Mode       string         `json:"mode"`
	CycleIndex int64          `json:"cycleIndex"`
	BuyPrice   string         `json:"buyPrice"`
	SellPrice  string         `json:"sellPrice"`
	Amount     string         `json:"amount"`
	Points     string         `json:"points"`
	Trend      Trend          `json:"trend"`
	Liquidated bool           `json:"liquidated"`
	Balance    string         `json:"balance"`
	StartedAt  TimestampMilli `json:"startedAt"`
	FinishedAt TimestampMilli `json:"finishedAt"`
}
