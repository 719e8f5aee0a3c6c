package event

import "gitlab.com/open-soft/go-alpha-bot/src/model"

const EventRunLogAppended = "event_run_log_appended"
const EventCycleCompleted = "event_cycle_completed"

type RunLogAppended struct {
	Entry model.LogEntry
}

type CycleCompleted struct {
	Stat model.CycleStat
}
