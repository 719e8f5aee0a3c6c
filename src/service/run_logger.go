package service

import (
	"gitlab.com/open-soft/go-alpha-bot/src/event"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"log"
)

type RunLoggerInterface interface {
	Log(runId string, message string, severity model.Severity)
}

// RunLogger is the log callback of a run. Every entry goes to stdout and to the event subscribers.
type RunLogger struct {
	EventDispatcher EventDispatcherInterface
	TimeService     utils.TimeServiceInterface
	Callback        func(entry model.LogEntry)
}

func (r *RunLogger) Log(runId string, message string, severity model.Severity) {
	entry := model.LogEntry{
		RunId:     runId,
		Message:   message,
		Severity:  severity,
		Timestamp: model.TimestampMilli(r.TimeService.GetNowUnixMilli()),
	}

	log.Printf("[%s] %s: %s", runId, severity, message)

	if r.EventDispatcher != nil {
		r.EventDispatcher.Dispatch(event.RunLogAppended{Entry: entry}, event.EventRunLogAppended)
	}
	if r.Callback != nil {
		r.Callback(entry)
	}
}
