package service

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-alpha-bot/src/event"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"sync"
	"testing"
)

func TestStopHandleFirstRequestWins(t *testing.T) {
	assertion := assert.New(t)
	stop := NewStopHandle()
	assertion.False(stop.IsStopped())

	authErr := errors.New("auth")
	var wg sync.WaitGroup
	stop.RequestStop("auth challenge without secret", authErr)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop.RequestStop("stopped by user", nil)
		}()
	}
	wg.Wait()

	assertion.True(stop.IsStopped())
	assertion.Equal("auth challenge without secret", stop.Reason())
	assertion.ErrorIs(stop.Err(), authErr)

	select {
	case <-stop.Done():
	default:
		t.Fatal("done channel must be closed")
	}
}

type dispatcherSpy struct {
	events []interface{}
	names  []string
}

func (d *dispatcherSpy) Dispatch(event interface{}, eventName string) {
	d.events = append(d.events, event)
	d.names = append(d.names, eventName)
}

type fixedClock struct {
	utils.TimeHelper
}

func (f *fixedClock) GetNowUnixMilli() int64 {
	return 1718000000000
}

func TestRunLoggerDispatchesEntries(t *testing.T) {
	assertion := assert.New(t)
	dispatcher := &dispatcherSpy{}
	received := make([]string, 0)

	logger := RunLogger{
		EventDispatcher: dispatcher,
		TimeService:     &fixedClock{},
		Callback: func(entry model.LogEntry) {
			received = append(received, entry.Message)
		},
	}

	logger.Log("run-1", "buy filled", model.SeveritySuccess)

	assertion.Equal([]string{"event_run_log_appended"}, dispatcher.names)
	assertion.Equal([]string{"buy filled"}, received)
	appended, ok := dispatcher.events[0].(event.RunLogAppended)
	assertion.True(ok)
	assertion.Equal("run-1", appended.Entry.RunId)
	assertion.Equal(model.SeveritySuccess, appended.Entry.Severity)
	assertion.Equal(model.TimestampMilli(1718000000000), appended.Entry.Timestamp)
}
