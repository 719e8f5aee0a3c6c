package event_subscriber

import (
	"gitlab.com/open-soft/go-alpha-bot/src/event"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"log"
)

type RunLogSubscriber struct {
	LogRepository repository.LogStorageInterface
}

func (r RunLogSubscriber) GetSubscribedEvents() map[string]func(interface{}) {
	return map[string]func(interface{}){
		event.EventRunLogAppended: r.OnRunLogAppended,
	}
}

func (r RunLogSubscriber) OnRunLogAppended(eventModel interface{}) {
	e, ok := eventModel.(event.RunLogAppended)
	if !ok {
		return
	}

	if err := r.LogRepository.Append(e.Entry); err != nil {
		log.Printf("[%s] Run log is not saved: %s", e.Entry.RunId, err.Error())
	}
}
