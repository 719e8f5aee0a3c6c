package event_subscriber

import (
	"gitlab.com/open-soft/go-alpha-bot/src/event"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"log"
)

type CycleStatSubscriber struct {
	CycleStatRepository repository.CycleStatStorageInterface
}

func (c CycleStatSubscriber) GetSubscribedEvents() map[string]func(interface{}) {
	return map[string]func(interface{}){
		event.EventCycleCompleted: c.OnCycleCompleted,
	}
}

func (c CycleStatSubscriber) OnCycleCompleted(eventModel interface{}) {
	e, ok := eventModel.(event.CycleCompleted)
	if !ok {
		return
	}

	if err := c.CycleStatRepository.WriteCycleStat(e.Stat); err != nil {
		log.Printf("[%s] Cycle stat is not saved: %s", e.Stat.Symbol, err.Error())
	}
}
