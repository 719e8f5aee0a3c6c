package event_subscriber

// SubscriberInterface maps event names to handlers. Handlers must not block the run.
type SubscriberInterface interface {
	GetSubscribedEvents() map[string]func(interface{})
}
