package service

import (
	"sync"
)

// StopHandle is the cancellation flag of a single run. The first request wins and is terminal.
type StopHandle struct {
	once   sync.Once
	lock   sync.RWMutex
	done   chan struct{}
	reason string
	err    error
}

func NewStopHandle() *StopHandle {
	return &StopHandle{
		done: make(chan struct{}),
	}
}

func (s *StopHandle) RequestStop(reason string, err error) {
	s.once.Do(func() {
		s.lock.Lock()
		s.reason = reason
		s.err = err
		s.lock.Unlock()
		close(s.done)
	})
}

func (s *StopHandle) IsStopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *StopHandle) Done() <-chan struct{} {
	return s.done
}

func (s *StopHandle) Reason() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.reason
}

func (s *StopHandle) Err() error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.err
}
