package exchange

import (
	"context"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/validator"
	"log"
	"sync"
)

type CycleControllerInterface interface {
	Run(ctx context.Context, config model.RunConfig, stop *service.StopHandle) (model.RunState, error)
	State() model.RunState
}

type RunnerInterface interface {
	StartRun(config model.RunConfig) error
	RequestStop()
	IsRunning() bool
	State() model.RunState
}

// Runner allows one run at a time and owns its stop handle.
type Runner struct {
	Controller CycleControllerInterface
	Validator  validator.RunConfigValidatorInterface
	Ctx        context.Context

	stop    *service.StopHandle
	done    chan struct{}
	running bool
	lastErr error
	lock    sync.Mutex
}

// StartRun validates config and runs it in the background.
func (r *Runner) StartRun(config model.RunConfig) error {
	if r.Validator != nil {
		if err := r.Validator.Validate(config); err != nil {
			return err
		}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.running {
		return model.ErrRunInProgress
	}

	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	stop := service.NewStopHandle()
	done := make(chan struct{})
	r.stop = stop
	r.done = done
	r.running = true
	r.lastErr = nil

	go func() {
		defer close(done)

		state, err := r.Controller.Run(ctx, config, stop)
		if err != nil {
			log.Printf("[%s] Run finished with error: %s", state.RunId, err.Error())
		} else {
			log.Printf("[%s] Run finished: %s", state.RunId, state.StopReason)
		}

		r.lock.Lock()
		r.running = false
		r.lastErr = err
		r.lock.Unlock()
	}()

	return nil
}

func (r *Runner) RequestStop() {
	r.lock.Lock()
	stop := r.stop
	r.lock.Unlock()

	if stop != nil {
		stop.RequestStop("stopped by user", model.ErrStopRequested)
	}
}

func (r *Runner) IsRunning() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.running
}

// Done is closed when the current run returns. It is nil before the first run.
func (r *Runner) Done() <-chan struct{} {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.done
}

func (r *Runner) LastError() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.lastErr
}

func (r *Runner) State() model.RunState {
	return r.Controller.State()
}
