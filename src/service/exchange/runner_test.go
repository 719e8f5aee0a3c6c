package exchange

import (
	"context"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/validator"
	"sync"
	"testing"
	"time"
)

// blockingController runs until the stop handle is triggered.
type blockingController struct {
	started chan struct{}
	runs    int
	lock    sync.Mutex
}

func (b *blockingController) Run(ctx context.Context, config model.RunConfig, stop *service.StopHandle) (model.RunState, error) {
	b.lock.Lock()
	b.runs++
	b.lock.Unlock()

	b.started <- struct{}{}
	<-stop.Done()

	return model.RunState{RunId: "run", StopReason: stop.Reason()}, stop.Err()
}

func (b *blockingController) State() model.RunState {
	return model.RunState{RunId: "run"}
}

func validRunConfig() model.RunConfig {
	config := model.DefaultRunConfig()
	config.Amount = decimal.NewFromInt(50)

	return config
}

func TestRunnerAllowsOneRunAtATime(t *testing.T) {
	assertion := assert.New(t)

	controller := &blockingController{started: make(chan struct{}, 2)}
	runner := Runner{Controller: controller}

	assertion.Nil(runner.StartRun(validRunConfig()))
	<-controller.started
	assertion.True(runner.IsRunning())

	assertion.ErrorIs(runner.StartRun(validRunConfig()), model.ErrRunInProgress)

	runner.RequestStop()
	select {
	case <-runner.Done():
	case <-time.After(time.Second):
		t.Fatal("run did not finish after stop")
	}

	assertion.False(runner.IsRunning())
	assertion.ErrorIs(runner.LastError(), model.ErrStopRequested)

	assertion.Nil(runner.StartRun(validRunConfig()))
	<-controller.started
	runner.RequestStop()
	<-runner.Done()

	assertion.Equal(2, controller.runs)
}

func TestRunnerRejectsInvalidConfig(t *testing.T) {
	assertion := assert.New(t)

	controller := &blockingController{started: make(chan struct{}, 1)}
	runner := Runner{
		Controller: controller,
		Validator:  &validator.RunConfigValidator{StabilityOptionsValidator: &validator.StabilityOptionsValidator{}},
	}

	config := validRunConfig()
	config.Timeout = 0

	assertion.Error(runner.StartRun(config))
	assertion.False(runner.IsRunning())
	assertion.Nil(runner.Done())
}

func TestRunnerStopWithoutRun(t *testing.T) {
	runner := Runner{Controller: &blockingController{}}
	runner.RequestStop()

	assert.False(t, runner.IsRunning())
}
