package client

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/websocket"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
	"sync"
	"time"
)

type ScriptRunnerInterface interface {
	Evaluate(expression string) (model.ScriptResult, error)
	Reload() error
	IsConnected() bool
}

// DevToolsClient talks to a single browser tab over the Chrome DevTools Protocol.
// It connects lazily and reconnects on the next call after a read failure.
type DevToolsClient struct {
	Address        string
	RequestTimeout time.Duration
	Dialer         *websocket.Dialer

	connection *websocket.Conn
	pending    map[int64]chan model.SocketResponse
	lastId     int64
	connected  bool
	lock       sync.Mutex
	writeLock  sync.Mutex
}

func (d *DevToolsClient) Connect() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.connected {
		return nil
	}

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	connection, _, err := dialer.Dial(d.Address, nil)
	if err != nil {
		log.Printf("DevTools WS [%s]: %s", d.Address, err.Error())
		return fmt.Errorf("%w: %s", model.ErrNotConnected, err.Error())
	}

	d.connection = connection
	d.connected = true
	if d.pending == nil {
		d.pending = make(map[int64]chan model.SocketResponse)
	}

	go d.read(connection)

	return nil
}

func (d *DevToolsClient) IsConnected() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.connected
}

func (d *DevToolsClient) Close() {
	d.lock.Lock()
	connection := d.connection
	d.lock.Unlock()

	if connection != nil {
		d.disconnect(connection)
	}
}

func (d *DevToolsClient) read(connection *websocket.Conn) {
	for {
		_, message, err := connection.ReadMessage()
		if err != nil {
			log.Printf("DevTools WS read: %s", err.Error())
			d.disconnect(connection)
			return
		}

		var response model.SocketResponse
		if err := json.Unmarshal(message, &response); err != nil {
			continue
		}

		// events carry no id
		if response.Id == 0 {
			continue
		}

		d.lock.Lock()
		channel, ok := d.pending[response.Id]
		if ok {
			delete(d.pending, response.Id)
		}
		d.lock.Unlock()

		if ok {
			channel <- response
		}
	}
}

func (d *DevToolsClient) disconnect(connection *websocket.Conn) {
	d.lock.Lock()
	if d.connection == connection {
		d.connected = false
		d.connection = nil
		for id, channel := range d.pending {
			close(channel)
			delete(d.pending, id)
		}
	}
	d.lock.Unlock()

	_ = connection.Close()
}

func (d *DevToolsClient) forget(id int64) {
	d.lock.Lock()
	delete(d.pending, id)
	d.lock.Unlock()
}

func (d *DevToolsClient) timeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}

	return time.Second * 30
}

func (d *DevToolsClient) Call(method string, params map[string]any) (json.RawMessage, error) {
	if err := d.Connect(); err != nil {
		return nil, err
	}

	d.lock.Lock()
	if !d.connected {
		d.lock.Unlock()
		return nil, fmt.Errorf("%w: %s", model.ErrNotConnected, method)
	}
	d.lastId++
	id := d.lastId
	channel := make(chan model.SocketResponse, 1)
	d.pending[id] = channel
	connection := d.connection
	d.lock.Unlock()

	serialized, err := json.Marshal(model.SocketRequest{
		Id:     id,
		Method: method,
		Params: params,
	})
	if err != nil {
		d.forget(id)
		return nil, err
	}

	d.writeLock.Lock()
	err = connection.WriteMessage(websocket.TextMessage, serialized)
	d.writeLock.Unlock()

	if err != nil {
		d.forget(id)
		d.disconnect(connection)
		return nil, fmt.Errorf("%w: %s", model.ErrNotConnected, err.Error())
	}

	timer := time.NewTimer(d.timeout())
	defer timer.Stop()

	select {
	case response, ok := <-channel:
		if !ok {
			return nil, fmt.Errorf("%w: connection closed during %s", model.ErrNotConnected, method)
		}
		if response.Error != nil {
			return nil, fmt.Errorf("%w: [%s] %s", model.ErrPageScript, method, response.Error.GetMessage())
		}

		return response.Result, nil
	case <-timer.C:
		d.forget(id)
		return nil, fmt.Errorf("%w: %s", model.ErrTimeout, method)
	}
}

func (d *DevToolsClient) Evaluate(expression string) (model.ScriptResult, error) {
	raw, err := d.Call("Runtime.evaluate", map[string]any{
		"expression":    expression,
		"awaitPromise":  true,
		"returnByValue": true,
	})
	if err != nil {
		return model.ScriptResult{}, err
	}

	var result model.EvaluateResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.ScriptResult{}, fmt.Errorf("%w: %s", model.ErrPageScript, err.Error())
	}

	if result.ExceptionDetails != nil {
		return model.ScriptResult{}, fmt.Errorf("%w: %s", model.ErrPageScript, result.ExceptionDetails.GetMessage())
	}

	var script model.ScriptResult
	if len(result.Result.Value) == 0 {
		return model.ScriptResult{}, fmt.Errorf("%w: script returned %s", model.ErrPageScript, result.Result.Type)
	}
	if err := json.Unmarshal(result.Result.Value, &script); err != nil {
		return model.ScriptResult{}, fmt.Errorf("%w: %s", model.ErrPageScript, err.Error())
	}

	return script, nil
}

func (d *DevToolsClient) Reload() error {
	_, err := d.Call("Page.reload", map[string]any{
		"ignoreCache": false,
	})

	return err
}
