package model

import (
	"encoding/json"
)

// SocketRequest is a Chrome DevTools Protocol command.
type SocketRequest struct {
	Id     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *Error) GetMessage() string {
	if len(e.Data) > 0 {
		return e.Message + ": " + e.Data
	}

	return e.Message
}

// SocketResponse is either a command reply (Id > 0) or an event (Method set).
type SocketResponse struct {
	Id     int64           `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

type RemoteObject struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
}

type ExceptionDetails struct {
	Text      string        `json:"text"`
	Exception *RemoteObject `json:"exception"`
}

func (e *ExceptionDetails) GetMessage() string {
	if e.Exception != nil && len(e.Exception.Description) > 0 {
		return e.Exception.Description
	}

	return e.Text
}

type EvaluateResult struct {
	Result           RemoteObject      `json:"result"`
	ExceptionDetails *ExceptionDetails `json:"exceptionDetails"`
}

// ScriptResult is the envelope every page script resolves with.
type ScriptResult struct {
	Error string          `json:"error"`
	Val   json.RawMessage `json:"val"`
}

func (s ScriptResult) HasError() bool {
	return len(s.Error) > 0
}

func (s ScriptResult) Bool() bool {
	var value bool
	_ = json.Unmarshal(s.Val, &value)

	return value
}

func (s ScriptResult) String() string {
	var value string
	if err := json.Unmarshal(s.Val, &value); err == nil {
		return value
	}

	var number json.Number
	if err := json.Unmarshal(s.Val, &number); err == nil {
		return number.String()
	}

	return ""
}
