package model

type Severity string

const SeverityInfo Severity = "info"
const SeveritySuccess Severity = "success"
const SeverityError Severity = "error"

type LogEntry struct {
	RunId     string         `json:"runId"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	Timestamp TimestampMilli `json:"timestamp"`
}

type AuthStep string

const AuthStepNone AuthStep = "none"
const AuthStepPasskey AuthStep = "passkey"
const AuthStepMethodSelection AuthStep = "method_selection"
const AuthStepCodeEntry AuthStep = "code_entry"
const AuthStepUnknown AuthStep = "unknown"
