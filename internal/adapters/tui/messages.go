package tui

import "time"

// MsgInitSteps seeds the model with the planned step names in order.
type MsgInitSteps struct {
	Steps []string
}

// MsgStepStart is sent when a step begins execution.
type MsgStepStart struct {
	Name      string
	StartTime time.Time
}

// MsgStepLog carries raw output bytes from a running step.
type MsgStepLog struct {
	Name string
	Data []byte
}

// MsgStepComplete is sent when a step finishes execution.
type MsgStepComplete struct {
	Name    string
	EndTime time.Time
	Err     error
}
