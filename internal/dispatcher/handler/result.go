package handler

import (
	"fmt"
	"maps"
)

// ResultStatus is the outcome class of a handled action.
type ResultStatus uint8

// Outcomes. StatusNoOp means the action ran and changed nothing.
const (
	StatusOK ResultStatus = iota
	StatusNoOp
	StatusError
	StatusCancelled
)

var statusNames = [...]string{"ok", "no-op", "error", "cancelled"}

func (s ResultStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ViewUpdate is what the view should do after the action.
type ViewUpdate struct {
	Redraw    bool
	RevealRow *int // row to scroll into view, if any
}

// Result is what a handler reports. Results are values; the With methods
// return modified copies.
type Result struct {
	Status     ResultStatus
	Error      error
	Message    string // shown on the status line
	ViewUpdate ViewUpdate
	Data       map[string]any
}

// Success reports a completed action.
func Success() Result { return Result{Status: StatusOK} }

// SuccessWithData reports a completed action carrying one data value.
func SuccessWithData(key string, value any) Result {
	return Success().WithData(key, value)
}

// NoOp reports an action that had nothing to do.
func NoOp() Result { return Result{Status: StatusNoOp} }

// NoOpWithMessage is NoOp with a status message.
func NoOpWithMessage(msg string) Result { return NoOp().WithMessage(msg) }

// Error reports a failed action.
func Error(err error) Result { return Result{Status: StatusError, Error: err} }

// Errorf reports a failed action with a formatted error.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

// CancelledWithMessage reports an action that was stopped before it ran.
func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

func (r Result) IsOK() bool    { return r.Status == StatusOK }
func (r Result) IsError() bool { return r.Status == StatusError }

func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

func (r Result) WithRedraw() Result {
	r.ViewUpdate.Redraw = true
	return r
}

// WithReveal asks the view to scroll row into sight.
func (r Result) WithReveal(row int) Result {
	r.ViewUpdate.RevealRow = &row
	return r
}

// WithData adds a data value without touching the receiver's map.
func (r Result) WithData(key string, value any) Result {
	data := maps.Clone(r.Data)
	if data == nil {
		data = make(map[string]any, 1)
	}
	data[key] = value
	r.Data = data
	return r
}

// GetData looks up a data value.
func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

// GetDataBool returns a bool data value, or false when it is missing or
// not a bool.
func (r Result) GetDataBool(key string) bool {
	b, _ := r.Data[key].(bool)
	return b
}
