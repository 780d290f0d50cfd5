// Package daqlib is the runtime layer generated interpreters link
// against. It loads the driver shared library, converts status codes to
// errors, and marshals arguments through the foreign call boundary.
package daqlib

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jamesits/goinvoke"
)

// TaskHandle is the driver's opaque task reference.
type TaskHandle uintptr

// ErrNoEventSubsystem indicates an event registration call was made
// without a callback subsystem attached.
var ErrNoEventSubsystem = errors.New("no event subsystem attached")

// EventRegistry receives event-registration calls that the generated
// interpreter recognizes but does not marshal itself.
type EventRegistry interface {
	Register(name string, args ...interface{}) error
}

// errorProcs resolves the entry point the runtime uses to expand failing
// status codes. It is deliberately absent from generated call sites.
type errorProcs struct {
	GetExtendedErrorInfo *goinvoke.Proc `func:"DAQmxGetExtendedErrorInfo"`
}

// Library wraps one loaded driver shared library.
type Library struct {
	path   string
	errs   *errorProcs
	mu     sync.Mutex
	events EventRegistry
}

// Open loads the shared library at path and resolves the entry points
// declared by the procs struct's func tags.
func Open(path string, procs interface{}) (*Library, error) {
	if err := goinvoke.Unmarshal(path, procs); err != nil {
		return nil, fmt.Errorf("loading driver library %s: %w", path, err)
	}
	errs := &errorProcs{}
	if err := goinvoke.Unmarshal(path, errs); err != nil {
		// Older driver builds lack the extended info call; status codes
		// still convert to errors without the descriptive text.
		errs = nil
	}
	return &Library{path: path, errs: errs}, nil
}

// Path returns the loaded library path.
func (l *Library) Path() string {
	return l.path
}

// SetEvents attaches the callback subsystem that event-registration
// entry points delegate to.
func (l *Library) SetEvents(events EventRegistry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = events
}

// Events returns the attached callback subsystem, or a stub that rejects
// registration when none is attached.
func (l *Library) Events() EventRegistry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.events == nil {
		return noEvents{}
	}
	return l.events
}

type noEvents struct{}

func (noEvents) Register(name string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", name, ErrNoEventSubsystem)
}

// Error is a failing driver status with its expanded description.
type Error struct {
	Status  int32
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("driver error %d", e.Status)
	}
	return fmt.Sprintf("driver error %d: %s", e.Status, e.Message)
}

// Check converts a driver status code to an error. Negative is failure,
// positive is a warning the call still completed under, zero is success.
func (l *Library) Check(status int32) error {
	if status >= 0 {
		return nil
	}
	return &Error{Status: status, Message: l.extendedErrorInfo()}
}

// extendedErrorInfo fetches the driver's description of the most recent
// failure on this thread.
func (l *Library) extendedErrorInfo() string {
	if l.errs == nil || l.errs.GetExtendedErrorInfo == nil {
		return ""
	}
	buf := make([]byte, 2048)
	if _, err := Invoke(l.errs.GetExtendedErrorInfo, buf, len(buf)); err != nil {
		return ""
	}
	return DecodeASCII(buf)
}
