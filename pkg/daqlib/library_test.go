package daqlib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckStatus(t *testing.T) {
	lib := &Library{}

	require.NoError(t, lib.Check(0))
	// Positive status is a warning; the call still completed.
	require.NoError(t, lib.Check(50103))

	err := lib.Check(-200088)
	require.Error(t, err)

	var drvErr *Error
	require.True(t, errors.As(err, &drvErr))
	require.Equal(t, int32(-200088), drvErr.Status)
	require.Equal(t, "driver error -200088", drvErr.Error())
}

func TestErrorMessageFormatting(t *testing.T) {
	err := &Error{Status: -200088, Message: "Task specified is invalid or does not exist."}
	require.Equal(t, "driver error -200088: Task specified is invalid or does not exist.", err.Error())
}

type recordingRegistry struct {
	name string
	args []interface{}
}

func (r *recordingRegistry) Register(name string, args ...interface{}) error {
	r.name = name
	r.args = args
	return nil
}

func TestEventsDefaultRejectsRegistration(t *testing.T) {
	lib := &Library{}
	err := lib.Events().Register("RegisterDoneEvent")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoEventSubsystem)
	require.Contains(t, err.Error(), "RegisterDoneEvent")
}

func TestSetEventsAttachesRegistry(t *testing.T) {
	lib := &Library{}
	reg := &recordingRegistry{}
	lib.SetEvents(reg)

	require.NoError(t, lib.Events().Register("RegisterDoneEvent", TaskHandle(1), uint32(0)))
	require.Equal(t, "RegisterDoneEvent", reg.name)
	require.Len(t, reg.args, 2)
}
