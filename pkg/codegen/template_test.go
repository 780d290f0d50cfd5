package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/daqgen/pkg/metadata"
)

func TestSelectTemplateDefault(t *testing.T) {
	f := interpretFunc(t, "StartTask", metadata.Function{
		Parameters: []metadata.Parameter{
			{Name: "task", Direction: "in", Type: "TaskHandle"},
		},
	})
	template, err := SelectTemplate(f)
	require.NoError(t, err)
	require.Equal(t, TemplateDefault, template)
}

func TestSelectTemplateTwoPass(t *testing.T) {
	f := interpretFunc(t, "GetSysTasks", metadata.Function{
		Parameters: []metadata.Parameter{
			{
				Name: "data", Direction: "out", Type: "char[]", CtypesDataType: "char", IsList: true,
				Size: &metadata.Size{Mechanism: "ivi-dance", Value: "bufferSize"},
			},
			{Name: "bufferSize", Direction: "in", Type: "uInt32"},
		},
	})
	template, err := SelectTemplate(f)
	require.NoError(t, err)
	require.Equal(t, TemplateTwoPass, template)
}

// A repeating parameter outranks an ivi-dance size on the same function.
func TestSelectTemplateVarargBeatsTwoPass(t *testing.T) {
	f := interpretFunc(t, "GetAnalogPowerUpStates", metadata.Function{
		Parameters: []metadata.Parameter{
			{
				Name: "data", Direction: "out", Type: "char[]", CtypesDataType: "char", IsList: true,
				Size: &metadata.Size{Mechanism: "ivi-dance", Value: "bufferSize"},
			},
			{Name: "bufferSize", Direction: "in", Type: "uInt32"},
			{Name: "channelNames", Direction: "in", CtypesDataType: "char", RepeatingArgument: true},
		},
	})
	template, err := SelectTemplate(f)
	require.NoError(t, err)
	require.Equal(t, TemplateVararg, template)
}

func TestSelectTemplateEvent(t *testing.T) {
	f := interpretFunc(t, "RegisterEveryNSamplesEvent", metadata.Function{
		StreamResponse: true,
		Parameters: []metadata.Parameter{
			{Name: "task", Direction: "in", Type: "TaskHandle"},
		},
	})
	template, err := SelectTemplate(f)
	require.NoError(t, err)
	require.Equal(t, TemplateEvent, template)
}

func TestSelectTemplateEventWithVarargsRejected(t *testing.T) {
	f := interpretFunc(t, "RegisterSignalEvent", metadata.Function{
		StreamResponse: true,
		Parameters: []metadata.Parameter{
			{Name: "task", Direction: "in", Type: "TaskHandle"},
			{Name: "signalNames", Direction: "in", CtypesDataType: "char", RepeatingArgument: true},
		},
	})
	_, err := SelectTemplate(f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "register_signal_event")
}

func TestSelectTemplateTwoIviDancesRejected(t *testing.T) {
	f := interpretFunc(t, "GetDeviceAttribute", metadata.Function{
		Parameters: []metadata.Parameter{
			{
				Name: "value", Direction: "out", Type: "char[]", CtypesDataType: "char", IsList: true,
				Size: &metadata.Size{Mechanism: "ivi-dance", Value: "bufferSize"},
			},
			{Name: "bufferSize", Direction: "in", Type: "uInt32"},
			{
				Name: "units", Direction: "out", Type: "char[]", CtypesDataType: "char", IsList: true,
				Size: &metadata.Size{Mechanism: "ivi-dance", Value: "unitsSize"},
			},
			{Name: "unitsSize", Direction: "in", Type: "uInt32"},
		},
	})
	_, err := SelectTemplate(f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "more than one ivi-dance")
}
