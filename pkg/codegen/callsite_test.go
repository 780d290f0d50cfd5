package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/daqgen/pkg/metadata"
	"github.com/chazu/daqgen/pkg/model"
)

// interpretFunc runs one raw entry through the full ingestion path so the
// decision tests exercise the same normalization production catalogs get.
func interpretFunc(t *testing.T, cname string, raw metadata.Function) *model.Function {
	t.Helper()
	funcs, err := model.Interpret(&metadata.Catalog{Functions: map[string]metadata.Function{cname: raw}})
	require.NoError(t, err)
	require.Len(t, funcs, 1)
	return funcs[0]
}

func TestCallArgsFoldsSizeFromBufferLength(t *testing.T) {
	f := interpretFunc(t, "WriteDigitalLines", metadata.Function{
		Parameters: []metadata.Parameter{
			{Name: "task", Direction: "in", Type: "TaskHandle"},
			{Name: "numSampsPerChan", Direction: "in", Type: "int32", CtypesDataType: "int32"},
			{
				Name: "writeArray", Direction: "in", Type: "const uInt8[]", CtypesDataType: "uint8", IsList: true,
				Size: &metadata.Size{Mechanism: "passed-in", Value: "numSampsPerChan"},
			},
			{Name: "sampsPerChanWritten", Direction: "out", Type: "int32", CtypesDataType: "int32"},
		},
	})
	args, err := CallArgs(f)
	require.NoError(t, err)
	// The count argument keeps its position but is computed from the
	// buffer, never passed separately by the caller.
	require.Equal(t, []string{"task", "len(write_array)", "write_array", "&samps_per_chan_written"}, args)
}

func TestCallArgsIviDanceSizeFollowsBuffer(t *testing.T) {
	f := interpretFunc(t, "GetSysTasks", metadata.Function{
		Parameters: []metadata.Parameter{
			{
				Name: "data", Direction: "out", Type: "char[]", CtypesDataType: "char", IsList: true,
				Size: &metadata.Size{Mechanism: "ivi-dance", Value: "bufferSize"},
			},
			{Name: "bufferSize", Direction: "in", Type: "uInt32"},
		},
	})
	args, err := CallArgs(f)
	require.NoError(t, err)
	// bufferSize was elided by ingestion; the discovered size takes its
	// place right after the buffer it sizes.
	require.Equal(t, []string{"data", "temp_size"}, args)
}

func TestCallArgsLiteralSizeFollowsBuffer(t *testing.T) {
	f := interpretFunc(t, "SetAnalogPowerUpStatesWithOutputType", metadata.Function{
		Parameters: []metadata.Parameter{
			{Name: "channelNames", Direction: "in", Type: "const char[]", CtypesDataType: "char"},
			{
				Name: "stateArray", Direction: "in", Type: "const float64[]", CtypesDataType: "float64", IsList: true,
				Size: &metadata.Size{Mechanism: "passed-in", Value: "8"},
			},
		},
	})
	args, err := CallArgs(f)
	require.NoError(t, err)
	require.Equal(t, []string{"channel_names", "state_array", "len(state_array)"}, args)
}

func TestCallArgsUnresolvableSizeIsFatal(t *testing.T) {
	f := interpretFunc(t, "ReadAnalogF64", metadata.Function{
		Parameters: []metadata.Parameter{
			{
				Name: "readArray", Direction: "in", Type: "const float64[]", CtypesDataType: "float64", IsList: true,
				Size: &metadata.Size{Mechanism: "passed-in", Value: "mysterySize"},
			},
		},
	})
	_, err := CallArgs(f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "names no parameter")
	require.Contains(t, err.Error(), "mysterySize")
}

func TestCallArgsFirstSupplierWins(t *testing.T) {
	f := interpretFunc(t, "WriteBinaryI16", metadata.Function{
		Parameters: []metadata.Parameter{
			{Name: "arraySize", Direction: "in", Type: "int32", CtypesDataType: "int32"},
			{
				Name: "firstArray", Direction: "in", Type: "const int16[]", CtypesDataType: "int16", IsList: true,
				Size: &metadata.Size{Mechanism: "passed-in", Value: "arraySize"},
			},
			{
				Name: "secondArray", Direction: "in", Type: "const int16[]", CtypesDataType: "int16", IsList: true,
				Size: &metadata.Size{Mechanism: "passed-in", Value: "arraySize"},
			},
		},
	})
	args, err := CallArgs(f)
	require.NoError(t, err)
	// Two buffers claim the same count slot; the first in declaration
	// order supplies it and the tie never flips between runs.
	require.Equal(t, []string{"len(first_array)", "first_array", "second_array"}, args)
}

func TestCallArgsScalarOutputByReference(t *testing.T) {
	f := interpretFunc(t, "GetTaskAttribute", metadata.Function{
		Parameters: []metadata.Parameter{
			{Name: "task", Direction: "in", Type: "TaskHandle"},
			{Name: "value", Direction: "out", Type: "float64", CtypesDataType: "float64"},
		},
	})
	args, err := CallArgs(f)
	require.NoError(t, err)
	require.Equal(t, []string{"task", "&value"}, args)
}
