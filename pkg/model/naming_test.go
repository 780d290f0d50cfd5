package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCamelToSnakeWordBoundaries(t *testing.T) {
	cases := map[string]string{
		"CreateTask":          "create_task",
		"GetSysTasks":         "get_sys_tasks",
		"SelfTestDevice":      "self_test_device",
		"CreateAIVoltageChan": "create_ai_voltage_chan",
		"WaitUntilTaskDone":   "wait_until_task_done",
	}
	for in, want := range cases {
		require.Equal(t, want, CamelToSnake(in), "input %q", in)
	}
}

// Names ending in a digit run keep the digits attached to the preceding
// token. Splitting there would rename every width-suffixed entry point in
// the catalog.
func TestCamelToSnakeTrailingDigits(t *testing.T) {
	cases := map[string]string{
		"ReadBinaryI32":   "read_binary_i32",
		"ReadBinaryI16":   "read_binary_i16",
		"WriteAnalogF64":  "write_analog_f64",
		"ReadCounterU32":  "read_counter_u32",
		"ReadF64Data":     "read_f64_data",
		"GetBufferSize64": "get_buffer_size64",
	}
	for in, want := range cases {
		require.Equal(t, want, CamelToSnake(in), "input %q", in)
	}
}

func TestCamelToSnakeDigitToLetter(t *testing.T) {
	// A digit followed by a letter starts a new token; a letter followed
	// by a digit never does.
	require.Equal(t, "get2_d_points", CamelToSnake("Get2DPoints"))
}

func TestCamelToSnakeUIntFixup(t *testing.T) {
	cases := map[string]string{
		"WriteBinaryUInt16":  "write_binary_uint16",
		"ReadCtrTicksUInt32": "read_ctr_ticks_uint32",
	}
	for in, want := range cases {
		require.Equal(t, want, CamelToSnake(in), "input %q", in)
	}
}

func TestGoName(t *testing.T) {
	cases := map[string]string{
		"read_binary_i32": "ReadBinaryI32",
		"create_task":     "CreateTask",
		"temp_size":       "TempSize",
	}
	for in, want := range cases {
		require.Equal(t, want, GoName(in), "input %q", in)
	}
}
