package daqlib

import (
	"fmt"
	"math"
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestInvokeVariadicTagMismatch(t *testing.T) {
	_, err := InvokeVariadic(nil, []interface{}{"Dev1", 3.3}, []TypeTag{TagStr})
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 arguments but 1 type tags")
}

func TestFlattenScalars(t *testing.T) {
	cases := []struct {
		arg  interface{}
		want uintptr
	}{
		{nil, 0},
		{TaskHandle(7), 7},
		{true, 1},
		{false, 0},
		{int32(-1), ^uintptr(0)},
		{uint32(42), 42},
		{int(1000), 1000},
		{float64(1.5), uintptr(math.Float64bits(1.5))},
		{float32(2.5), uintptr(math.Float32bits(2.5))},
	}
	for _, c := range cases {
		got, keep, err := flatten(c.arg)
		require.NoError(t, err, "arg %v", c.arg)
		require.Equal(t, c.want, got, "arg %v", c.arg)
		require.Nil(t, keep, "arg %v", c.arg)
	}
}

func TestFlattenSlices(t *testing.T) {
	data := []float64{1, 2, 3}
	addr, _, err := flatten(data)
	require.NoError(t, err)
	require.Equal(t, uintptr(unsafe.Pointer(&data[0])), addr)

	// Empty buffers flatten to a null pointer; the zero-capacity probe of
	// the size-discovery protocol depends on it.
	addr, _, err = flatten([]float64{})
	require.NoError(t, err)
	require.Zero(t, addr)

	addr, _, err = flatten([]byte(nil))
	require.NoError(t, err)
	require.Zero(t, addr)
}

func TestFlattenPointers(t *testing.T) {
	var handle TaskHandle
	addr, _, err := flatten(&handle)
	require.NoError(t, err)
	require.Equal(t, uintptr(unsafe.Pointer(&handle)), addr)

	var written int32
	addr, _, err = flatten(&written)
	require.NoError(t, err)
	require.Equal(t, uintptr(unsafe.Pointer(&written)), addr)
}

func TestFlattenStringIsNulTerminated(t *testing.T) {
	addr, keep, err := flatten("Dev1")
	require.NoError(t, err)
	require.NotZero(t, addr)

	// The word points into the returned copy, not at the argument.
	buf, ok := keep.([]byte)
	require.True(t, ok)
	require.Equal(t, uintptr(unsafe.Pointer(&buf[0])), addr)
	require.Equal(t, []byte{'D', 'e', 'v', '1', 0}, buf)
}

// The only reference to a flattened string's buffer is the returned keep
// value; holding the keeps (as Invoke does across proc.Call) must preserve
// every buffer's contents through collection and allocation pressure.
func TestFlattenedStringsSurviveCollection(t *testing.T) {
	const count = 2000
	addrs := make([]uintptr, count)
	wants := make([]string, count)
	keeps := make([]interface{}, count)

	for i := 0; i < count; i++ {
		wants[i] = fmt.Sprintf("Dev%04d/ai0123456789012345678901234567890123456789012345678", i)
		addr, keep, err := flatten(wants[i])
		require.NoError(t, err)
		addrs[i] = addr
		keeps[i] = keep
	}

	runtime.GC()
	for i := 0; i < count; i++ {
		_ = fmt.Sprintf("churn%060d", i)
	}
	runtime.GC()

	for i := 0; i < count; i++ {
		raw := unsafe.Slice((*byte)(unsafe.Pointer(addrs[i])), len(wants[i])+1)
		require.Equal(t, wants[i], string(raw[:len(wants[i])]), "buffer %d", i)
		require.Zero(t, raw[len(wants[i])], "buffer %d terminator", i)
	}
	runtime.KeepAlive(keeps)
}

func TestFlattenRejectsUnsupportedType(t *testing.T) {
	_, _, err := flatten(struct{ a int }{1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported argument type")
}

func TestInvokeVariadicFlattenErrorNamesArgument(t *testing.T) {
	_, err := InvokeVariadic(nil, []interface{}{struct{}{}}, []TypeTag{TagPtr})
	require.Error(t, err)
	require.Contains(t, err.Error(), "argument 0")
}
