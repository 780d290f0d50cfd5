package daqlib

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/jamesits/goinvoke"
)

// TypeTag identifies the native type of one flattened vararg slot. The
// cdecl vararg entry points consume a flat argument array and a parallel
// tag array; both must stay the same length in the same order.
type TypeTag int

const (
	TagU8 TypeTag = iota
	TagI16
	TagU16
	TagI32
	TagU32
	TagI64
	TagU64
	TagF32
	TagF64
	TagStr
	TagPtr
)

// Invoke calls a resolved driver entry point with Go arguments flattened
// to the foreign calling convention and returns the driver status.
func Invoke(proc *goinvoke.Proc, args ...interface{}) (int32, error) {
	raw := make([]uintptr, 0, len(args))
	var copies []interface{}
	for i, arg := range args {
		v, keep, err := flatten(arg)
		if err != nil {
			return 0, fmt.Errorf("argument %d: %w", i, err)
		}
		if keep != nil {
			copies = append(copies, keep)
		}
		raw = append(raw, v)
	}
	r1, _, _ := proc.Call(raw...)
	// The argument list roots the caller's values; copies roots the
	// NUL-terminated buffers flatten allocated, which nothing else
	// references once only their addresses survive in raw.
	runtime.KeepAlive(args)
	runtime.KeepAlive(copies)
	return int32(r1), nil
}

// InvokeVariadic calls a cdecl variable-argument entry point. The tag
// list must match the argument list element for element.
func InvokeVariadic(proc *goinvoke.Proc, args []interface{}, tags []TypeTag) (int32, error) {
	if len(args) != len(tags) {
		return 0, fmt.Errorf("vararg call: %d arguments but %d type tags", len(args), len(tags))
	}
	return Invoke(proc, args...)
}

// flatten converts one Go argument to the word the foreign boundary
// expects: scalars by value, buffers and strings by address, handles
// verbatim. When the word points into a buffer flatten allocated rather
// than into the argument itself, that buffer comes back as keep; the
// caller must hold it reachable until the foreign call returns.
func flatten(arg interface{}) (word uintptr, keep interface{}, err error) {
	switch v := arg.(type) {
	case nil:
		return 0, nil, nil
	case TaskHandle:
		return uintptr(v), nil, nil
	case *TaskHandle:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case bool:
		if v {
			return 1, nil, nil
		}
		return 0, nil, nil
	case int:
		return uintptr(v), nil, nil
	case int16:
		return uintptr(v), nil, nil
	case uint16:
		return uintptr(v), nil, nil
	case int32:
		return uintptr(v), nil, nil
	case uint32:
		return uintptr(v), nil, nil
	case int64:
		return uintptr(v), nil, nil
	case uint64:
		return uintptr(v), nil, nil
	case uintptr:
		return v, nil, nil
	case float32:
		return uintptr(math.Float32bits(v)), nil, nil
	case float64:
		return uintptr(math.Float64bits(v)), nil, nil
	case string:
		buf := cstring(v)
		return uintptr(unsafe.Pointer(&buf[0])), buf, nil
	case []byte:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []int16:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []uint16:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []int32:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []uint32:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []int64:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []uint64:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []float32:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case []float64:
		return sliceAddr(len(v), unsafe.Pointer(unsafe.SliceData(v))), nil, nil
	case *uint8:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *int16:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *uint16:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *int32:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *uint32:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *int64:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *uint64:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *float32:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case *float64:
		return uintptr(unsafe.Pointer(v)), nil, nil
	case unsafe.Pointer:
		return uintptr(v), nil, nil
	default:
		return 0, nil, fmt.Errorf("unsupported argument type %T", arg)
	}
}

func sliceAddr(n int, p unsafe.Pointer) uintptr {
	if n == 0 {
		return 0
	}
	return uintptr(p)
}

// cstring returns a NUL-terminated copy of s.
func cstring(s string) []byte {
	return append([]byte(s), 0)
}
