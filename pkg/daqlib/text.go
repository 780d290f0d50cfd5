package daqlib

import "bytes"

// DecodeASCII converts a NUL-terminated driver text buffer to a string.
// The driver emits 7-bit text; anything past the first NUL is uninitialized
// buffer space.
func DecodeASCII(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = b & 0x7f
	}
	return string(out)
}
