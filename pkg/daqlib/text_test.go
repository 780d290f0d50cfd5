package daqlib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeASCII(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "Dev1/ai0")
	require.Equal(t, "Dev1/ai0", DecodeASCII(buf))
}

func TestDecodeASCIIEmptyBuffer(t *testing.T) {
	require.Equal(t, "", DecodeASCII(make([]byte, 256)))
	require.Equal(t, "", DecodeASCII(nil))
}

func TestDecodeASCIIStopsAtFirstNul(t *testing.T) {
	buf := []byte("Dev1\x00garbage")
	require.Equal(t, "Dev1", DecodeASCII(buf))
}

func TestDecodeASCIIMasksHighBit(t *testing.T) {
	// Uninitialized driver memory occasionally sets the high bit before
	// the terminator; the driver only ever means 7-bit text.
	require.Equal(t, "A", DecodeASCII([]byte{0xc1}))
}
