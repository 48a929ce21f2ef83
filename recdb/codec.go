package recdb

import (
	"fmt"
	"strconv"
	"strings"
)

// encodePtr formats a file offset as exactly ptrSize decimal characters,
// space-left-padded. It fails for negative values or values that don't
// fit in ptrSize digits.
func encodePtr(v int64) (string, error) {
	if v < 0 || v > ptrMax {
		return "", fmt.Errorf("recdb: pointer %d out of range [0, %d]", v, ptrMax)
	}
	return fmt.Sprintf("%*d", ptrSize, v), nil
}

// decodePtr parses a ptrSize-byte field written by encodePtr. Leading
// whitespace is tolerated; the field need not be exactly ptrSize bytes,
// since readers sometimes hand it a slice that was read directly off
// disk.
func decodePtr(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// encodeLen formats an index-record payload length as exactly
// idxLenSize decimal characters, space-left-padded.
func encodeLen(v int64) (string, error) {
	if v < 0 || v >= pow10(idxLenSize) {
		return "", fmt.Errorf("recdb: length %d does not fit in %d digits", v, idxLenSize)
	}
	return fmt.Sprintf("%*d", idxLenSize, v), nil
}

func decodeLen(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func pow10(n int) int64 {
	r := int64(1)
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}
