package recdb

import (
	"errors"
	"fmt"
)

// Recoverable errors: documented outcomes a caller should branch on,
// mirroring spec.md §7's "recoverable / reportable to caller" tier.
var (
	// ErrNotFound is returned by Fetch and Delete when the key is not on
	// its hash chain.
	ErrNotFound = errors.New("recdb: key not found")

	// ErrKeyExists is returned by Store with flag=Insert when the key is
	// already present.
	ErrKeyExists = errors.New("recdb: key already exists")

	// ErrNoSuchKey is returned by Store with flag=Replace when the key is
	// absent. Kept distinct from ErrNotFound so a Store caller and a
	// Fetch/Delete caller don't have to disambiguate which operation a
	// shared sentinel came from.
	ErrNoSuchKey = errors.New("recdb: no record to replace")

	// ErrRecordTooLarge is returned when the formatted index record would
	// fall outside [IdxLenMin, IdxLenMax].
	ErrRecordTooLarge = errors.New("recdb: formatted index record exceeds limits")

	// ErrValueTooSmall / ErrValueTooLarge bound the stored data length
	// (payload + newline) to [DatLenMin, DatLenMax].
	ErrValueTooSmall = errors.New("recdb: value shorter than minimum record length")
	ErrValueTooLarge = errors.New("recdb: value exceeds maximum record length")

	// ErrInvalidKey is returned when a key or value contains ':' or '\n',
	// which would otherwise corrupt the on-disk record framing. spec.md
	// §7 calls this "caller error, undefined behavior tolerated"; this
	// implementation chooses to detect and reject it instead (see
	// DESIGN.md, Deviations from the teacher).
	ErrInvalidKey = errors.New("recdb: key or value contains ':' or newline")
)

// CorruptionError reports a fatal structural integrity violation found
// while reading the index or data file: a missing separator, a record not
// terminated by newline, a pointer or length out of range. spec.md §7
// treats these as unrecoverable — they indicate filesystem corruption or
// a programming error upstream and the caller should stop using the
// handle. recdb returns them rather than calling os.Exit itself. cmd/recctl
// prints any error an operation returns, a CorruptionError included, and
// exits with status 1; cmd/recshell prints the error and keeps reading
// commands, and its scan command stops at the first error without
// printing it.
type CorruptionError struct {
	Offset int64
	Detail string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("recdb: corrupt record at offset %d: %s", e.Offset, e.Detail)
}

func corruptf(offset int64, format string, args ...any) error {
	return &CorruptionError{Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
