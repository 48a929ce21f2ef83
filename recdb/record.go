package recdb

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kvfile/recdb/internal/reclock"
)

// indexRecord is what readIdx decodes: the record's own offset/length
// plus its three logical fields (next-pointer, key, data location).
type indexRecord struct {
	idxoff int64
	idxlen int64
	next   int64
	key    string
	datoff int64
	datlen int64
}

// readPtr reads a single 7-byte chain pointer field at off. Callers hold
// whatever lock covers off; readPtr itself never locks (spec.md §4.2).
func (h *Handle) readPtr(off int64) (int64, error) {
	var buf [ptrSize]byte
	if _, err := h.idxFile.ReadAt(buf[:], off); err != nil {
		return 0, err
	}
	v, err := decodePtr(string(buf[:]))
	if err != nil {
		return 0, corruptf(off, "unparsable pointer field %q: %v", buf[:], err)
	}
	return v, nil
}

// writePtr writes a single 7-byte chain pointer field at off.
func (h *Handle) writePtr(off int64, val int64) error {
	enc, err := encodePtr(val)
	if err != nil {
		return err
	}
	_, err = h.idxFile.WriteAt([]byte(enc), off)
	return err
}

// readIdx decodes the index record physically located at off: the
// 7-byte next-pointer, the 4-byte payload length, then exactly that many
// payload bytes, verifying and stripping the trailing newline and
// splitting "<key>:<datoff>:<datlen>" on exactly two separators.
//
// eof is true when off is at or past the end of the index file (used by
// sequential scan to know when to stop). A non-zero chain or free-list
// pointer never points past EOF unless the database is corrupt, so the
// callers that follow such pointers turn eof into a *CorruptionError.
func (h *Handle) readIdx(off int64) (rec indexRecord, eof bool, err error) {
	var header [ptrSize + idxLenSize]byte
	n, err := h.idxFile.ReadAt(header[:], off)
	if err != nil {
		if err == io.EOF && n == 0 {
			return indexRecord{}, true, nil
		}
		if err == io.EOF {
			return indexRecord{}, false, corruptf(off, "truncated record header (%d of %d bytes)", n, len(header))
		}
		return indexRecord{}, false, err
	}

	next, perr := decodePtr(string(header[:ptrSize]))
	if perr != nil {
		return indexRecord{}, false, corruptf(off, "unparsable next-pointer %q: %v", header[:ptrSize], perr)
	}
	idxlen, lerr := decodeLen(string(header[ptrSize:]))
	if lerr != nil {
		return indexRecord{}, false, corruptf(off, "unparsable record length %q: %v", header[ptrSize:], lerr)
	}
	if idxlen < IdxLenMin || idxlen > IdxLenMax {
		return indexRecord{}, false, corruptf(off, "record length %d outside [%d, %d]", idxlen, IdxLenMin, IdxLenMax)
	}

	payload := make([]byte, idxlen)
	n, err = h.idxFile.ReadAt(payload, off+ptrSize+idxLenSize)
	if err != nil || int64(n) != idxlen {
		return indexRecord{}, false, corruptf(off, "short read of %d-byte payload: got %d bytes, err=%v", idxlen, n, err)
	}
	if payload[idxlen-1] != '\n' {
		return indexRecord{}, false, corruptf(off, "record not newline-terminated")
	}
	payload = payload[:idxlen-1]

	parts := strings.Split(string(payload), sepStr)
	if len(parts) != 3 {
		return indexRecord{}, false, corruptf(off, "expected key:datoff:datlen, got %d fields", len(parts))
	}

	datoff, derr := decodePtr(parts[1])
	if derr != nil || datoff < 0 {
		return indexRecord{}, false, corruptf(off, "invalid data offset %q", parts[1])
	}
	datlen, derr := decodeLen(parts[2])
	if derr != nil || datlen <= 0 || datlen > DatLenMax {
		return indexRecord{}, false, corruptf(off, "invalid data length %q", parts[2])
	}

	return indexRecord{
		idxoff: off,
		idxlen: idxlen,
		next:   next,
		key:    parts[0],
		datoff: datoff,
		datlen: datlen,
	}, false, nil
}

// readDat reads the datlen-byte data record at datoff and strips its
// trailing newline.
func (h *Handle) readDat(datoff, datlen int64) (string, error) {
	buf := make([]byte, datlen)
	n, err := h.datFile.ReadAt(buf, datoff)
	if err != nil || int64(n) != datlen {
		return "", corruptf(datoff, "short read of %d-byte data record: got %d bytes, err=%v", datlen, n, err)
	}
	if buf[datlen-1] != '\n' {
		return "", corruptf(datoff, "data record not newline-terminated")
	}
	return string(buf[:datlen-1]), nil
}

// writeDat writes a data record. When appendMode is true it locks the
// whole data file, seeks to end-of-file under that lock, and writes
// there; the lock is released before returning so the critical section
// is exactly the append. When appendMode is false it overwrites in place
// at off; the caller already holds the chain lock that makes that safe.
func (h *Handle) writeDat(data []byte, off int64, appendMode bool) (newOff, newLen int64, err error) {
	payload := append(append([]byte{}, data...), '\n')
	newLen = int64(len(payload))

	if !appendMode {
		if _, err := h.datFile.WriteAt(payload, off); err != nil {
			return 0, 0, err
		}
		return off, newLen, nil
	}

	region := reclock.NewRegion(h.datFile.Fd(), 0, io.SeekStart, 0)
	held, err := region.WriteLock()
	if err != nil {
		return 0, 0, err
	}
	defer held.Release()

	newOff, err = h.datFile.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, err
	}
	iov := [][]byte{data, []byte("\n")}
	written, err := unix.Writev(int(h.datFile.Fd()), iov)
	if err != nil {
		return 0, 0, err
	}
	if int64(written) != newLen {
		return 0, 0, corruptf(newOff, "short write of data record: wrote %d of %d bytes", written, newLen)
	}
	return newOff, newLen, nil
}

// writeIdx writes an index record's 7+4 byte header and
// "<key>:<datoff>:<datlen>\n" payload. When appendMode is true it locks
// the append guard byte just past the hash-table header, seeks to
// end-of-file under that lock, and writes there. When appendMode is
// false it overwrites the idxoff bytes in place (caller holds the chain
// lock).
func (h *Handle) writeIdx(key string, datoff, datlen, next, off int64, appendMode bool) (idxoff int64, err error) {
	nextEnc, err := encodePtr(next)
	if err != nil {
		return 0, err
	}
	payload := key + sepStr + strconv.FormatInt(datoff, 10) + sepStr + strconv.FormatInt(datlen, 10) + "\n"
	if len(payload) < IdxLenMin || len(payload) > IdxLenMax {
		return 0, ErrRecordTooLarge
	}
	lenEnc, err := encodeLen(int64(len(payload)))
	if err != nil {
		return 0, ErrRecordTooLarge
	}
	header := nextEnc + lenEnc

	if !appendMode {
		// A positioned gather-write: there is no pwritev in the standard
		// library, so this seeks to off (not end) immediately before the
		// Writev. The file's seek position is left just past the record;
		// no reader depends on it, since every read is a ReadAt.
		if _, err := h.idxFile.Seek(off, io.SeekStart); err != nil {
			return 0, err
		}
		iov := [][]byte{[]byte(header), []byte(payload)}
		written, err := unix.Writev(int(h.idxFile.Fd()), iov)
		if err != nil {
			return 0, err
		}
		if written != len(header)+len(payload) {
			return 0, corruptf(off, "short write of index record: wrote %d of %d bytes", written, len(header)+len(payload))
		}
		return off, nil
	}

	region := reclock.NewRegion(h.idxFile.Fd(), h.appendGuardOff(), io.SeekStart, 1)
	held, err := region.WriteLock()
	if err != nil {
		return 0, err
	}
	defer held.Release()

	idxoff, err = h.idxFile.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	iov := [][]byte{[]byte(header), []byte(payload)}
	written, err := unix.Writev(int(h.idxFile.Fd()), iov)
	if err != nil {
		return 0, err
	}
	if written != len(header)+len(payload) {
		return 0, corruptf(idxoff, "short write of index record: wrote %d of %d bytes", written, len(header)+len(payload))
	}
	return idxoff, nil
}

// appendGuardOff is the single byte just past the hash-table header,
// used purely as a lock target to serialize concurrent index-file
// appends (it is never read as data).
func (h *Handle) appendGuardOff() int64 {
	return int64(h.nhash+1)*ptrSize + 1
}

