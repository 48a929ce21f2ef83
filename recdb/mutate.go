package recdb

import (
	"io"
	"strings"

	"github.com/kvfile/recdb/internal/reclock"
)

// Fetch returns the value stored for key, or ErrNotFound if it isn't
// present. It acquires a read lock on key's chain for the duration of
// the lookup (spec.md §4.6).
func (h *Handle) Fetch(key string) ([]byte, error) {
	if err := validateToken(key); err != nil {
		return nil, err
	}
	cur, held, err := h.locateAndLock(key, false)
	defer held.Release()
	if err != nil {
		h.stats.FetchErr++
		return nil, err
	}
	if !cur.found {
		h.stats.FetchErr++
		return nil, ErrNotFound
	}
	val, err := h.readDat(cur.datoff, cur.datlen)
	if err != nil {
		h.stats.FetchErr++
		return nil, err
	}
	h.stats.FetchOK++
	return []byte(val), nil
}

// Delete removes key, threading it onto the free list so a future
// same-size Store can reclaim its physical slot. Returns ErrNotFound if
// key isn't present (spec.md §4.7).
func (h *Handle) Delete(key string) error {
	if err := validateToken(key); err != nil {
		return err
	}
	cur, held, err := h.locateAndLock(key, true)
	defer held.Release()
	if err != nil {
		h.stats.DeleteErr++
		return err
	}
	if !cur.found {
		h.stats.DeleteErr++
		return ErrNotFound
	}
	if err := h.doDelete(cur); err != nil {
		h.stats.DeleteErr++
		return err
	}
	h.stats.DeleteOK++
	return nil
}

// doDelete implements spec.md §4.7 exactly: blank the key and data
// bytes in place, thread the victim onto the head of the free list
// (data write, then index rewrite, then free-list head, then chain
// splice — in that order, so a crash mid-delete always leaves the
// victim at worst double-linked rather than lost), all under the
// free-list lock, which is acquired only after the caller's chain lock
// (lock order: chain then free-list, never the reverse).
func (h *Handle) doDelete(cur cursor) error {
	region := reclock.NewRegion(h.idxFile.Fd(), freeOff, io.SeekStart, 1)
	held, err := region.WriteLock()
	if err != nil {
		return err
	}
	defer held.Release()

	spaces := strings.Repeat(" ", int(cur.datlen-1))
	blankKey := strings.Repeat(" ", len(cur.key))

	if _, _, err := h.writeDat([]byte(spaces), cur.datoff, false); err != nil {
		return err
	}

	freeptr, err := h.readPtr(freeOff)
	if err != nil {
		return err
	}
	saveptr := cur.ptrval

	if _, err := h.writeIdx(blankKey, cur.datoff, cur.datlen, freeptr, cur.idxoff, false); err != nil {
		return err
	}
	if err := h.writePtr(freeOff, cur.idxoff); err != nil {
		return err
	}
	return h.writePtr(cur.ptroff, saveptr)
}

// StoreFlag selects Store's insert/replace semantics (spec.md §4.8).
type StoreFlag int

const (
	// Insert fails with ErrKeyExists if key is already present.
	Insert StoreFlag = iota + 1
	// Replace fails with ErrNoSuchKey if key is absent.
	Replace
	// Upsert inserts or replaces unconditionally.
	Upsert
)

// Store writes key=value, per flag's insert/replace semantics. Returns
// ErrKeyExists, ErrNoSuchKey, ErrValueTooSmall/TooLarge, or
// ErrRecordTooLarge as documented on those sentinels; spec.md §4.8's
// numbered store-variant counters are incremented as indicated inline.
func (h *Handle) Store(key, value string, flag StoreFlag) error {
	if err := validateToken(key); err != nil {
		return err
	}
	if err := validateToken(value); err != nil {
		return err
	}
	datlen := int64(len(value) + 1)
	if datlen < DatLenMin {
		return ErrValueTooSmall
	}
	if datlen > DatLenMax {
		return ErrValueTooLarge
	}

	cur, held, err := h.locateAndLock(key, true)
	defer held.Release()
	if err != nil {
		return err
	}

	if !cur.found {
		if flag == Replace {
			return ErrNoSuchKey
		}
		// The chain is currently empty or cur walked it end to end
		// looking for key; either way cur.ptroff/cur.ptrval describe the
		// *last* record, not the head. Re-read the head pointer fresh —
		// that's what the new record's next-pointer must thread onto so
		// it becomes the new head (spec.md §4.8: "inserted at chain
		// head"), exactly as the teacher's store() does via a dedicated
		// readPtr(self.chainoff) rather than reusing findAndLock's walk
		// state.
		head, err := h.readPtr(cur.chainoff)
		if err != nil {
			return err
		}
		return h.insertNotFound(key, value, int64(len(key)), datlen, cur.chainoff, head)
	}

	if flag == Insert {
		return ErrKeyExists
	}
	if datlen == cur.datlen {
		h.stats.StoreReplaceInPlace++
		_, _, err := h.writeDat([]byte(value), cur.datoff, false)
		return err
	}
	h.stats.StoreReplaceRelocate++
	if err := h.doDelete(cur); err != nil {
		return err
	}
	// Re-insert by the not-found path (spec.md §4.8: "re-insert by the
	// not-found path"), reading the chain head fresh since doDelete just
	// spliced the victim out of it.
	head, err := h.readPtr(cur.chainoff)
	if err != nil {
		return err
	}
	return h.insertNotFound(key, value, int64(len(key)), datlen, cur.chainoff, head)
}

// insertNotFound implements the not-found branch of spec.md §4.8: reuse
// a same-size tombstone from the free list if one exists, otherwise
// append a new data record and a new index record, then make it
// reachable by writing the chain head last. head is the chain's current
// first-record pointer (0 if the chain is empty); the new record's
// next-pointer is set to head so it becomes the new head.
func (h *Handle) insertNotFound(key, value string, keylen, datlen, chainoff, head int64) error {
	free, err := h.findFree(keylen, datlen)
	if err != nil {
		return err
	}
	if free.found {
		h.stats.StoreReuse++
		if _, _, err := h.writeDat([]byte(value), free.datoff, false); err != nil {
			return err
		}
		idxoff, err := h.writeIdx(key, free.datoff, datlen, head, free.idxoff, false)
		if err != nil {
			return err
		}
		return h.writePtr(chainoff, idxoff)
	}

	datoff, newDatlen, err := h.writeDat([]byte(value), 0, true)
	if err != nil {
		return err
	}
	idxoff, err := h.writeIdx(key, datoff, newDatlen, head, 0, true)
	if err != nil {
		return err
	}
	h.stats.StoreAppend++
	return h.writePtr(chainoff, idxoff)
}

// findFree scans the free list under its own write lock for a tombstone
// whose key length and data length exactly match, splices it out if
// found, and reports its idxoff/datoff so the caller can overwrite it in
// place (spec.md P2: same-size reuse only, never a different size).
func (h *Handle) findFree(keylen, datlen int64) (cursor, error) {
	region := reclock.NewRegion(h.idxFile.Fd(), freeOff, io.SeekStart, 1)
	held, err := region.WriteLock()
	if err != nil {
		return cursor{}, err
	}
	defer held.Release()

	saveOffset := int64(freeOff)
	offset, err := h.readPtr(saveOffset)
	if err != nil {
		return cursor{}, err
	}

	for offset != 0 {
		rec, eof, err := h.readIdx(offset)
		if err != nil {
			return cursor{}, err
		}
		if eof {
			return cursor{}, corruptf(offset, "free-list pointer references past end of file")
		}
		if int64(len(rec.key)) == keylen && rec.datlen == datlen {
			if err := h.writePtr(saveOffset, rec.next); err != nil {
				return cursor{}, err
			}
			return cursor{idxoff: rec.idxoff, datoff: rec.datoff, datlen: rec.datlen, found: true}, nil
		}
		saveOffset = offset
		offset = rec.next
	}
	return cursor{found: false}, nil
}
