package recdb

import (
	"io"

	"github.com/kvfile/recdb/internal/reclock"
)

// locateAndLock computes key's chain offset, acquires the requested lock
// on that one byte, and walks the chain looking for key. It returns the
// located cursor and the still-held lock; the caller is responsible for
// releasing it (spec.md §4.5: "the chain lock is not released; the
// caller releases it").
func (h *Handle) locateAndLock(key string, write bool) (cursor, reclock.Held, error) {
	chainoff := h.chainOffset(key)
	region := reclock.NewRegion(h.idxFile.Fd(), chainoff, io.SeekStart, 1)

	var held reclock.Held
	var err error
	if write {
		held, err = region.WriteLock()
	} else {
		held, err = region.ReadLock()
	}
	if err != nil {
		return cursor{}, held, err
	}

	cur := cursor{chainoff: chainoff, ptroff: chainoff}
	offset, err := h.readPtr(chainoff)
	if err != nil {
		held.Release()
		return cursor{}, held, err
	}

	for offset != 0 {
		rec, eof, err := h.readIdx(offset)
		if err != nil {
			held.Release()
			return cursor{}, held, err
		}
		if eof {
			held.Release()
			return cursor{}, held, corruptf(offset, "chain pointer references past end of file")
		}
		if rec.key == key {
			cur.idxoff = rec.idxoff
			cur.idxlen = rec.idxlen
			cur.datoff = rec.datoff
			cur.datlen = rec.datlen
			cur.ptrval = rec.next
			cur.key = rec.key
			cur.found = true
			return cur, held, nil
		}
		cur.ptroff = offset
		cur.ptrval = rec.next
		offset = rec.next
	}

	return cur, held, nil
}
