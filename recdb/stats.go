package recdb

// Stats is a snapshot of one handle's operation counters. spec.md §9
// notes that the original increments these non-atomically even under
// multi-process access, and that they are best understood as per-handle
// rather than a cross-process total; this implementation keeps that
// model verbatim — Stats is never shared or synchronized across
// *Handle values, let alone processes.
type Stats struct {
	FetchOK, FetchErr uint64
	// StoreAppend/StoreReuse/StoreReplaceInPlace/StoreReplaceRelocate
	// correspond to spec.md §4.8's store counters 1, 2, 4 and 3: appended
	// a new record, reused a free-list tombstone, replaced in place (same
	// size), replaced by delete+reinsert (different size).
	StoreAppend, StoreReuse, StoreReplaceInPlace, StoreReplaceRelocate uint64
	DeleteOK, DeleteErr                                                uint64
	NextRecord                                                         uint64
}

// Stats returns a copy of the handle's current counters.
func (h *Handle) Stats() Stats {
	return h.stats
}
