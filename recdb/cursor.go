package recdb

// cursor is the explicit, caller-visible stand-in for the hidden
// handle-embedded state the original C implementation threads through
// db_find_and_lock/_db_readidx/_db_writeidx/_db_writeptr (idxoff, datoff,
// ptroff, ptrval, chainoff). spec.md §9's first design note asks for this
// to be a value passed between locate/mutate/release steps rather than
// mutable fields on the handle; locateAndLock returns one, and every
// mutator below takes it by value or pointer instead of reading handle
// fields.
type cursor struct {
	chainoff int64 // offset of the hash-table slot this cursor was located against
	ptroff   int64 // offset of the pointer that references the located record: the chain slot if it's the first record on the chain, or the predecessor record's next-pointer field otherwise
	ptrval   int64 // the located record's own next-pointer (chain or free-list thread)
	idxoff   int64 // offset of the located record itself
	idxlen   int64 // length of its "<key>:<datoff>:<datlen>\n" payload
	datoff   int64 // offset of its data record
	datlen   int64 // length of its data record, including trailing newline
	key      string
	found    bool
}
