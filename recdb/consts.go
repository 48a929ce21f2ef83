/*-
 * Copyright (c) 2020 Abhinav Upadhyay
 * All rights reserved.
 *
 * Redistribution and use in source and binary forms, with or without
 * modification, are permitted provided that the following conditions
 * are met:
 * 1. Redistributions of source code must retain the above copyright
 *    notice, this list of conditions and the following disclaimer.
 * 2. Redistributions in binary form must reproduce the above copyright
 *    notice, this list of conditions and the following disclaimer in the
 *    documentation and/or other materials provided with the distribution.
 *
 * THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
 * ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
 * IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
 * ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
 * FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
 * DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
 * OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
 * HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
 * LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
 * OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
 * SUCH DAMAGE.
 */

// Package recdb is an embedded, single-node key/value store backed by an
// index file and a data file. Multiple independent processes may open the
// same database concurrently; mutual exclusion is advisory byte-range
// locking on the index file only (plus one whole-file lock on the data
// file during append). There is no in-memory cache, no write-ahead log,
// and no background goroutine: every public call does its own I/O and
// locking and returns.
package recdb

const (
	ptrSize = 7       // width in bytes of an encoded file offset
	ptrMax  = 9999999 // largest representable offset (10**ptrSize - 1)

	idxLenSize = 4 // width in bytes of an encoded record length

	freeOff = 0       // free-list head pointer lives at offset 0
	hashOff = ptrSize // hash table starts right after the free-list pointer

	// DefaultNHash is the chain count used by Create when the caller
	// does not override it with WithNHash. It matches the original
	// implementation's hard-coded NHASH_DEF so that a freshly created
	// database has the same 967-byte header the original produces.
	DefaultNHash = 137

	// IdxLenMin/IdxLenMax bound the formatted "<key>:<datoff>:<datlen>\n"
	// payload length (not counting the 7+4 byte record header).
	IdxLenMin = 6
	IdxLenMax = 1024

	// DatLenMin/DatLenMax bound a data record's length including its
	// trailing newline. DatLenMin=2 means the shortest storable value is
	// one byte; it comes from the original db.h's DATALEN_MIN, which
	// spec.md's prose doesn't restate but whose bound this repo keeps.
	DatLenMin = 2
	DatLenMax = 1024

	sep    = ':'
	sepStr = ":"
)
