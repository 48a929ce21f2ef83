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

package recdb

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/kvfile/recdb/internal/reclock"
	"github.com/kvfile/recdb/internal/recdblog"
)

// Handle is a single process's open connection to a database. It is not
// safe for concurrent use by multiple goroutines (spec.md §5:
// "single-threaded per handle"); concurrency across independent processes
// sharing the same two files is what the lock discipline in internal/reclock
// exists for.
type Handle struct {
	idxFile *os.File
	datFile *os.File
	path    string
	nhash   uint64
	log     *zap.SugaredLogger

	scanPos int64 // sequential-scan cursor, advanced by Next; set by Rewind
	stats   Stats
}

// Option configures Open/Create.
type Option func(*options)

type options struct {
	nhash    uint64
	logger   *zap.SugaredLogger
	fileMode os.FileMode
}

func defaultOptions() options {
	return options{
		nhash:    DefaultNHash,
		logger:   recdblog.Nop(),
		fileMode: 0644,
	}
}

// WithNHash overrides the hash-table chain count. Create uses it to size
// the header of a new database, and every handle (from Open or Create)
// uses it to map keys to chains. Nothing on disk records it, so Open must
// be given the same value the database was created with (see DESIGN.md's
// Open Questions).
func WithNHash(n uint64) Option {
	return func(o *options) { o.nhash = n }
}

// WithLogger injects a logger; the default is a no-op logger so embedders
// who don't call this get silence, not stderr spam.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFileMode overrides the permission bits Create uses for new files.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) { o.fileMode = mode }
}

// Open opens an existing database at path (path.idx, path.dat). It never
// creates files; use Create for that. nhash defaults to DefaultNHash and
// must be overridden with WithNHash if the database was created with a
// different chain count.
func Open(path string, opts ...Option) (*Handle, error) {
	return open(path, os.O_RDWR, false, opts...)
}

// Create opens path, creating path.idx/path.dat if they don't exist. If
// the index file is empty (freshly created, or previously created but
// never initialized), it writes the header: a null free-list pointer
// followed by nhash null chain pointers and a terminating newline. It is
// safe to call Create on a database that already exists; in that case it
// behaves like Open.
func Create(path string, opts ...Option) (*Handle, error) {
	return open(path, os.O_RDWR|os.O_CREATE, true, opts...)
}

func open(path string, mode int, mayInit bool, opts ...Option) (*Handle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = recdblog.Nop()
	}

	idxFile, err := os.OpenFile(path+".idx", mode, o.fileMode)
	if err != nil {
		return nil, err
	}
	datFile, err := os.OpenFile(path+".dat", mode, o.fileMode)
	if err != nil {
		idxFile.Close()
		return nil, err
	}

	h := &Handle{
		idxFile: idxFile,
		datFile: datFile,
		path:    path,
		nhash:   o.nhash,
		log:     o.logger,
	}

	if mayInit {
		if err := h.maybeInitialize(); err != nil {
			h.Close()
			return nil, err
		}
	}

	h.Rewind()
	h.log.Debugw("opened database", "path", path, "nhash", h.nhash)
	return h, nil
}

// maybeInitialize locks the whole index file, checks whether it's empty,
// and if so writes the header. The lock makes "check size, then write"
// atomic against a concurrent process doing the same Create (spec.md
// §4.10).
func (h *Handle) maybeInitialize() error {
	region := reclock.NewRegion(h.idxFile.Fd(), 0, io.SeekStart, 0)
	held, err := region.WriteLock()
	if err != nil {
		return err
	}
	defer held.Release()

	info, err := h.idxFile.Stat()
	if err != nil {
		return err
	}
	if info.Size() != 0 {
		return nil
	}

	zero, err := encodePtr(0)
	if err != nil {
		return err
	}
	header := strings.Repeat(zero, int(h.nhash)+1) + "\n"
	if _, err := h.idxFile.WriteAt([]byte(header), 0); err != nil {
		return err
	}
	return nil
}

// Close releases both file descriptors. It does not flush anything,
// since every write already landed with an explicit Write/WriteAt/Writev
// before returning.
func (h *Handle) Close() error {
	var ferr error
	if h.idxFile != nil {
		if err := h.idxFile.Close(); err != nil {
			ferr = err
		}
	}
	if h.datFile != nil {
		if err := h.datFile.Close(); err != nil && ferr == nil {
			ferr = err
		}
	}
	return ferr
}

func headerEnd(nhash uint64) int64 {
	return int64(nhash+1)*ptrSize + 1
}
