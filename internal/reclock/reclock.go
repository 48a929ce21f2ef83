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

// Package reclock wraps POSIX advisory byte-range locks (fcntl F_SETLK /
// F_SETLKW) behind a scoped acquisition value so every call site releases
// what it acquires; with deferred Release calls, locks are dropped in the
// reverse of the order the caller acquired them.
package reclock

import "syscall"

// Region is a single lockable byte range, acquired against one fd.
type Region struct {
	fd     uintptr
	offset int64
	whence int16
	length int64
}

// Held is a lock that has been successfully acquired. Release drops it.
// The zero value is not a valid Held; only Region.ReadLock/WriteLock
// produce one.
type Held struct {
	region Region
	freed  bool
}

func NewRegion(fd uintptr, offset int64, whence int16, length int64) Region {
	return Region{fd: fd, offset: offset, whence: whence, length: length}
}

// ReadLock blocks until a shared lock on the region is granted.
func (r Region) ReadLock() (Held, error) {
	if err := setLock(r, syscall.F_SETLKW, syscall.F_RDLCK); err != nil {
		return Held{}, err
	}
	return Held{region: r}, nil
}

// WriteLock blocks until an exclusive lock on the region is granted.
func (r Region) WriteLock() (Held, error) {
	if err := setLock(r, syscall.F_SETLKW, syscall.F_WRLCK); err != nil {
		return Held{}, err
	}
	return Held{region: r}, nil
}

// TryWriteLock attempts to acquire an exclusive lock without blocking.
func (r Region) TryWriteLock() (Held, error) {
	if err := setLock(r, syscall.F_SETLK, syscall.F_WRLCK); err != nil {
		return Held{}, err
	}
	return Held{region: r}, nil
}

// Release drops the lock. It is safe to call more than once; the first
// call does the work, later calls are no-ops. A failure here is
// reported, not swallowed — the caller's policy on lock-system failure
// (fatal, per the teacher's convention) applies to Release the same as
// to acquisition.
func (h *Held) Release() error {
	if h.freed {
		return nil
	}
	h.freed = true
	return setLock(h.region, syscall.F_SETLK, syscall.F_UNLCK)
}

func setLock(r Region, cmd int, lockType int16) error {
	lock := &syscall.Flock_t{
		Type:   lockType,
		Whence: r.whence,
		Start:  r.offset,
		Len:    r.length,
	}
	return syscall.FcntlFlock(r.fd, cmd, lock)
}
