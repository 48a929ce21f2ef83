package recdb

import (
	"fmt"
	"testing"
)

func TestStoreFetchOneRecord(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Insert); err != nil {
		t.Fatal(err)
	}
	val, err := h.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "v1" {
		t.Errorf("got %q, want v1", val)
	}
}

func TestStoreMultipleRecords(t *testing.T) {
	h := openNewDB(t)
	const n = 50
	keys := make([]string, n)
	vals := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("k%d", i)
		vals[i] = fmt.Sprintf("v%d", i)
		if err := h.Store(keys[i], vals[i], Insert); err != nil {
			t.Fatal(err)
		}
	}
	for i, k := range keys {
		val, err := h.Fetch(k)
		if err != nil {
			t.Fatal(err)
		}
		if string(val) != vals[i] {
			t.Errorf("key %s: got %q, want %q", k, val, vals[i])
		}
	}
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k1", "v2", Insert); err != ErrKeyExists {
		t.Errorf("got %v, want ErrKeyExists", err)
	}
}

func TestReplaceMissingKeyFails(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Replace); err != ErrNoSuchKey {
		t.Errorf("got %v, want ErrNoSuchKey", err)
	}
}

func TestFetchMissingKeyFails(t *testing.T) {
	h := openNewDB(t)
	if _, err := h.Fetch("nope"); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReplaceInPlaceSameLength(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "aaa", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k1", "bbb", Replace); err != nil {
		t.Fatal(err)
	}
	if h.Stats().StoreReplaceInPlace != 1 {
		t.Errorf("StoreReplaceInPlace = %d, want 1", h.Stats().StoreReplaceInPlace)
	}
	val, err := h.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "bbb" {
		t.Errorf("got %q, want bbb", val)
	}
}

func TestReplaceRelocateDifferentLength(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "short", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k1", "a much longer replacement value", Replace); err != nil {
		t.Fatal(err)
	}
	if h.Stats().StoreReplaceRelocate != 1 {
		t.Errorf("StoreReplaceRelocate = %d, want 1", h.Stats().StoreReplaceRelocate)
	}
	val, err := h.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "a much longer replacement value" {
		t.Errorf("got %q", val)
	}
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Upsert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k1", "v2", Upsert); err != nil {
		t.Fatal(err)
	}
	val, err := h.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "v2" {
		t.Errorf("got %q, want v2", val)
	}
}

func TestDeleteSimple(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k2", "v2", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Delete("k2"); err != nil {
		t.Fatal(err)
	}
	val, err := h.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "v1" {
		t.Errorf("got %q, want v1", val)
	}
	if _, err := h.Fetch("k2"); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingKeyFails(t *testing.T) {
	h := openNewDB(t)
	if err := h.Delete("nope"); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestInsertDeleteInsertReusesFreeSlot(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Store("k2", "v2", Insert); err != nil {
		t.Fatal(err)
	}
	if err := h.Delete("k2"); err != nil {
		t.Fatal(err)
	}
	// k2 again: same key length, different value but same data length as
	// the tombstone ("v2" and "v3" both length 2), so this should reuse
	// the free-list slot rather than append.
	if err := h.Store("k2", "v3", Insert); err != nil {
		t.Fatal(err)
	}
	if h.Stats().StoreReuse != 1 {
		t.Errorf("StoreReuse = %d, want 1", h.Stats().StoreReuse)
	}
	val, err := h.Fetch("k2")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "v3" {
		t.Errorf("got %q, want v3", val)
	}
}

func TestStoreValueTooShortFails(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "", Insert); err != ErrValueTooSmall {
		t.Errorf("got %v, want ErrValueTooSmall", err)
	}
}

func TestStoreRejectsEmbeddedSeparator(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("bad:key", "v1", Insert); err != ErrInvalidKey {
		t.Errorf("got %v, want ErrInvalidKey", err)
	}
	if err := h.Store("k1", "bad\nvalue", Insert); err != ErrInvalidKey {
		t.Errorf("got %v, want ErrInvalidKey", err)
	}
}

func TestFetchAllAfterBulkInsertAndDelete(t *testing.T) {
	h := openNewDB(t)
	const n = 100
	keys := make([]string, n)
	vals := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("k%d", i)
		vals[i] = fmt.Sprintf("v%d", i)
		if err := h.Store(keys[i], vals[i], Insert); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < n; i += 2 {
		if err := h.Delete(keys[i]); err != nil {
			t.Fatal(err)
		}
	}
	all, err := h.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != n/2 {
		t.Errorf("FetchAll returned %d records, want %d", len(all), n/2)
	}
	for i := 1; i < n; i += 2 {
		if all[keys[i]] == nil {
			t.Errorf("missing key %s in FetchAll result", keys[i])
		}
	}
}
