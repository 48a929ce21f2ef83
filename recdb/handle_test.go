package recdb

import (
	"os"
	"testing"
)

const testDBName = "recdb_test"

func openNewDB(t *testing.T, opts ...Option) *Handle {
	t.Helper()
	removeDB(testDBName)
	t.Cleanup(func() { removeDB(testDBName) })
	h, err := Create(testDBName, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func removeDB(name string) {
	os.Remove(name + ".idx")
	os.Remove(name + ".dat")
}

func TestCreateEmptyDatabase(t *testing.T) {
	h := openNewDB(t)

	idxInfo, err := os.Stat(testDBName + ".idx")
	if err != nil {
		t.Fatal(err)
	}
	wantSize := int64(DefaultNHash+1)*ptrSize + 1
	if idxInfo.Size() != wantSize {
		t.Errorf("initial index file size %d, want %d", idxInfo.Size(), wantSize)
	}

	datInfo, err := os.Stat(testDBName + ".dat")
	if err != nil {
		t.Fatal(err)
	}
	if datInfo.Size() != 0 {
		t.Errorf("initial data file size %d, want 0", datInfo.Size())
	}
	_ = h
}

func TestCreateIsIdempotent(t *testing.T) {
	h := openNewDB(t)
	if err := h.Store("k1", "v1", Insert); err != nil {
		t.Fatal(err)
	}
	h.Close()

	h2, err := Create(testDBName)
	if err != nil {
		t.Fatal(err)
	}
	defer h2.Close()
	val, err := h2.Fetch("k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "v1" {
		t.Errorf("got %q, want v1", val)
	}
}

func TestOpenNonexistentFails(t *testing.T) {
	removeDB(testDBName)
	if _, err := Open(testDBName); err == nil {
		t.Error("Open of nonexistent database should fail")
	}
}

func TestWithNHash(t *testing.T) {
	h := openNewDB(t, WithNHash(17))
	idxInfo, err := os.Stat(testDBName + ".idx")
	if err != nil {
		t.Fatal(err)
	}
	wantSize := int64(17+1)*ptrSize + 1
	if idxInfo.Size() != wantSize {
		t.Errorf("index file size %d, want %d", idxInfo.Size(), wantSize)
	}
}
