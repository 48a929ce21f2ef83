package recdb

import "testing"

func TestEncodeDecodePtrRoundTrip(t *testing.T) {
	vals := []int64{0, 1, 42, 967, ptrMax}
	for _, v := range vals {
		enc, err := encodePtr(v)
		if err != nil {
			t.Fatalf("encodePtr(%d): %v", v, err)
		}
		if len(enc) != ptrSize {
			t.Errorf("encodePtr(%d) = %q, want length %d", v, enc, ptrSize)
		}
		got, err := decodePtr(enc)
		if err != nil {
			t.Fatalf("decodePtr(%q): %v", enc, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %q -> %d", v, enc, got)
		}
	}
}

func TestEncodePtrOutOfRange(t *testing.T) {
	if _, err := encodePtr(-1); err == nil {
		t.Error("encodePtr(-1) should fail")
	}
	if _, err := encodePtr(ptrMax + 1); err == nil {
		t.Errorf("encodePtr(%d) should fail", ptrMax+1)
	}
}

func TestEncodeDecodeLenRoundTrip(t *testing.T) {
	vals := []int64{0, 6, 1024, 9999}
	for _, v := range vals {
		enc, err := encodeLen(v)
		if err != nil {
			t.Fatalf("encodeLen(%d): %v", v, err)
		}
		if len(enc) != idxLenSize {
			t.Errorf("encodeLen(%d) = %q, want length %d", v, enc, idxLenSize)
		}
		got, err := decodeLen(enc)
		if err != nil {
			t.Fatalf("decodeLen(%q): %v", enc, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %q -> %d", v, enc, got)
		}
	}
}

func TestEncodeLenOutOfRange(t *testing.T) {
	if _, err := encodeLen(10000); err == nil {
		t.Error("encodeLen(10000) should fail, exceeds 4 digits")
	}
}

func TestEncodePtrSpacePadded(t *testing.T) {
	enc, err := encodePtr(42)
	if err != nil {
		t.Fatal(err)
	}
	if enc != "     42" {
		t.Errorf("encodePtr(42) = %q, want %q (space-padded, not zero-padded)", enc, "     42")
	}
}
