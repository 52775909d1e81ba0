package hkdf_test

import (
	"bytes"
	"testing"

	"subtylsocket/internal/hkdf"
)

func TestExpand_LengthAtLimit_Succeeds(t *testing.T) {
	prk := hkdf.Extract([]byte("salt"), []byte("ikm"))
	okm, err := hkdf.Expand(prk, []byte("info"), hkdf.MaxLength)
	if err != nil {
		t.Fatalf("Expand at MaxLength: %v", err)
	}
	if len(okm) != hkdf.MaxLength {
		t.Fatalf("got %d bytes, want %d", len(okm), hkdf.MaxLength)
	}
}

func TestExpand_OverLimit_Fails(t *testing.T) {
	prk := hkdf.Extract([]byte("salt"), []byte("ikm"))
	if _, err := hkdf.Expand(prk, []byte("info"), hkdf.MaxLength+1); err != hkdf.ErrLengthTooLarge {
		t.Fatalf("got %v, want ErrLengthTooLarge", err)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a, err := hkdf.Derive([]byte("salt"), []byte("ikm"), []byte("info"), 32)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	b, err := hkdf.Derive([]byte("salt"), []byte("ikm"), []byte("info"), 32)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("Derive is not deterministic for identical inputs")
	}
}

func TestDerive_InfoChangesOutput(t *testing.T) {
	a, _ := hkdf.Derive([]byte("salt"), []byte("ikm"), []byte("info-a"), 32)
	b, _ := hkdf.Derive([]byte("salt"), []byte("ikm"), []byte("info-b"), 32)
	if bytes.Equal(a, b) {
		t.Fatal("distinct info strings produced identical output")
	}
}

func TestDerive_ShortLength(t *testing.T) {
	okm, err := hkdf.Derive([]byte("s"), []byte("ikm"), []byte("i"), 7)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if len(okm) != 7 {
		t.Fatalf("got %d bytes, want 7", len(okm))
	}
}
