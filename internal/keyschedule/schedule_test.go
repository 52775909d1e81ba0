package keyschedule_test

import (
	"bytes"
	"testing"

	"subtylsocket/internal/keyschedule"
)

func fixedSecretAndNonces() (secret, initNonce, respNonce []byte) {
	secret = bytes.Repeat([]byte{0x11}, 32)
	initNonce = bytes.Repeat([]byte{0x22}, 32)
	respNonce = bytes.Repeat([]byte{0x33}, 32)
	return
}

func TestDerive_DomainSeparation(t *testing.T) {
	secret, in, rn := fixedSecretAndNonces()
	keys, err := keyschedule.Derive(secret, in, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if keys.Encryption == keys.Authentication ||
		keys.Authentication == keys.Confirmation ||
		keys.Encryption == keys.Confirmation {
		t.Fatal("derived keys are not pairwise distinct")
	}
}

func TestDerive_Deterministic(t *testing.T) {
	secret, in, rn := fixedSecretAndNonces()
	a, err := keyschedule.Derive(secret, in, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	b, err := keyschedule.Derive(secret, in, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a != b {
		t.Fatal("Derive is not deterministic for identical inputs")
	}
}

func TestDerive_SaltSensitivity(t *testing.T) {
	secret, in, rn := fixedSecretAndNonces()
	base, err := keyschedule.Derive(secret, in, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	flipped := append([]byte{}, in...)
	flipped[0] ^= 0x01
	other, err := keyschedule.Derive(secret, flipped, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if base.Encryption == other.Encryption {
		t.Fatal("flipping a nonce bit did not change the derived encryption key")
	}
}

func TestDerive_AfterDestroyIsZero(t *testing.T) {
	secret, in, rn := fixedSecretAndNonces()
	keys, err := keyschedule.Derive(secret, in, rn)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	keys.Destroy()
	var zero [32]byte
	if keys.Encryption != zero || keys.Authentication != zero || keys.Confirmation != zero {
		t.Fatal("Destroy did not zeroize all three keys")
	}
}
