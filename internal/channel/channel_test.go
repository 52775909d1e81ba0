package channel_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"subtylsocket/internal/channel"
)

func fixedKey(b byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func TestChannel_RoundTrip(t *testing.T) {
	ch := channel.New(fixedKey(0x42))
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	env, err := ch.Encrypt(plaintext, nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := ch.Decrypt(env, nil)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestChannel_EnvelopeShape(t *testing.T) {
	ch := channel.New(fixedKey(0x01))
	env, err := ch.Encrypt([]byte("hello"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(env, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if decoded["type"] != "encrypted-plugin-message" {
		t.Fatalf("got type %v, want encrypted-plugin-message", decoded["type"])
	}
	if decoded["algorithm"] != "aes-256-gcm" {
		t.Fatalf("got algorithm %v, want aes-256-gcm", decoded["algorithm"])
	}
	encrypted, ok := decoded["encrypted"].(map[string]any)
	if !ok {
		t.Fatal("encrypted field missing or wrong shape")
	}
	if _, ok := encrypted["data"]; !ok {
		t.Fatal("encrypted.data missing")
	}
	metadata, ok := encrypted["metadata"].(map[string]any)
	if !ok {
		t.Fatal("encrypted.metadata missing or wrong shape")
	}
	if _, ok := metadata["iv"]; !ok {
		t.Fatal("encrypted.metadata.iv missing")
	}
	if _, ok := metadata["tag"]; !ok {
		t.Fatal("encrypted.metadata.tag missing")
	}
}

func TestChannel_TamperedCiphertextFailsToDecrypt(t *testing.T) {
	ch := channel.New(fixedKey(0x07))
	env, err := ch.Encrypt([]byte("authenticate me"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(env, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	encrypted := decoded["encrypted"].(map[string]any)
	encrypted["data"] = "AAAAAAAAAAAAAAAA"
	tampered, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}

	if _, err := ch.Decrypt(tampered, nil); err == nil {
		t.Fatal("Decrypt succeeded on tampered ciphertext")
	}
}

func TestChannel_WrongAlgorithmNameRejected(t *testing.T) {
	ch := channel.New(fixedKey(0x09))
	env, err := ch.Encrypt([]byte("hi"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(env, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	decoded["algorithm"] = "chacha20-poly1305"
	tampered, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if _, err := ch.Decrypt(tampered, nil); err == nil {
		t.Fatal("Decrypt accepted an envelope advertising the wrong algorithm")
	}
}

func TestChannel_AdditionalDataMustMatch(t *testing.T) {
	ch := channel.New(fixedKey(0x0a))
	env, err := ch.Encrypt([]byte("payload"), []byte("context-a"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := ch.Decrypt(env, []byte("context-b")); err == nil {
		t.Fatal("Decrypt succeeded with mismatched additional data")
	}
}

func TestChannel_DifferentKeysProduceIncompatibleChannels(t *testing.T) {
	a := channel.New(fixedKey(0x11))
	b := channel.New(fixedKey(0x22))

	env, err := a.Encrypt([]byte("secret"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := b.Decrypt(env, nil); err == nil {
		t.Fatal("Decrypt under the wrong key succeeded")
	}
}

func TestChannel_AlgorithmName(t *testing.T) {
	ch := channel.New(fixedKey(0x00))
	if ch.AlgorithmName() != "aes-256-gcm" {
		t.Fatalf("got %q, want aes-256-gcm", ch.AlgorithmName())
	}
}

func TestChannel_FingerprintIsDeterministicAndDiffersByKey(t *testing.T) {
	a := channel.New(fixedKey(0x11))
	b := channel.New(fixedKey(0x11))
	c := channel.New(fixedKey(0x22))

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("same key produced different fingerprints")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("different keys produced the same fingerprint")
	}
	if len(a.Fingerprint()) != 20 {
		t.Fatalf("got fingerprint length %d, want 20", len(a.Fingerprint()))
	}
}
