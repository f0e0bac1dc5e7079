package signing

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

const testWalletKey = "fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19"

func testSeed() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func TestAuthenticateWallet(t *testing.T) {
	signer, err := NewWalletSignerFromHex(testWalletKey)
	if err != nil {
		t.Fatalf("NewWalletSignerFromHex: %v", err)
	}
	encoded := []byte("encoded action bytes")

	authed, err := AuthenticateWallet(encoded, signer)
	if err != nil {
		t.Fatalf("AuthenticateWallet: %v", err)
	}
	// encoded ‖ sig[:64] — the recovery byte is stripped.
	if len(authed) != len(encoded)+64 {
		t.Fatalf("authed length got=%d want=%d", len(authed), len(encoded)+64)
	}
	if !bytes.Equal(authed[:len(encoded)], encoded) {
		t.Fatalf("authed does not start with encoded bytes")
	}

	hash := crypto.Keccak256(encoded)
	sig := authed[len(encoded):]
	if !crypto.VerifySignature(signer.Pubkey(), hash, sig) {
		t.Fatalf("stripped signature does not verify")
	}
}

func TestWalletSignerPubkeyLength(t *testing.T) {
	signer, err := NewWalletSignerFromHex(testWalletKey)
	if err != nil {
		t.Fatalf("NewWalletSignerFromHex: %v", err)
	}
	if len(signer.Pubkey()) != 33 {
		t.Fatalf("compressed pubkey length got=%d want=33", len(signer.Pubkey()))
	}
}

func TestNewWalletSignerFromHex_Invalid(t *testing.T) {
	if _, err := NewWalletSignerFromHex("not-a-key"); err == nil {
		t.Fatal("expected error for invalid hex key")
	}
}

func TestAuthenticateSession(t *testing.T) {
	signer, err := NewSessionSignerFromSeed(testSeed())
	if err != nil {
		t.Fatalf("NewSessionSignerFromSeed: %v", err)
	}
	encoded := []byte("encoded action bytes")

	authed, err := AuthenticateSession(encoded, signer)
	if err != nil {
		t.Fatalf("AuthenticateSession: %v", err)
	}
	// encoded ‖ signature，签名直接覆盖消息本身，无哈希间接层
	if len(authed) != len(encoded)+ed25519.SignatureSize {
		t.Fatalf("authed length got=%d want=%d", len(authed), len(encoded)+ed25519.SignatureSize)
	}
	sig := authed[len(encoded):]
	if !ed25519.Verify(ed25519.PublicKey(signer.Pubkey()), encoded, sig) {
		t.Fatalf("session signature does not verify")
	}
}

func TestSessionSignerPubkeyLength(t *testing.T) {
	signer, err := NewSessionSignerFromSeed(testSeed())
	if err != nil {
		t.Fatalf("NewSessionSignerFromSeed: %v", err)
	}
	if len(signer.Pubkey()) != 32 {
		t.Fatalf("session pubkey length got=%d want=32", len(signer.Pubkey()))
	}
}

func TestNewSessionSignerFromSeed_WrongLength(t *testing.T) {
	if _, err := NewSessionSignerFromSeed(make([]byte, 31)); err == nil {
		t.Fatal("expected error for short seed")
	}
	if _, err := NewSessionSignerFromSeed(make([]byte, 64)); err == nil {
		t.Fatal("expected error for long seed")
	}
}
